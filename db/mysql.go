package db

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type mysqlDatabase struct {
	logger logger.Logger
	host   string
	db     *gorm.DB
	closed atomic.Bool
}

// NewMySQL opens and pings a gorm MySQL connection.
// A nil cfg is rejected by Validate since host and credentials have no defaults.
func NewMySQL(log logger.Logger, cfg *Config) (Database, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger:                 newGormLogger(log, cfg),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, ErrConnection(cfg.Host, err)
	}
	sqldb, err := gdb.DB()
	if err != nil {
		return nil, ErrConnection(cfg.Host, err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, ErrConnection(cfg.Host, err)
	}

	log.Info("database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return &mysqlDatabase{logger: log, host: cfg.Host, db: gdb}, nil
}

func (d *mysqlDatabase) Session(ctx context.Context) (*gorm.DB, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	if d.db == nil {
		return nil, ErrNotConnected
	}
	return d.db.WithContext(ctx), nil
}

func (d *mysqlDatabase) Ping(ctx context.Context) error {
	if d.closed.Load() {
		return ErrClosed
	}
	sqldb, err := d.db.DB()
	if err != nil {
		return ErrConnection(d.host, err)
	}
	return sqldb.PingContext(ctx)
}

// Close releases the pool. Later calls are no-ops.
func (d *mysqlDatabase) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	sqldb, err := d.db.DB()
	if err != nil {
		return ErrConnection(d.host, err)
	}
	d.logger.Info("profile database closed", zap.String("host", d.host))
	return sqldb.Close()
}

func gormLevel(level string) glogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return glogger.Silent
	case "error":
		return glogger.Error
	case "info":
		return glogger.Info
	default:
		return glogger.Warn
	}
}
