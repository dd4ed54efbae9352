package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/routine"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"
)

const createTableSQL = "CREATE TABLE IF NOT EXISTS `%s` (" +
	"`at` DateTime64(3), " +
	"`type` LowCardinality(String), " +
	"`user_id` String, " +
	"`category` LowCardinality(String), " +
	"`source` LowCardinality(String), " +
	"`content` String, " +
	"`calls` Map(String, UInt32), " +
	"`added` Map(String, UInt32), " +
	"`evicted` Bool, " +
	"`error` String" +
	") ENGINE = MergeTree ORDER BY (type, at)"

const insertSQL = "INSERT INTO `%s` (at, type, user_id, category, source, content, calls, added, evicted, error)"

type insertFunc func(ctx context.Context, batch []Event) error

// ClickHouseSink buffers events and writes them in batches
type ClickHouseSink struct {
	logger logger.Logger
	cfg    *ClickHouseConfig
	conn   driver.Conn
	insert insertFunc

	buf  *chanx.UnboundedChan[Event]
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewClickHouseSink connects to ClickHouse and starts the batch loop
func NewClickHouseSink(log logger.Logger, cfg *ClickHouseConfig) (*ClickHouseSink, error) {
	if cfg == nil {
		cfg = DefaultClickHouseConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.validateConnection(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: cfg.Hosts,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: cfg.DialTimeout,
		Debug:       cfg.Debug,
		Settings:    cfg.Settings,
	})
	if err != nil {
		return nil, ErrConnection("clickhouse", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, ErrConnection("clickhouse", err)
	}
	if cfg.CreateTable {
		if err := conn.Exec(ctx, fmt.Sprintf(createTableSQL, cfg.Table)); err != nil {
			_ = conn.Close()
			return nil, ErrConnection("clickhouse", err)
		}
	}

	s := newClickHouseSink(log, cfg, nil)
	s.conn = conn
	s.insert = s.insertBatch

	log.Info("clickhouse event sink started",
		zap.Strings("hosts", cfg.Hosts),
		zap.String("database", cfg.Database),
		zap.String("table", cfg.Table),
	)
	return s, nil
}

// newClickHouseSink starts the batch loop around insert
func newClickHouseSink(log logger.Logger, cfg *ClickHouseConfig, insert insertFunc) *ClickHouseSink {
	ctx, cancel := context.WithCancel(context.Background())
	s := &ClickHouseSink{
		logger: log,
		cfg:    cfg,
		insert: insert,
		buf:    chanx.NewUnboundedChan[Event](ctx, cfg.FlushSize),
		stop:   cancel,
	}
	s.wg.Add(1)
	routine.GoNamed(log, "clickhouse-event-batcher", s.loop)
	return s
}

// Publish buffers ev for the next batch
func (s *ClickHouseSink) Publish(ctx context.Context, ev Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}

	select {
	case s.buf.In <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes everything still buffered and closes the connection
func (s *ClickHouseSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.buf.In)
	s.mu.Unlock()

	s.wg.Wait()
	s.stop()

	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *ClickHouseSink) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, s.cfg.FlushSize)
	for {
		select {
		case ev, ok := <-s.buf.Out:
			if !ok {
				s.flush(batch)
				return
			}
			batch = append(batch, ev)
			if len(batch) >= s.cfg.FlushSize {
				s.flush(batch)
				batch = make([]Event, 0, s.cfg.FlushSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = make([]Event, 0, s.cfg.FlushSize)
			}
		}
	}
}

func (s *ClickHouseSink) flush(batch []Event) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.insert(ctx, batch); err != nil {
		s.logger.Error("failed to write speech events",
			zap.String("table", s.cfg.Table),
			zap.Int("rows", len(batch)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("speech events written",
		zap.String("table", s.cfg.Table),
		zap.Int("rows", len(batch)),
	)
}

func (s *ClickHouseSink) insertBatch(ctx context.Context, events []Event) error {
	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf(insertSQL, s.cfg.Table))
	if err != nil {
		return ErrInsert(s.cfg.Table, err)
	}
	for _, ev := range events {
		if err := batch.Append(
			ev.At,
			string(ev.Type),
			ev.UserID,
			ev.Category,
			ev.Source,
			ev.Content,
			counts(ev.Calls),
			counts(ev.Added),
			ev.Evicted,
			ev.Error,
		); err != nil {
			_ = batch.Abort()
			return ErrInsert(s.cfg.Table, err)
		}
	}
	if err := batch.Send(); err != nil {
		return ErrInsert(s.cfg.Table, err)
	}
	return nil
}

func counts(m map[string]int) map[string]uint32 {
	out := make(map[string]uint32, len(m))
	for k, v := range m {
		if v > 0 {
			out[k] = uint32(v)
		}
	}
	return out
}
