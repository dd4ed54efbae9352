package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/config"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/cron"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/db"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/events"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/gateway"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/profile"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
	"go.uber.org/zap"
)

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	profiles, closeDB, err := openProfiles(log, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	var provider gateway.Provider
	if oc, ok := cfg.OpenAIConfig(); ok {
		oc.HTTPClient = &http.Client{Timeout: cfg.Gateway.Timeout + time.Second}
		provider = gateway.NewOpenAIProvider(oc)
	}
	gw, err := gateway.New(logger.Named(log, "gateway"), cfg.GatewayConfig(), provider, profiles)
	if err != nil {
		return err
	}
	if err := gw.Start(); err != nil {
		return err
	}
	defer gw.Stop()

	sink, err := openSinks(log, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Error("failed to close event sinks", zap.Error(err))
		}
	}()

	speechCfg := cfg.SpeechConfig()
	store, err := speech.NewStore(logger.Named(log, "speech"), speechCfg, gw,
		speech.WithObserver(events.NewRecorder(logger.Named(log, "events"), sink)),
	)
	if err != nil {
		return err
	}
	defer store.Close()

	if speechCfg.SweepSpec != "" {
		c := cron.NewCron(logger.Named(log, "cron"))
		if err := c.AddTasks("speech-maintenance", speechCfg.SweepSpec, speech.NewSweepTask(log, store)); err != nil {
			return err
		}
		c.Start()
		defer c.Close()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newServer(log, store, speechCfg).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("speechd listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("speechd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openProfiles returns the MySQL profile source when configured, otherwise
// an empty in-memory one
func openProfiles(log logger.Logger, cfg *config.Config) (profile.Source, func(), error) {
	dc := cfg.DBConfig()
	if dc == nil {
		log.Info("no profile database configured, prompts will not be personalised")
		return profile.NewStatic(), func() {}, nil
	}

	database, err := db.NewMySQL(logger.Named(log, "db"), dc)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}
	return profile.NewGormSource(database), closeDB, nil
}

// openSinks builds every configured event sink
func openSinks(log logger.Logger, cfg *config.Config) (events.Sink, error) {
	var sinks events.MultiSink

	if kc := cfg.KafkaConfig(); kc != nil {
		ks, err := events.NewKafkaSink(logger.Named(log, "kafka"), kc)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, ks)
	}
	if cc := cfg.ClickHouseConfig(); cc != nil {
		cs, err := events.NewClickHouseSink(logger.Named(log, "clickhouse"), cc)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, cs)
	}

	if len(sinks) == 0 {
		return events.NopSink{}, nil
	}
	return sinks, nil
}
