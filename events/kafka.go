package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/routine"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// KafkaSink produces events as JSON, keyed by user id
type KafkaSink struct {
	logger logger.Logger
	cfg    *KafkaConfig
	p      *kafka.Producer

	wg     sync.WaitGroup
	done   chan struct{}
	closed atomic.Bool
}

// NewKafkaSink checks the brokers are reachable and starts a producer
func NewKafkaSink(log logger.Logger, cfg *KafkaConfig) (*KafkaSink, error) {
	if cfg == nil {
		cfg = DefaultKafkaConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.SkipValidation {
		if err := probeBrokers(log, cfg); err != nil {
			return nil, err
		}
	}

	var (
		producer *kafka.Producer
		err      error
	)
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		producer, err = kafka.NewProducer(cfg.ConfigMap())
		if err == nil {
			break
		}
		if attempt < cfg.MaxRetries {
			log.Warn("failed to create kafka producer, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", cfg.MaxRetries),
			)
			time.Sleep(time.Second)
		}
	}
	if err != nil {
		return nil, ErrConnection("kafka", err)
	}

	s := &KafkaSink{
		logger: log,
		cfg:    cfg,
		p:      producer,
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	routine.GoNamed(log, "kafka-delivery-reports", s.deliveryReports)

	log.Info("kafka event sink started",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return s, nil
}

// probeBrokers fetches cluster metadata once to fail fast on bad brokers
func probeBrokers(log logger.Logger, cfg *KafkaConfig) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers":  strings.Join(cfg.Brokers, ","),
		"request.timeout.ms": 10000,
	})
	if err != nil {
		return ErrConnection("kafka", err)
	}
	defer admin.Close()

	if _, err := admin.GetMetadata(&cfg.Topic, false, 10000); err != nil {
		return ErrConnection("kafka", err)
	}
	log.Info("kafka brokers reachable", zap.Strings("brokers", cfg.Brokers))
	return nil
}

func (s *KafkaSink) deliveryReports() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case e := <-s.p.Events():
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					s.logger.Error("failed to deliver speech event",
						zap.String("topic", s.cfg.Topic),
						zap.Error(ev.TopicPartition.Error),
					)
				}
			case kafka.Error:
				s.logger.Error("kafka producer error",
					zap.Int("code", int(ev.Code())),
					zap.Error(ev),
				)
			default:
				s.logger.Debug("ignored kafka event", zap.String("type", fmt.Sprintf("%T", ev)))
			}
		}
	}
}

// Publish enqueues ev on the producer. Delivery is reported asynchronously.
func (s *KafkaSink) Publish(ctx context.Context, ev Event) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return ErrPublish("kafka", err)
	}
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.cfg.Topic, Partition: kafka.PartitionAny},
		Key:            []byte(ev.UserID),
		Value:          value,
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(ev.Type)}},
	}
	if err := s.p.Produce(msg, nil); err != nil {
		return ErrPublish("kafka", err)
	}
	return nil
}

// Close flushes pending messages and closes the producer
func (s *KafkaSink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if remaining := s.p.Flush(int(s.cfg.FlushTimeout.Milliseconds())); remaining > 0 {
		s.logger.Warn("kafka events left unflushed on shutdown", zap.Int("remaining", remaining))
	}
	close(s.done)
	s.wg.Wait()
	s.p.Close()
	return nil
}
