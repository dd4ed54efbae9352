package events

import (
	"context"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
	"go.uber.org/zap"
)

const defaultPublishTimeout = 2 * time.Second

// Recorder is a speech.Observer that forwards to a Sink
type Recorder struct {
	logger  logger.Logger
	sink    Sink
	timeout time.Duration
	now     func() time.Time
}

var _ speech.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder. A nil sink records nothing.
func NewRecorder(log logger.Logger, sink Sink) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}
	return &Recorder{
		logger:  log,
		sink:    sink,
		timeout: defaultPublishTimeout,
		now:     time.Now,
	}
}

// OnServe records a served entry
func (r *Recorder) OnServe(userID string, entry speech.Entry, source speech.Source) {
	r.publish(Event{
		Type:     TypeServe,
		UserID:   userID,
		At:       r.now(),
		Category: string(entry.Category),
		Source:   string(source),
		Content:  entry.Content,
	})
}

// OnRefill records a refill pass
func (r *Recorder) OnRefill(userID string, stats speech.RefillStats) {
	ev := Event{
		Type:    TypeRefill,
		UserID:  userID,
		At:      r.now(),
		Calls:   byName(stats.Calls),
		Added:   byName(stats.Added),
		Evicted: stats.Evicted,
	}
	if stats.Err != nil {
		ev.Error = stats.Err.Error()
	}
	r.publish(ev)
}

func (r *Recorder) publish(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.sink.Publish(ctx, ev); err != nil {
		r.logger.Warn("failed to publish speech event",
			zap.String("type", string(ev.Type)),
			zap.String("user_id", ev.UserID),
			zap.Error(err),
		)
	}
}

func byName(counts map[speech.Category]int) map[string]int {
	if len(counts) == 0 {
		return nil
	}
	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[string(c)] = n
	}
	return out
}
