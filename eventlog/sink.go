package eventlog

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Recorder is an in memory sink that keeps every published event.
type Recorder struct {
	mu     sync.Mutex
	events []quickex.Event
}

var _ quickex.EventSink = (*Recorder)(nil)

func (r *Recorder) Publish(ctx context.Context, events []quickex.Event) error {
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of all events published so far, oldest first.
func (r *Recorder) Events() []quickex.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]quickex.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of all published events, oldest first.
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind()
	}
	return kinds
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// LogSink writes each event as a single info line.
type LogSink struct {
	logger log.Logger
}

var _ quickex.EventSink = (*LogSink)(nil)

func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger.With("module", "events")}
}

func (s *LogSink) Publish(ctx context.Context, events []quickex.Event) error {
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return errors.Wrapf(errors.ErrType, "cannot serialize %q event: %s", e.Kind(), err)
		}
		s.logger.Info("event", "kind", e.Kind(), "payload", string(payload))
	}
	return nil
}

// MultiSink publishes to all sinks in order. Every sink is always called,
// the first failure is returned.
type MultiSink []quickex.EventSink

var _ quickex.EventSink = MultiSink(nil)

func (m MultiSink) Publish(ctx context.Context, events []quickex.Event) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, events); err != nil && first == nil {
			first = err
		}
	}
	return first
}
