package events

import (
	"context"
	"sync"

	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Sink receives committed events.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, e Event) error

func (fn SinkFunc) Publish(ctx context.Context, e Event) error {
	return fn(ctx, e)
}

// Discard drops all events.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })

// Multi publishes every event to all sinks. A failing sink does not stop
// the others; all failures are returned together.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Publish(ctx context.Context, e Event) error {
	var errs error
	for _, s := range m {
		errs = errors.Append(errs, s.Publish(ctx, e))
	}
	return errs
}

// LogSink writes every event to the logger at info level.
func LogSink(logger log.Logger) Sink {
	logger = logger.With("module", "events")
	return SinkFunc(func(ctx context.Context, e Event) error {
		kv := []interface{}{
			"id", e.ID.String(),
			"caller", e.Caller.String(),
			"amount", e.Amount,
			"balance", e.Balance,
		}
		if e.Index != nil {
			kv = append(kv, "index", *e.Index, "confirmations", e.Confirmations)
		}
		if e.Recipient != nil {
			kv = append(kv, "recipient", e.Recipient.String())
		}
		logger.Info(string(e.Kind), kv...)
		return nil
	})
}

// Recorder keeps all published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	// Err, when set, is returned by Publish after the event was recorded.
	Err error
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) Publish(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

// Events returns a copy of all recorded events in publishing order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Event, len(r.events))
	copy(res, r.events)
	return res
}

// Drain returns all recorded events and forgets them.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := r.events
	r.events = nil
	return res
}

// Kinds returns the kinds of all recorded events in publishing order.
func (r *Recorder) Kinds() []Kind {
	evs := r.Events()
	res := make([]Kind, len(evs))
	for i, e := range evs {
		res[i] = e.Kind
	}
	return res
}
