package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	EventPageView       = "pageview"
	EventMatchCompleted = "match_completed"

	defaultSendTimeout = 5 * time.Second
)

// MatchCompleted is sent once a result is shown.
type MatchCompleted struct {
	Score float64 `mapstructure:"score"`
}

// Emitter reports events without ever blocking or failing the caller.
type Emitter interface {
	Emit(event string, payload any)
	// Flush waits up to timeout for pending events and reports whether all finished.
	Flush(timeout time.Duration) bool
}

// Sender delivers one flattened event.
type Sender interface {
	PostMetric(ctx context.Context, fields map[string]any) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Emit(string, any) {}

func (Nop) Flush(time.Duration) bool { return true }

// Dispatcher sends every event on its own goroutine.
type Dispatcher struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

type Option func(*Dispatcher)

// WithTimeout bounds a single delivery.
func WithTimeout(d time.Duration) Option {
	return func(e *Dispatcher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New returns a Nop emitter unless enabled is set and a sender is available.
func New(enabled bool, sender Sender, logger *zap.Logger, opts ...Option) Emitter {
	if !enabled || sender == nil {
		return Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Dispatcher) Emit(event string, payload any) {
	fields, err := Flatten(event, payload)
	if err != nil {
		e.logger.Debug("telemetry event dropped", zap.String("event", event), zap.Error(err))
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Debug("telemetry sender panicked", zap.String("event", event), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()

		if err := e.sender.PostMetric(ctx, fields); err != nil {
			e.logger.Debug("telemetry event failed", zap.String("event", event), zap.Error(err))
			return
		}
		e.logger.Debug("telemetry event sent", zap.String("event", event))
	}()
}

func (e *Dispatcher) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Flatten turns a payload into the {event, ...fields} body.
// The event name always wins over a payload field called "event".
func Flatten(event string, payload any) (map[string]any, error) {
	fields := make(map[string]any)
	if payload != nil {
		if err := mapstructure.Decode(payload, &fields); err != nil {
			return nil, fmt.Errorf("flatten %s payload: %w", event, err)
		}
	}
	fields["event"] = event
	return fields, nil
}
