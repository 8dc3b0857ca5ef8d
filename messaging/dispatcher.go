package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vibeflow/eventbus-go/contracts"
)

// EventDispatcher fans envelopes out to handlers registered per event
// type. Dispatch is best-effort in registration order: one failing
// handler does not stop the others, and there is no inter-handler
// ordering guarantee beyond registration order.
type EventDispatcher struct {
	mu         sync.RWMutex
	handlers   map[string][]EventHandler
	middleware []MiddlewareFunc
	logger     *slog.Logger
}

// MiddlewareFunc processes envelopes before they reach handlers.
type MiddlewareFunc func(ctx context.Context, env contracts.Envelope, next EventHandler) error

// DispatcherOption configures the EventDispatcher.
type DispatcherOption func(*EventDispatcher)

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *EventDispatcher) {
		d.logger = logger
	}
}

// WithDispatcherMiddleware adds middleware applied to every handler.
func WithDispatcherMiddleware(middleware ...MiddlewareFunc) DispatcherOption {
	return func(d *EventDispatcher) {
		d.middleware = append(d.middleware, middleware...)
	}
}

// NewEventDispatcher creates an empty dispatcher.
func NewEventDispatcher(options ...DispatcherOption) *EventDispatcher {
	d := &EventDispatcher{
		handlers: make(map[string][]EventHandler),
		logger:   slog.Default(),
	}

	for _, opt := range options {
		opt(d)
	}

	return d
}

// Register adds a handler for an event type. Multiple handlers per
// type are allowed; they run in registration order.
func (d *EventDispatcher) Register(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	count := len(d.handlers[eventType])
	d.mu.Unlock()

	d.logger.Debug("registered event handler", "eventType", eventType, "handlers", count)
	return nil
}

// RegisterFunc adds a function handler for an event type.
func (d *EventDispatcher) RegisterFunc(eventType string, handler EventHandlerFunc) error {
	return d.Register(eventType, handler)
}

// HandlerCount returns the number of handlers for an event type.
func (d *EventDispatcher) HandlerCount(eventType string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventType])
}

// Handle implements EventHandler so the dispatcher can sit directly
// behind a SubscriptionManager loop. Each registered handler runs
// through the middleware chain; failures are collected and logged but
// dispatch continues.
func (d *EventDispatcher) Handle(ctx context.Context, env contracts.Envelope) error {
	d.mu.RLock()
	handlers := d.handlers[env.Metadata.EventType]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debug("no handlers for event type", "eventType", env.Metadata.EventType)
		return nil
	}

	var failed int
	var firstErr error
	for _, handler := range handlers {
		if err := d.run(ctx, env, handler); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			d.logger.Error("handler failed during dispatch",
				"eventId", env.Metadata.EventID,
				"eventType", env.Metadata.EventType,
				"error", err,
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d handlers failed for %s: %w",
			failed, len(handlers), env.Metadata.EventType, firstErr)
	}
	return nil
}

func (d *EventDispatcher) run(ctx context.Context, env contracts.Envelope, handler EventHandler) error {
	wrapped := handler
	for i := len(d.middleware) - 1; i >= 0; i-- {
		mw := d.middleware[i]
		next := wrapped
		wrapped = EventHandlerFunc(func(ctx context.Context, env contracts.Envelope) error {
			return mw(ctx, env, next)
		})
	}
	return wrapped.Handle(ctx, env)
}
