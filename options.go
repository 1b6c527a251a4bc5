package turing

import (
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
)

type config struct {
	logger *slog.Logger
	hooks  []any // domain.LifecycleHooks[S, Y], checked in New
	clock  func() time.Time
}

// Option defines a functional option for configuring a Machine.
type Option func(*config)

// WithLogger sets a structured logger. Each transition is logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. It may be given several
// times; the hooks are called in registration order. The hook type parameters
// must match the machine's, otherwise New fails.
func WithLifecycleHooks[S, Y comparable](hooks domain.LifecycleHooks[S, Y]) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.clock = now
	}
}
