package runner

import "log/slog"

type config struct {
	budget int
	logger *slog.Logger
}

// Option defines a functional option for configuring Run.
type Option func(*config)

// WithBudget limits the number of steps Run applies. Zero or a negative
// value means no limit.
func WithBudget(steps int) Option {
	return func(c *config) {
		c.budget = steps
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
