package trace

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// Log returns hooks that report every event to logger at the given level.
func Log[S, Y comparable](logger *slog.Logger, level slog.Level) domain.LifecycleHooks[S, Y] {
	ctx := context.Background()
	return domain.LifecycleHooks[S, Y]{
		OnStep: func(e *domain.StepEvent[S, Y]) {
			logger.Log(ctx, level, "step",
				"step", e.Step,
				"from", e.From,
				"read", e.Read,
				"to", e.To,
				"write", e.Write,
				"move", e.Move.String(),
			)
		},
		OnExtend: func(e *domain.ExtendEvent) {
			logger.Log(ctx, level, "tape extended",
				"step", e.Step,
				"direction", e.Direction.String(),
				"length", e.Length,
			)
		},
		OnHalt: func(e *domain.HaltEvent[S]) {
			logger.Log(ctx, level, "halted", "state", e.State, "steps", e.Step)
		},
	}
}
