package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

// Stepper is the part of a machine the runner needs.
// *turing.Machine satisfies it.
type Stepper[S, Y comparable] interface {
	Step() bool
	State() S
	Head() int
	Position() int
	Tape() []Y
	Steps() int
	Halted() bool
}

// Result is the machine configuration when Run stopped.
type Result[S, Y comparable] struct {
	Tape     []Y
	Head     int
	Position int
	State    S
	Steps    int // total steps applied by the machine, including earlier runs
	Halted   bool
	Duration time.Duration
}

// Run steps m until it halts, ctx is done or the budget is exhausted.
// It always returns the configuration reached; the error is nil only when
// the machine halted.
func Run[S, Y comparable](ctx context.Context, m Stepper[S, Y], opts ...Option) (*Result[S, Y], error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	start := time.Now()
	applied, err := loop(ctx, m, cfg.budget)
	res := &Result[S, Y]{
		Tape:     m.Tape(),
		Head:     m.Head(),
		Position: m.Position(),
		State:    m.State(),
		Steps:    m.Steps(),
		Halted:   m.Halted(),
		Duration: time.Since(start),
	}

	if err != nil {
		cfg.logger.Warn("run stopped", "err", err, "state", res.State, "steps", applied)
		return res, err
	}
	cfg.logger.Debug("run halted", "state", res.State, "steps", applied, "duration", res.Duration)
	return res, nil
}

func loop[S, Y comparable](ctx context.Context, m Stepper[S, Y], budget int) (applied int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if missing, ok := r.(*domain.MissingTransitionError); ok {
				err = missing
				return
			}
			err = fmt.Errorf("machine panicked: %v", r)
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if m.Halted() {
			return applied, nil
		}
		if budget > 0 && applied >= budget {
			return applied, &domain.BudgetExceededError{Budget: budget, State: fmt.Sprint(m.State())}
		}
		if !m.Step() {
			return applied, nil
		}
		applied++
	}
}
