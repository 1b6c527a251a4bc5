package turing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// TransitionFunc maps the symbol under the head and the current state to the
// symbol to write, the head movement and the next state.
// It must be pure; the engine trusts whatever it returns.
type TransitionFunc[S, Y comparable] func(symbol Y, state S) (Y, domain.Movement, S)

// Description is the immutable formal definition of a machine.
type Description[S, Y comparable] struct {
	States     Set[S]
	Symbols    Set[Y]
	Blank      Y
	Initial    S
	Final      Set[S] // may be empty: the machine then never halts on its own
	Transition TransitionFunc[S, Y]
}

// Validate checks the construction invariants. It does not check that Final is
// a subset of States, nor that Transition is total.
func (d Description[S, Y]) Validate() error {
	if d.States.Len() == 0 {
		return &domain.ConstructionError{Err: domain.ErrEmptyStateSet}
	}
	if !d.States.Contains(d.Initial) {
		return &domain.ConstructionError{Err: domain.ErrInitialStateUnknown, Value: d.Initial}
	}
	if d.Symbols.Len() == 0 {
		return &domain.ConstructionError{Err: domain.ErrEmptySymbolSet}
	}
	if !d.Symbols.Contains(d.Blank) {
		return &domain.ConstructionError{Err: domain.ErrBlankSymbolUnknown, Value: d.Blank}
	}
	if d.Transition == nil {
		return &domain.ConstructionError{Err: domain.ErrNilTransition}
	}
	return nil
}

func (d Description[S, Y]) clone() Description[S, Y] {
	d.States = d.States.Clone()
	d.Symbols = d.Symbols.Clone()
	d.Final = d.Final.Clone()
	return d
}

// Config is a point-in-time copy of a machine's runtime configuration.
type Config[S, Y comparable] struct {
	State  S
	Head   int
	Offset int // cells prepended since construction
	Tape   []Y
	Steps  int
}

// Machine is a running Turing machine. It is not safe for concurrent use.
type Machine[S, Y comparable] struct {
	desc    Description[S, Y]
	tape    *tape.Tape[Y]
	current S
	steps   int

	hooks  domain.LifecycleHooks[S, Y]
	logger *slog.Logger
	clock  func() time.Time
}

// New validates desc and creates a machine in its initial state with the head
// on the first cell of initialTape. Tape symbols are not checked against the
// alphabet. An empty initialTape starts as a single blank cell.
func New[S, Y comparable](desc Description[S, Y], initialTape []Y, opts ...Option) (*Machine[S, Y], error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	m, err := build(desc, opts)
	if err != nil {
		return nil, err
	}
	m.current = desc.Initial
	m.tape = tape.New(desc.Blank, initialTape...)
	return m, nil
}

// Resume rebuilds a machine from a configuration captured with Snapshot,
// typically after it was persisted. The head and offset must lie inside the tape.
func Resume[S, Y comparable](desc Description[S, Y], cfg Config[S, Y], opts ...Option) (*Machine[S, Y], error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if cfg.Head < 0 || cfg.Head >= len(cfg.Tape) {
		return nil, &domain.ConstructionError{Err: domain.ErrHeadOutOfBounds, Value: cfg.Head}
	}
	if cfg.Offset < 0 || cfg.Offset > len(cfg.Tape) {
		return nil, &domain.ConstructionError{Err: domain.ErrHeadOutOfBounds, Value: cfg.Offset}
	}
	m, err := build(desc, opts)
	if err != nil {
		return nil, err
	}
	m.current = cfg.State
	m.steps = cfg.Steps
	m.tape = tape.Restore(desc.Blank, cfg.Tape, cfg.Head, cfg.Offset)
	return m, nil
}

func build[S, Y comparable](desc Description[S, Y], opts []Option) (*Machine[S, Y], error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Machine[S, Y]{
		desc:   desc.clone(),
		logger: cfg.logger,
		clock:  cfg.clock,
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.clock == nil {
		m.clock = time.Now
	}

	all := make([]domain.LifecycleHooks[S, Y], 0, len(cfg.hooks))
	for _, h := range cfg.hooks {
		typed, ok := h.(domain.LifecycleHooks[S, Y])
		if !ok {
			return nil, fmt.Errorf("lifecycle hooks of type %T do not match machine types", h)
		}
		all = append(all, typed)
	}
	m.hooks = domain.MergeHooks(all...)
	return m, nil
}

// Step applies one transition and reports whether it did. When the current
// state is final it returns false without reading the tape or calling the
// transition function, so repeated calls on a halted machine are no-ops.
func (m *Machine[S, Y]) Step() bool {
	if m.desc.Final.Contains(m.current) {
		return false
	}

	from := m.current
	head := m.tape.Head()
	read := m.tape.Read()
	write, move, next := m.desc.Transition(read, from)
	if !move.Valid() {
		panic(fmt.Sprintf("turing: transition returned invalid movement %d", int(move)))
	}
	stepNo := m.steps + 1

	if m.hooks.OnStep != nil {
		m.hooks.OnStep(&domain.StepEvent[S, Y]{
			EventBase: m.event(domain.EventStep, stepNo),
			From:      from,
			Read:      read,
			To:        next,
			Write:     write,
			Move:      move,
			Head:      head,
		})
	}
	if m.logger.Enabled(context.Background(), slog.LevelDebug) {
		m.logger.Debug("transition",
			"step", stepNo,
			"from", from,
			"read", read,
			"to", next,
			"write", write,
			"move", move.String(),
		)
	}

	m.current = next
	m.tape.Write(write)

	var extended bool
	switch move {
	case domain.Left:
		extended = m.tape.MoveLeft()
	default:
		extended = m.tape.MoveRight()
	}
	if extended && m.hooks.OnExtend != nil {
		m.hooks.OnExtend(&domain.ExtendEvent{
			EventBase: m.event(domain.EventExtend, stepNo),
			Direction: move,
			Length:    m.tape.Len(),
		})
	}

	m.steps = stepNo

	if m.desc.Final.Contains(next) {
		if m.hooks.OnHalt != nil {
			m.hooks.OnHalt(&domain.HaltEvent[S]{
				EventBase: m.event(domain.EventHalt, stepNo),
				State:     next,
			})
		}
		m.logger.Debug("final state reached", "state", next, "steps", stepNo)
	}
	return true
}

// Run steps the machine until it halts and returns a copy of the tape.
// It never returns for a machine that does not reach a final state.
func (m *Machine[S, Y]) Run() []Y {
	for m.Step() {
	}
	return m.tape.Cells()
}

// State returns the current state.
func (m *Machine[S, Y]) State() S {
	return m.current
}

// Head returns the head index into Tape().
func (m *Machine[S, Y]) Head() int {
	return m.tape.Head()
}

// Position returns the logical head position relative to the first initial cell.
func (m *Machine[S, Y]) Position() int {
	return m.tape.Position()
}

// Tape returns a copy of the current tape contents.
func (m *Machine[S, Y]) Tape() []Y {
	return m.tape.Cells()
}

// Steps returns how many transitions have been applied.
func (m *Machine[S, Y]) Steps() int {
	return m.steps
}

// Halted reports whether the current state is final.
func (m *Machine[S, Y]) Halted() bool {
	return m.desc.Final.Contains(m.current)
}

// Description returns a copy of the machine's definition.
func (m *Machine[S, Y]) Description() Description[S, Y] {
	return m.desc.clone()
}

// Snapshot captures the runtime configuration.
func (m *Machine[S, Y]) Snapshot() Config[S, Y] {
	return Config[S, Y]{
		State:  m.current,
		Head:   m.tape.Head(),
		Offset: m.tape.Offset(),
		Tape:   m.tape.Cells(),
		Steps:  m.steps,
	}
}

func (m *Machine[S, Y]) event(t domain.EventType, step int) domain.EventBase {
	return domain.EventBase{
		Timestamp: m.clock(),
		Type:      t,
		Step:      step,
	}
}
