package schema

import (
	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
)

// Program is a validated definition turned into an executable description.
type Program struct {
	Name        string
	Definition  domain.Definition
	Description turing.Description[string, string]
	Tape        []string
}

// Compile validates def and builds its table-driven transition function.
// The transition panics with *domain.MissingTransitionError when the machine
// reaches a (state, symbol) pair that has no rule.
func Compile(def *domain.Definition) (*Program, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	table := make(map[ruleKey]domain.Rule, len(def.Rules))
	for _, r := range def.Rules {
		table[ruleKey{state: r.State, read: r.Read}] = r
	}

	desc := turing.Description[string, string]{
		States:  turing.NewSet(def.States...),
		Symbols: turing.NewSet(def.Symbols...),
		Blank:   def.Blank,
		Initial: def.Initial,
		Final:   turing.NewSet(def.Final...),
		Transition: func(symbol string, state string) (string, domain.Movement, string) {
			r, ok := table[ruleKey{state: state, read: symbol}]
			if !ok {
				panic(&domain.MissingTransitionError{State: state, Symbol: symbol})
			}
			return r.Write, r.Move, r.Next
		},
	}

	return &Program{
		Name:        def.Name,
		Definition:  *def,
		Description: desc,
		Tape:        append([]string(nil), def.Tape...),
	}, nil
}

// New creates a fresh machine on the definition's initial tape.
func (p *Program) New(opts ...turing.Option) (*turing.Machine[string, string], error) {
	return turing.New(p.Description, p.Tape, opts...)
}

// Resume recreates a machine from a persisted snapshot of this program.
func (p *Program) Resume(snap *domain.Snapshot, opts ...turing.Option) (*turing.Machine[string, string], error) {
	return turing.Resume(p.Description, turing.Config[string, string]{
		State:  snap.State,
		Head:   snap.Head,
		Offset: snap.Offset,
		Tape:   snap.Tape,
		Steps:  snap.Steps,
	}, opts...)
}

// Capture records a machine of this program into a snapshot for sessionID.
func (p *Program) Capture(sessionID string, m *turing.Machine[string, string]) *domain.Snapshot {
	cfg := m.Snapshot()
	return &domain.Snapshot{
		SessionID:  sessionID,
		Definition: p.Definition,
		State:      cfg.State,
		Head:       cfg.Head,
		Tape:       cfg.Tape,
		Offset:     cfg.Offset,
		Steps:      cfg.Steps,
		Halted:     m.Halted(),
	}
}
