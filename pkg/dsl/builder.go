package dsl

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/samber/lo"
)

// Builder accumulates a machine definition.
type Builder struct {
	def domain.Definition
}

// New creates a builder for a machine called name.
func New(name string) *Builder {
	return &Builder{def: domain.Definition{Name: name}}
}

// States declares states, in order.
func (b *Builder) States(states ...string) *Builder {
	b.def.States = append(b.def.States, states...)
	return b
}

// Symbols declares tape symbols, in order.
func (b *Builder) Symbols(symbols ...string) *Builder {
	b.def.Symbols = append(b.def.Symbols, symbols...)
	return b
}

// Blank sets the blank symbol.
func (b *Builder) Blank(symbol string) *Builder {
	b.def.Blank = symbol
	return b
}

// Start sets the initial state.
func (b *Builder) Start(state string) *Builder {
	b.def.Initial = state
	return b
}

// Halt marks states as final.
func (b *Builder) Halt(states ...string) *Builder {
	b.def.Final = append(b.def.Final, states...)
	return b
}

// Tape sets the initial tape contents.
func (b *Builder) Tape(symbols ...string) *Builder {
	b.def.Tape = append([]string(nil), symbols...)
	return b
}

// On starts a rule for the machine reading symbol while in state.
// Without Write the rule writes back the symbol it read.
func (b *Builder) On(state, symbol string) *RuleBuilder {
	return &RuleBuilder{
		rule:    domain.Rule{State: state, Read: symbol, Write: symbol},
		builder: b,
	}
}

// Definition returns the accumulated definition without validating it.
func (b *Builder) Definition() *domain.Definition {
	def := b.def

	states := append([]string(nil), def.States...)
	states = append(states, def.Initial)
	for _, r := range def.Rules {
		states = append(states, r.State, r.Next)
	}
	states = append(states, def.Final...)
	def.States = lo.Uniq(lo.Compact(states))

	symbols := append([]string(nil), def.Symbols...)
	symbols = append(symbols, def.Blank)
	symbols = append(symbols, def.Tape...)
	for _, r := range def.Rules {
		symbols = append(symbols, r.Read, r.Write)
	}
	def.Symbols = lo.Uniq(symbols)

	def.Final = append([]string(nil), def.Final...)
	def.Rules = append([]domain.Rule(nil), def.Rules...)
	def.Tape = append([]string(nil), def.Tape...)
	return &def
}

// Build validates and returns the definition.
func (b *Builder) Build() (*domain.Definition, error) {
	def := b.Definition()
	if err := schema.Validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Compile builds the definition and turns it into a runnable program.
func (b *Builder) Compile() (*schema.Program, error) {
	def, err := b.Build()
	if err != nil {
		return nil, err
	}
	return schema.Compile(def)
}
