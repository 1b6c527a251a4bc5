package dsl

import "github.com/aretw0/turing/pkg/domain"

// RuleBuilder configures a single transition rule.
type RuleBuilder struct {
	rule    domain.Rule
	builder *Builder
}

// Write sets the symbol written over the one read.
func (r *RuleBuilder) Write(symbol string) *RuleBuilder {
	r.rule.Write = symbol
	return r
}

// Left moves the head one cell to the left after writing.
func (r *RuleBuilder) Left() *RuleBuilder {
	r.rule.Move = domain.Left
	return r
}

// Right moves the head one cell to the right after writing.
func (r *RuleBuilder) Right() *RuleBuilder {
	r.rule.Move = domain.Right
	return r
}

// Move sets the head movement explicitly.
func (r *RuleBuilder) Move(m domain.Movement) *RuleBuilder {
	r.rule.Move = m
	return r
}

// Goto sets the next state and adds the rule to the definition.
func (r *RuleBuilder) Goto(state string) *Builder {
	r.rule.Next = state
	r.builder.def.Rules = append(r.builder.def.Rules, r.rule)
	return r.builder
}
