package schema

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/samber/lo"
)

// Validate checks a definition and reports every problem found at once.
// It returns nil or an *AggregateError.
func Validate(def *domain.Definition) error {
	if def == nil {
		return &AggregateError{Errors: []error{&ValidationError{Key: "definition", Reason: "required"}}}
	}

	var errs []error
	fail := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	if len(def.States) == 0 {
		fail("states", "must not be empty", nil)
	}
	for _, dup := range lo.FindDuplicates(def.States) {
		fail("states", "duplicate state", dup)
	}
	if len(def.Symbols) == 0 {
		fail("symbols", "must not be empty", nil)
	}
	for _, dup := range lo.FindDuplicates(def.Symbols) {
		fail("symbols", "duplicate symbol", dup)
	}

	isState := func(s string) bool { return lo.Contains(def.States, s) }
	isSymbol := func(s string) bool { return lo.Contains(def.Symbols, s) }

	if len(def.Symbols) > 0 && !isSymbol(def.Blank) {
		fail("blank", "not in symbols", def.Blank)
	}
	if len(def.States) > 0 && !isState(def.Initial) {
		fail("initial", "not in states", def.Initial)
	}
	for i, s := range def.Final {
		if !isState(s) {
			fail(fmt.Sprintf("final[%d]", i), "not in states", s)
		}
	}
	for i, s := range def.Tape {
		if !isSymbol(s) {
			fail(fmt.Sprintf("tape[%d]", i), "not in symbols", s)
		}
	}

	seen := make(map[ruleKey]int, len(def.Rules))
	for i, r := range def.Rules {
		key := func(field string) string { return fmt.Sprintf("rules[%d].%s", i, field) }

		if !isState(r.State) {
			fail(key("state"), "not in states", r.State)
		}
		if !isSymbol(r.Read) {
			fail(key("read"), "not in symbols", r.Read)
		}
		if !isSymbol(r.Write) {
			fail(key("write"), "not in symbols", r.Write)
		}
		if !r.Move.Valid() {
			fail(key("move"), "must be L or R", nil)
		}
		if !isState(r.Next) {
			fail(key("next"), "not in states", r.Next)
		}

		k := ruleKey{state: r.State, read: r.Read}
		if first, dup := seen[k]; dup {
			fail(fmt.Sprintf("rules[%d]", i), fmt.Sprintf("duplicates rules[%d] for state %q reading %q", first, r.State, r.Read), nil)
		} else {
			seen[k] = i
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

type ruleKey struct {
	state string
	read  string
}
