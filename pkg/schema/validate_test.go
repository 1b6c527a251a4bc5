package schema_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() *domain.Definition {
	return &domain.Definition{
		Name:    "bb2",
		States:  []string{"A", "B", "H"},
		Symbols: []string{"0", "1"},
		Blank:   "0",
		Initial: "A",
		Final:   []string{"H"},
		Tape:    []string{"0"},
		Rules: []domain.Rule{
			{State: "A", Read: "0", Write: "1", Move: domain.Right, Next: "B"},
			{State: "A", Read: "1", Write: "1", Move: domain.Left, Next: "H"},
			{State: "B", Read: "0", Write: "1", Move: domain.Left, Next: "A"},
			{State: "B", Read: "1", Write: "1", Move: domain.Right, Next: "B"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, schema.Validate(validDefinition()))
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Definition)
		wantKey string
	}{
		{name: "nil states", mutate: func(d *domain.Definition) { d.States = nil; d.Rules = nil; d.Final = nil }, wantKey: "states"},
		{name: "duplicate state", mutate: func(d *domain.Definition) { d.States = append(d.States, "A") }, wantKey: "states"},
		{name: "nil symbols", mutate: func(d *domain.Definition) { d.Symbols = nil; d.Rules = nil; d.Tape = nil }, wantKey: "symbols"},
		{name: "duplicate symbol", mutate: func(d *domain.Definition) { d.Symbols = append(d.Symbols, "1") }, wantKey: "symbols"},
		{name: "unknown blank", mutate: func(d *domain.Definition) { d.Blank = "_" }, wantKey: "blank"},
		{name: "unknown initial", mutate: func(d *domain.Definition) { d.Initial = "Z" }, wantKey: "initial"},
		{name: "unknown final", mutate: func(d *domain.Definition) { d.Final = []string{"H", "Z"} }, wantKey: "final[1]"},
		{name: "tape outside alphabet", mutate: func(d *domain.Definition) { d.Tape = []string{"0", "x"} }, wantKey: "tape[1]"},
		{name: "rule unknown state", mutate: func(d *domain.Definition) { d.Rules[0].State = "Z" }, wantKey: "rules[0].state"},
		{name: "rule unknown read", mutate: func(d *domain.Definition) { d.Rules[1].Read = "x" }, wantKey: "rules[1].read"},
		{name: "rule unknown write", mutate: func(d *domain.Definition) { d.Rules[2].Write = "x" }, wantKey: "rules[2].write"},
		{name: "rule missing move", mutate: func(d *domain.Definition) { d.Rules[3].Move = 0 }, wantKey: "rules[3].move"},
		{name: "rule unknown next", mutate: func(d *domain.Definition) { d.Rules[0].Next = "Z" }, wantKey: "rules[0].next"},
		{name: "duplicate rule", mutate: func(d *domain.Definition) { d.Rules = append(d.Rules, d.Rules[0]) }, wantKey: "rules[4]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)

			err := schema.Validate(def)
			require.Error(t, err)

			errs := schema.ValidationErrors(err)
			require.NotEmpty(t, errs)
			var keys []string
			for _, e := range errs {
				var verr *schema.ValidationError
				require.ErrorAs(t, e, &verr)
				keys = append(keys, verr.Key)
			}
			assert.Contains(t, keys, tt.wantKey)
		})
	}
}

func TestValidate_AggregatesEverything(t *testing.T) {
	def := validDefinition()
	def.Blank = "_"
	def.Initial = "Z"
	def.Rules[0].Next = "Q"

	err := schema.Validate(def)
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 3)
	assert.True(t, strings.HasPrefix(err.Error(), "3 validation errors:"))
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, schema.Validate(nil))
}
