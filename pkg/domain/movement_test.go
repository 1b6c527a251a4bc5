package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovement(t *testing.T) {
	cases := map[string]domain.Movement{
		"L":     domain.Left,
		"left":  domain.Left,
		" Left": domain.Left,
		"R":     domain.Right,
		"RIGHT": domain.Right,
		">":     domain.Right,
	}
	for in, want := range cases {
		got, err := domain.ParseMovement(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseMovement("stay")
	assert.ErrorIs(t, err, domain.ErrUnknownMovement)
}

func TestMovement_JSON(t *testing.T) {
	data, err := json.Marshal(domain.Rule{State: "A", Read: "0", Write: "1", Move: domain.Right, Next: "B"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"move":"R"`)

	var rule domain.Rule
	require.NoError(t, json.Unmarshal([]byte(`{"move":"left"}`), &rule))
	assert.Equal(t, domain.Left, rule.Move)
	assert.Equal(t, "Left", rule.Move.String())
}

func TestMergeHooks(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks[string, string]{
		OnStep: func(e *domain.StepEvent[string, string]) { calls = append(calls, "a:"+e.To) },
	}
	b := domain.LifecycleHooks[string, string]{
		OnStep: func(e *domain.StepEvent[string, string]) { calls = append(calls, "b:"+e.To) },
		OnHalt: func(e *domain.HaltEvent[string]) { calls = append(calls, "halt:"+e.State) },
	}

	merged := domain.MergeHooks(a, domain.LifecycleHooks[string, string]{}, b)
	merged.OnStep(&domain.StepEvent[string, string]{To: "B"})
	merged.OnHalt(&domain.HaltEvent[string]{State: "H"})

	assert.Nil(t, merged.OnExtend)
	assert.Equal(t, []string{"a:B", "b:B", "halt:H"}, calls)
}
