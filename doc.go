/*
Package turing is a generic single-tape Turing machine interpreter.

A machine is described by its states, its tape alphabet, a blank symbol, an
initial state, a set of final states and a transition function. The engine
executes the machine one transition at a time on a tape that starts finite and
grows by one blank cell whenever the head walks past either end.

States and symbols are type parameters: any comparable Go type works, so a
machine can use runes, strings, small integers or your own enum types.

# Usage

	desc := turing.Description[string, rune]{
		States:  turing.NewSet("A", "B", "H"),
		Symbols: turing.NewSet('0', '1'),
		Blank:   '0',
		Initial: "A",
		Final:   turing.NewSet("H"),
		Transition: func(sym rune, state string) (rune, domain.Movement, string) {
			switch {
			case sym == '0' && state == "A":
				return '1', domain.Right, "B"
			case sym == '1' && state == "A":
				return '1', domain.Left, "H"
			case sym == '0' && state == "B":
				return '1', domain.Left, "A"
			default:
				return '1', domain.Right, "B"
			}
		},
	}

	m, err := turing.New(desc, []rune{'0'})
	if err != nil {
		log.Fatal(err)
	}
	tape := m.Run() // [0 1 1]

# Halting

Run loops until Step reports that the current state is final. There is no step
ceiling: a machine that never reaches a final state makes Run loop forever.
Callers that need a budget or cancellation drive Step themselves, or use
package pkg/runner.

# Observability

Every applied transition is reported as a domain.StepEvent to the hooks given
with WithLifecycleHooks; package pkg/trace provides ready-made sinks that print
the classic "A 0 => B 1 Right" trace line, record events or log them.
*/
package turing
