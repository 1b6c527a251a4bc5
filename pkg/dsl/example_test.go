package dsl_test

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/dsl"
)

// A binary incrementer: walk to the right end, then propagate the carry.
func ExampleBuilder() {
	prog, err := dsl.New("increment").
		Blank("_").
		Start("right").
		Halt("done").
		Tape("1", "0", "1", "1").
		On("right", "0").Right().Goto("right").
		On("right", "1").Right().Goto("right").
		On("right", "_").Left().Goto("carry").
		On("carry", "1").Write("0").Left().Goto("carry").
		On("carry", "0").Write("1").Left().Goto("done").
		On("carry", "_").Write("1").Left().Goto("done").
		Compile()
	if err != nil {
		panic(err)
	}

	m, err := prog.New()
	if err != nil {
		panic(err)
	}
	fmt.Println(strings.Join(m.Run(), ""), m.Steps())
	// Output: 1100_ 8
}
