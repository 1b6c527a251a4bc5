/*
Package dsl provides a fluent Go builder for machine definitions.

It is the programmatic counterpart of the YAML/JSON definition files: the
result is the same domain.Definition, validated by the schema package, so
machines can be generated in code or in tests without touching the disk.

Example usage:

	prog, err := dsl.New("bb2").
		Blank("0").
		Start("A").
		Halt("H").
		On("A", "0").Write("1").Right().Goto("B").
		On("A", "1").Write("1").Left().Goto("H").
		On("B", "0").Write("1").Left().Goto("A").
		On("B", "1").Write("1").Right().Goto("B").
		Compile()
	if err != nil {
		return err
	}
	m, _ := prog.New()
	m.Run() // [0 1 1]

States and Symbols may be declared explicitly to fix their order; anything
referenced by a rule, the start, halt, blank or tape is added automatically.
*/
package dsl
