// Package schema loads, validates and compiles declarative machine definitions.
//
// A definition names its states and symbols as strings and lists its transition
// table as rules:
//
//	name: busy-beaver-2
//	states: [A, B, H]
//	symbols: ["0", "1"]
//	blank: "0"
//	initial: A
//	final: [H]
//	tape: ["0"]
//	rules:
//	  - {state: A, read: 0, write: 1, move: R, next: B}
//	  - {state: A, read: 1, write: 1, move: L, next: H}
//	  - {state: B, read: 0, write: 1, move: L, next: A}
//	  - {state: B, read: 1, write: 1, move: R, next: B}
//
// Scalars are decoded weakly, so unquoted YAML numbers such as 0 become the
// symbol "0". Validation is stricter than the engine: every rule must reference
// declared states and symbols, and the initial tape must use the alphabet.
package schema
