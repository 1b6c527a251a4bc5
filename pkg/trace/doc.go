/*
Package trace provides observers for a running machine.

Each constructor returns domain.LifecycleHooks to pass to turing.WithLifecycleHooks:

  - Text writes one line per transition ("A 0 => B 1 Right"), optionally coloured.
  - Recorder keeps every event in memory, for tests and replays.
  - Log reports transitions as structured slog records.
*/
package trace
