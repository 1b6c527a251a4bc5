/*
Package domain contains the core domain models shared by the Turing machine engine
and the layers built around it.

It defines the values that cross package boundaries: head movements, the events
emitted while a machine executes, persisted snapshots, and the sentinel errors.
This package is kept pure and free of I/O, following Hexagonal Architecture
principles.

# Key Entities

  - Movement: The direction the head moves after a write (Left or Right).
  - StepEvent: The quintuple (from, read, to, write, move) reported for every transition.
  - LifecycleHooks: Callbacks used to observe execution (trace, metrics, logs).
  - Snapshot: A serialisable configuration of a string-typed machine.
*/
package domain
