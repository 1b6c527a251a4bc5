/*
Package session implements persistent, resumable machine sessions.

A session is a machine definition plus its runtime configuration, stored as a
domain.Snapshot. The Manager loads a snapshot, resumes the machine, steps it
under a caller-supplied budget and saves the result, so long computations can
be advanced in slices across processes or replicas.

Access to a session is serialized by a reference-counted local mutex and,
when configured, a ports.DistributedLocker.
*/
package session
