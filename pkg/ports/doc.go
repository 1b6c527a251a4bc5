/*
Package ports defines the driven ports (interfaces) for machine sessions.

These interfaces decouple session management from storage and coordination
backends, so the same Manager runs against memory, the filesystem or Redis.

# Key Interfaces

  - SnapshotStore: persists and loads session snapshots.
  - DistributedLocker: provides distributed locking for concurrent session access.
*/
package ports
