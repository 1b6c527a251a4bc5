// Package middleware provides decorators for ports.SnapshotStore.
//
// NewEncryption seals every snapshot with AES-256-GCM so session definitions
// and tapes are unreadable at rest, whichever backend stores them.
package middleware
