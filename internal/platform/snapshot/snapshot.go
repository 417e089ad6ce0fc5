// Package snapshot is the persistence layer under the entity store: a flat
// key → JSON-blob slot store, one slot per collection. Drivers trade
// durability for setup cost; all of them present the same contract and none
// of them is consulted after hydration — the in-memory collections stay
// authoritative for the whole session.
package snapshot

import "context"

// Driver names a snapshot backend.
type Driver string

const (
	DriverMemory     Driver = "memory"
	DriverFilesystem Driver = "fs"
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
)

// Store reads and writes whole-collection snapshots. Get reports absence
// via the second return rather than an error so hydration can distinguish
// "no snapshot yet" from "snapshot unreadable"; either way the caller falls
// back to seed data.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
