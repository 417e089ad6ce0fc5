// Package model defines the record types held by the entity store: one type
// per persisted collection plus the enums and derived-field helpers they
// share. Records are plain structs; all invariants that involve more than
// one record are enforced by the store or the owning service.
package model

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() string
}
