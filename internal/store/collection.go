package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/platform/snapshot"
)

// Collection is the generic repository instantiated once per entity type.
// Mutations are write-through: after every change the whole collection is
// re-serialized into its snapshot slot. A snapshot write failure is logged
// and swallowed — the in-memory state stays authoritative for the session.
//
// A feed collection (alerts, messages) prepends on Add so readers see
// newest-first; every other collection appends in insertion order.
type Collection[T model.Record] struct {
	name    string
	key     string
	prepend bool

	mu      sync.RWMutex
	records []T

	snap snapshot.Store
	log  zerolog.Logger
}

func newCollection[T model.Record](ctx context.Context, name string, prepend bool, snap snapshot.Store, seed []T, log zerolog.Logger) *Collection[T] {
	c := &Collection[T]{
		name:    name,
		key:     snapshotKeyPrefix + name,
		prepend: prepend,
		snap:    snap,
		log:     log.With().Str("collection", name).Logger(),
	}
	c.hydrate(ctx, seed)
	return c
}

// hydrate loads the snapshot slot, falling back to the seed when the slot
// is absent or unreadable. A corrupt slot never fails startup.
func (c *Collection[T]) hydrate(ctx context.Context, seed []T) {
	useSeed := func() {
		c.records = make([]T, len(seed))
		copy(c.records, seed)
	}

	data, ok, err := c.snap.Get(ctx, c.key)
	if err != nil {
		c.log.Warn().Err(err).Msg("snapshot unreadable, using seed")
		useSeed()
		return
	}
	if !ok {
		useSeed()
		return
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		c.log.Warn().Err(err).Msg("snapshot corrupt, using seed")
		useSeed()
		return
	}
	if records == nil {
		records = []T{}
	}
	c.records = records
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// List returns a copy of the collection in store order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Query returns all records matching pred, in store order.
func (c *Collection[T]) Query(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, r := range c.records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the record count.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Add inserts a record. Ids come from the identifier generator and are
// unique by construction; a duplicate is dropped rather than overwritten.
func (c *Collection[T]) Add(ctx context.Context, rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.RecordID() == rec.RecordID() {
			c.log.Warn().Str("id", rec.RecordID()).Msg("duplicate id, add dropped")
			return
		}
	}
	if c.prepend {
		c.records = append([]T{rec}, c.records...)
	} else {
		c.records = append(c.records, rec)
	}
	c.persistLocked(ctx)
}

// Update replaces the record matched by id with apply(old). It reports
// whether a record was found; a miss leaves the collection unchanged.
func (c *Collection[T]) Update(ctx context.Context, id string, apply func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.records {
		if r.RecordID() == id {
			c.records[i] = apply(r)
			c.persistLocked(ctx)
			return true
		}
	}
	return false
}

// Remove deletes the record with the given id, reporting whether it existed.
func (c *Collection[T]) Remove(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.records {
		if r.RecordID() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			c.persistLocked(ctx)
			return true
		}
	}
	return false
}

// RemoveWhere deletes every record matching pred and returns the count.
func (c *Collection[T]) RemoveWhere(ctx context.Context, pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.records[:0]
	removed := 0
	for _, r := range c.records {
		if pred(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0
	}
	c.records = kept
	c.persistLocked(ctx)
	return removed
}

func (c *Collection[T]) persistLocked(ctx context.Context) {
	data, err := json.Marshal(c.records)
	if err != nil {
		c.log.Warn().Err(err).Msg("snapshot marshal failed")
		return
	}
	if err := c.snap.Set(ctx, c.key, data); err != nil {
		c.log.Warn().Err(err).Msg("snapshot write failed")
	}
}
