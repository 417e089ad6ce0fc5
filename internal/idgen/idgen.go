// Package idgen issues the display-facing identifiers attached to new
// students. Record ids are UUIDs; student codes and roll numbers are
// human-legible sequences. Uniqueness comes from per-namespace monotonic
// counters checked against a reserved set, not from randomness, so a
// generated value is unique by construction for the lifetime of the
// generator. Callers seed the reserved set with the identifiers already in
// the store at startup.
package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator issues unique identifiers. Safe for concurrent use.
type Generator struct {
	now func() time.Time

	mu       sync.Mutex
	reserved map[string]struct{}
	seq      map[string]int
}

// New returns a Generator using the given clock. A nil clock uses time.Now.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		now:      now,
		reserved: make(map[string]struct{}),
		seq:      make(map[string]int),
	}
}

// Reserve marks identifiers as taken so they are never issued again. Call
// it with every student code and roll number found in the store.
func (g *Generator) Reserve(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		if id != "" {
			g.reserved[id] = struct{}{}
		}
	}
}

// NewID returns a fresh record id.
func (g *Generator) NewID() string {
	return uuid.NewString()
}

// StudentCode returns the next free external student code for the current
// year, formatted SCH<year>-<3-digit sequence>.
func (g *Generator) StudentCode() string {
	prefix := fmt.Sprintf("SCH%d-", g.now().Year())
	return g.next(prefix, 3)
}

// RollNumber returns the next free roll number for a class/section,
// formatted <class><section>-<2-digit sequence>. On collision with a
// reserved roll the sequence is bumped until free.
func (g *Generator) RollNumber(class, section string) string {
	prefix := fmt.Sprintf("%s%s-", class, section)
	return g.next(prefix, 2)
}

func (g *Generator) next(prefix string, width int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.seq[prefix]
	for {
		n++
		candidate := fmt.Sprintf("%s%0*d", prefix, width, n)
		if _, taken := g.reserved[candidate]; !taken {
			g.seq[prefix] = n
			g.reserved[candidate] = struct{}{}
			return candidate
		}
	}
}
