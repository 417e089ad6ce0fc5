package idgen

import (
	"sync"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
}

func TestStudentCode_Sequence(t *testing.T) {
	g := New(fixedClock)
	if got := g.StudentCode(); got != "SCH2024-001" {
		t.Errorf("first code = %q, want SCH2024-001", got)
	}
	if got := g.StudentCode(); got != "SCH2024-002" {
		t.Errorf("second code = %q, want SCH2024-002", got)
	}
}

func TestRollNumber_PerClassSection(t *testing.T) {
	g := New(fixedClock)
	if got := g.RollNumber("5", "A"); got != "5A-01" {
		t.Errorf("first roll = %q, want 5A-01", got)
	}
	if got := g.RollNumber("5", "A"); got != "5A-02" {
		t.Errorf("second roll = %q, want 5A-02", got)
	}
	// Another section starts its own sequence.
	if got := g.RollNumber("5", "B"); got != "5B-01" {
		t.Errorf("other section roll = %q, want 5B-01", got)
	}
}

func TestReserve_SkipsTakenIdentifiers(t *testing.T) {
	g := New(fixedClock)
	g.Reserve("SCH2024-001", "5A-01", "5A-02")
	if got := g.StudentCode(); got != "SCH2024-002" {
		t.Errorf("code = %q, want SCH2024-002", got)
	}
	if got := g.RollNumber("5", "A"); got != "5A-03" {
		t.Errorf("roll = %q, want 5A-03", got)
	}
}

func TestNewID_Unique(t *testing.T) {
	g := New(nil)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestGenerator_ConcurrentRolls(t *testing.T) {
	g := New(fixedClock)
	const n = 50
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- g.RollNumber("8", "C")
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for r := range results {
		if seen[r] {
			t.Fatalf("duplicate roll %q", r)
		}
		seen[r] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct rolls, want %d", len(seen), n)
	}
}
