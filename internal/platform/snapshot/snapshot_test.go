package snapshot

import (
	"context"
	"testing"
)

func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get after Set = ok=%v err=%v", ok, err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Get = %s, want {\"a\":1}", data)
	}

	// Overwrite replaces the slot.
	if err := s.Set(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _, _ = s.Get(ctx, "k")
	if string(data) != `{"a":2}` {
		t.Errorf("after overwrite = %s, want {\"a\":2}", data)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("Get after Delete should be absent")
	}
	// Deleting an absent key is a no-op.
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemory())
}

func TestFilesystemStore(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	testStoreContract(t, fs)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	buf := []byte(`{"a":1}`)
	if err := s.Set(ctx, "k", buf); err != nil {
		t.Fatalf("Set: %v", err)
	}
	buf[2] = 'x'
	data, _, _ := s.Get(ctx, "k")
	if string(data) != `{"a":1}` {
		t.Errorf("stored value mutated by caller: %s", data)
	}
}

func TestFilesystemStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fs1, err := NewFilesystem(dir)
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	if err := fs1.Set(ctx, "students", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	fs1.Close()

	fs2, err := NewFilesystem(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	data, ok, err := fs2.Get(ctx, "students")
	if err != nil || !ok {
		t.Fatalf("Get after reopen = ok=%v err=%v", ok, err)
	}
	if string(data) != `[]` {
		t.Errorf("Get = %s, want []", data)
	}
}

func TestOpen_DefaultsToFilesystem(t *testing.T) {
	s, err := Open(context.Background(), Options{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*Filesystem); !ok {
		t.Errorf("Open with empty driver = %T, want *Filesystem", s)
	}
}
