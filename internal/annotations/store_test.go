package annotations

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"nycleads/internal/borough"
	"nycleads/internal/types"
)

func TestForUsesStableKey(t *testing.T) {
	r := types.Record{Address: "10 Main St", Borough: borough.Parse("1"), Position: 7}
	a := For(r)
	if a.Key != "Manhattan-10 Main St-7" {
		t.Errorf("Key = %q", a.Key)
	}
	// The same row read with its borough name resolves to the same key.
	r2 := types.Record{Address: "10 Main St", Borough: borough.Parse("manhattan"), Position: 7}
	if For(r2).Key != a.Key {
		t.Errorf("keys differ: %q vs %q", For(r2).Key, a.Key)
	}
}

func TestStoreSetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes", "annotations.csv")
	s := Open(path)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("Get on empty store = ok:%v err:%v", ok, err)
	}

	a := For(types.Record{Address: "5 Vernon Blvd, Apt \"2\"", Borough: borough.Parse("4"), Position: 2})
	a.Note = "Owner asked to call back,\nafter 5pm"
	a.Contacted = true
	saved, err := s.Set(a)
	if err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if !saved.UpdatedAt.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", saved.UpdatedAt, fixed)
	}

	got, ok, err := Open(path).Get(a.Key)
	if err != nil || !ok {
		t.Fatalf("Get() ok:%v err:%v", ok, err)
	}
	if got.Note != saved.Note || got.Address != saved.Address || !got.Contacted || got.Position != 2 {
		t.Errorf("Get() = %+v, want %+v", got, saved)
	}
	if !got.UpdatedAt.Equal(fixed) {
		t.Errorf("reloaded UpdatedAt = %v, want %v", got.UpdatedAt, fixed)
	}

	a.Contacted = false
	if _, err := s.Set(a); err != nil {
		t.Fatal(err)
	}
	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[a.Key].Contacted {
		t.Errorf("update did not replace: %+v", all)
	}
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "a.csv"))
	if _, err := s.Set(Annotation{}); err == nil {
		t.Errorf("expected error for empty key")
	}
}

func TestStoreConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.csv")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := Open(path)
			a := For(types.Record{Address: "Addr", Borough: borough.Parse("3"), Position: i})
			if _, err := s.Set(a); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	all, err := Open(path).All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 10 {
		t.Errorf("got %d annotations, want 10", len(all))
	}
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.csv")
	if err := os.WriteFile(path, []byte("key,borough\nonly,two\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path).All(); err == nil {
		t.Errorf("expected error for malformed file")
	}
}
