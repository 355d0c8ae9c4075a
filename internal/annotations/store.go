package annotations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"nycleads/internal/lockfile"
	"nycleads/internal/types"
)

var header = []string{"key", "borough", "address", "position", "contacted", "note", "updated_at"}

// Annotation is the per-record CRM state kept outside the record set.
type Annotation struct {
	Key       string    `json:"key"`
	Borough   string    `json:"borough"`
	Address   string    `json:"address"`
	Position  int       `json:"position"`
	Contacted bool      `json:"contacted"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// For returns an empty annotation keyed to r.
func For(r types.Record) Annotation {
	return Annotation{
		Key:      r.Key(),
		Borough:  r.Borough.String(),
		Address:  r.Address,
		Position: r.Position,
	}
}

// Store keeps annotations in a CSV file. Every write rewrites the file under
// an exclusive lock so several processes can share it.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// Open returns a store backed by path. The file is created on first write.
func Open(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// All returns every annotation keyed by record key. A missing file is an
// empty store.
func (s *Store) All() (map[string]Annotation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Annotation{}, nil
		}
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

// Get returns the annotation for key; ok is false when none is stored.
func (s *Store) Get(key string) (Annotation, bool, error) {
	all, err := s.All()
	if err != nil {
		return Annotation{}, false, err
	}
	a, ok := all[key]
	return a, ok, nil
}

// Set inserts or replaces the annotation with a.Key.
func (s *Store) Set(a Annotation) (Annotation, error) {
	if strings.TrimSpace(a.Key) == "" {
		return Annotation{}, errors.New("annotation key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lock, err := lockfile.Acquire(s.path)
	if err != nil {
		return Annotation{}, err
	}
	defer lock.Unlock()

	all, err := s.All()
	if err != nil {
		return Annotation{}, err
	}
	a.UpdatedAt = s.now().UTC().Truncate(time.Second)
	all[a.Key] = a

	var b strings.Builder
	if err := encode(&b, all); err != nil {
		return Annotation{}, err
	}
	if err := lockfile.WriteFile(s.path, []byte(b.String())); err != nil {
		return Annotation{}, fmt.Errorf("write annotations: %w", err)
	}
	return a, nil
}

func decode(r io.Reader) (map[string]Annotation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}

	out := make(map[string]Annotation, len(rows))
	for i, row := range rows {
		if i == 0 && row[0] == header[0] {
			continue
		}
		pos, _ := strconv.Atoi(row[3])
		contacted, _ := strconv.ParseBool(row[4])
		updated, _ := time.Parse(time.RFC3339, row[6])
		out[row[0]] = Annotation{
			Key:       row[0],
			Borough:   row[1],
			Address:   row[2],
			Position:  pos,
			Contacted: contacted,
			Note:      row[5],
			UpdatedAt: updated,
		}
	}
	return out, nil
}

// encode writes rows sorted by key.
func encode(w io.Writer, all map[string]Annotation) error {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, k := range keys {
		a := all[k]
		updated := ""
		if !a.UpdatedAt.IsZero() {
			updated = a.UpdatedAt.Format(time.RFC3339)
		}
		if err := cw.Write([]string{
			a.Key,
			a.Borough,
			a.Address,
			strconv.Itoa(a.Position),
			strconv.FormatBool(a.Contacted),
			a.Note,
			updated,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
