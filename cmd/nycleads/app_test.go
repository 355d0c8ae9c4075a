package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"nycleads/internal/annotations"
	"nycleads/internal/config"
	"nycleads/internal/log"
	"nycleads/internal/pipeline"
)

const condosFixture = `[{"BOROUGH":"1","NEIGHBORHOOD":"chelsea","ADDRESS":"200 W 20th St","ZIP CODE":"10011","LATITUDE":40.74,"LONGITUDE":-73.99}]`

// newTestApp wires an app over one readable category and one missing file,
// caching the index under cacheDir.
func newTestApp(t *testing.T, cacheDir string) (*app, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Condos.json"), []byte(condosFixture), 0644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	lg := log.NewWriter(&logs, slog.LevelDebug)
	cats := []config.Category{
		{Label: "Condos", Path: filepath.Join(dir, "Condos.json")},
		{Label: "Vacant", Path: filepath.Join(dir, "Vacant.json")},
	}
	a := &app{
		cfg: config.Config{
			IndexJSON: filepath.Join(cacheDir, "borough_neighborhoods.json"),
			IndexCSV:  filepath.Join(cacheDir, "borough_neighborhoods.csv"),
		},
		log:   lg,
		pipe:  &pipeline.Pipeline{Categories: cats, Log: lg},
		notes: annotations.Open(filepath.Join(dir, "annotations.csv")),
	}
	return a, &logs
}

func TestLoadIndexKeepsIndexWhenCacheUnwritable(t *testing.T) {
	// A regular file where the cache directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	a, logs := newTestApp(t, blocker)

	idx, built, err := a.loadIndex(false)
	if err != nil {
		t.Fatalf("loadIndex() error: %v", err)
	}
	if !built {
		t.Errorf("expected a fresh build")
	}
	if got := idx.Lookup("Manhattan"); !reflect.DeepEqual(got, []string{"Chelsea"}) {
		t.Errorf("Lookup(Manhattan) = %v", got)
	}
	if !strings.Contains(logs.String(), "index cache not saved") {
		t.Errorf("save failure not reported: %s", logs.String())
	}
}

func TestLoadIndexWritesCache(t *testing.T) {
	cache := t.TempDir()
	a, _ := newTestApp(t, cache)

	if _, built, err := a.loadIndex(false); err != nil || !built {
		t.Fatalf("first loadIndex() = built %v, err %v", built, err)
	}
	if _, built, err := a.loadIndex(false); err != nil || built {
		t.Errorf("second loadIndex() = built %v, err %v; want cache hit", built, err)
	}
}

func TestNewServerLogsFileWarningsOnce(t *testing.T) {
	a, logs := newTestApp(t, t.TempDir())
	a.newServer(":0")

	n := 0
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "Vacant.json") {
			n++
		}
	}
	if n != 1 {
		t.Errorf("missing file reported %d times, want 1:\n%s", n, logs.String())
	}
}
