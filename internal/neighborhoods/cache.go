package neighborhoods

import (
	"fmt"
	"os"

	"nycleads/internal/lockfile"
)

// Load reads a cached index from its JSON file.
func Load(jsonPath string) (*Index, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Save writes the JSON and CSV exports. Writers are serialized through a lock
// on the JSON path; each file is replaced atomically. An empty csvPath skips
// the tabular export.
func Save(idx *Index, jsonPath, csvPath string) error {
	jsonData, err := idx.MarshalIndentJSON()
	if err != nil {
		return fmt.Errorf("encode neighborhood index: %w", err)
	}
	var csvData []byte
	if csvPath != "" {
		if csvData, err = idx.CSV(); err != nil {
			return fmt.Errorf("encode neighborhood table: %w", err)
		}
	}

	lock, err := lockfile.Acquire(jsonPath)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := lockfile.WriteFile(jsonPath, jsonData); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	if csvPath != "" {
		if err := lockfile.WriteFile(csvPath, csvData); err != nil {
			return fmt.Errorf("write %s: %w", csvPath, err)
		}
	}
	return nil
}

// LoadOrBuild returns the cached index unless it is absent, unreadable, or
// refresh is set; in those cases it calls build and saves the result. The
// second return value reports whether a build happened.
func LoadOrBuild(jsonPath, csvPath string, refresh bool, build func() (*Index, error)) (*Index, bool, error) {
	if !refresh {
		// A corrupt cache falls through to a rebuild like a missing one.
		if idx, err := Load(jsonPath); err == nil {
			return idx, false, nil
		}
	}

	idx, err := build()
	if err != nil {
		return nil, false, err
	}
	if err := Save(idx, jsonPath, csvPath); err != nil {
		return idx, true, err
	}
	return idx, true, nil
}
