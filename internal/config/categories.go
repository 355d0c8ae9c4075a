package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one building-type source file.
type Category struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

type manifest struct {
	Categories []Category `yaml:"categories"`
}

// DefaultCategories lists the building-type files shipped with the sales data.
func DefaultCategories() []Category {
	return []Category{
		{Label: "Residential", Path: "Residential.json"},
		{Label: "Miscellaneous", Path: "Miscellaneous.json"},
		{Label: "Special", Path: "Special.json"},
		{Label: "Vacant", Path: "Vacant.json"},
		{Label: "Condos", Path: "Condos.json"},
		{Label: "Commercial", Path: "Commercial.json"},
		{Label: "Co-Ops", Path: "Coops.json"},
		{Label: "Mixed-Use", Path: "Mixed-Use.json"},
	}
}

// Categories returns the manifest named by CategoriesFile, or the default
// list, with relative paths resolved against DataDir.
func (c Config) Categories() ([]Category, error) {
	cats := DefaultCategories()
	if c.CategoriesFile != "" {
		var err error
		if cats, err = LoadCategories(c.CategoriesFile); err != nil {
			return nil, err
		}
	}
	for i := range cats {
		if !filepath.IsAbs(cats[i].Path) {
			cats[i].Path = filepath.Join(c.DataDir, cats[i].Path)
		}
	}
	return cats, nil
}

// LoadCategories reads a YAML manifest of the form
//
//	categories:
//	  - label: Residential
//	    path: Residential.json
func LoadCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode categories file %s: %w", path, err)
	}

	seen := make(map[string]bool)
	out := make([]Category, 0, len(m.Categories))
	for i, c := range m.Categories {
		c.Label = strings.TrimSpace(c.Label)
		c.Path = strings.TrimSpace(c.Path)
		if c.Label == "" || c.Path == "" {
			return nil, fmt.Errorf("categories file %s: entry %d needs both label and path", path, i+1)
		}
		key := strings.ToLower(c.Label)
		if seen[key] {
			return nil, fmt.Errorf("categories file %s: duplicate label %q", path, c.Label)
		}
		seen[key] = true
		out = append(out, c)
	}
	return out, nil
}

// Select returns the categories whose labels appear in labels (any case),
// in manifest order, plus the labels that matched nothing. An empty labels
// list selects everything.
func Select(cats []Category, labels []string) (selected []Category, unknown []string) {
	if len(labels) == 0 {
		return cats, nil
	}
	want := make(map[string]bool)
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			want[strings.ToLower(l)] = true
		}
	}
	if len(want) == 0 {
		return cats, nil
	}
	found := make(map[string]bool)
	for _, c := range cats {
		if want[strings.ToLower(c.Label)] {
			selected = append(selected, c)
			found[strings.ToLower(c.Label)] = true
		}
	}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" && !found[strings.ToLower(l)] {
			unknown = append(unknown, l)
		}
	}
	return selected, unknown
}
