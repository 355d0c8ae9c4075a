package pipeline

import (
	"fmt"

	"nycleads/internal/config"
	"nycleads/internal/dedup"
	"nycleads/internal/filter"
	"nycleads/internal/loader"
	"nycleads/internal/log"
	"nycleads/internal/neighborhoods"
	"nycleads/internal/normalize"
	"nycleads/internal/types"
	"nycleads/internal/zoning"
)

// EmptyResultWarning means a search matched nothing. The consumer should
// fall back to its empty/default view.
type EmptyResultWarning struct{}

func (EmptyResultWarning) Error() string {
	return "no records match the current filters; showing the default view"
}

// UnknownCategoryError names a requested building type with no source file.
type UnknownCategoryError struct {
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown building type %q", e.Label)
}

// Pipeline runs one batch ingest over the configured category files. Files
// are processed sequentially; a failure in one never stops the others.
type Pipeline struct {
	Categories []config.Category
	Zoning     *zoning.Layer
	Log        *log.Logger
}

// Dataset is the outcome of one ingest.
type Dataset struct {
	// Normalized holds every normalized row before deduplication, in
	// category then row order.
	Normalized []types.Record
	// Records is the deduplicated set with coordinates; read-only once built.
	Records []types.Record
	// Warnings collects per-file ParseError, SchemaError and
	// UnknownCategoryError values.
	Warnings []error
}

// Result is the outcome of one search.
type Result struct {
	Records  []types.Record
	Warnings []error
}

// Ingest loads the categories named by labels (all when empty).
func (p *Pipeline) Ingest(labels []string) Dataset {
	var ds Dataset

	cats, unknown := config.Select(p.Categories, labels)
	for _, l := range unknown {
		err := &UnknownCategoryError{Label: l}
		p.Log.Warn("skipping building type", "error", err)
		ds.Warnings = append(ds.Warnings, err)
	}

	for _, c := range cats {
		lg := p.Log.With("category", c.Label, "file", c.Path)

		raws, err := loader.Load(c.Path)
		if err != nil {
			lg.Warn("skipping unreadable file", "error", err)
			ds.Warnings = append(ds.Warnings, err)
			continue
		}

		recs, err := normalize.Normalize(c.Path, c.Label, raws)
		if err != nil {
			lg.Warn("skipping file with missing columns", "error", err)
			ds.Warnings = append(ds.Warnings, err)
			continue
		}

		lg.Debug("loaded category", "rows", len(raws), "records", len(recs))
		ds.Normalized = append(ds.Normalized, recs...)
	}

	ds.Records = dedup.Records(ds.Normalized)
	if p.Zoning.Len() > 0 {
		n := p.Zoning.Annotate(ds.Records)
		p.Log.Debug("zoning annotated", "records", n)
	}

	p.Log.Info("ingest complete",
		"categories", len(cats),
		"normalized", len(ds.Normalized),
		"records", len(ds.Records),
		"warnings", len(ds.Warnings))
	return ds
}

// Index builds the borough/neighborhood index from every category.
func (p *Pipeline) Index() (*neighborhoods.Index, []error) {
	ds := p.Ingest(nil)
	return neighborhoods.Build(ds.Normalized), ds.Warnings
}

// Run ingests the requested building types and filters the result.
func (p *Pipeline) Run(spec filter.Spec) Result {
	ds := p.Ingest(spec.BuildingTypes)
	res := Search(ds.Records, spec)
	res.Warnings = append(ds.Warnings, res.Warnings...)
	return res
}

// Search filters an already-ingested record set. It holds no state and never
// modifies records, so concurrent searches over the same set are safe.
func Search(records []types.Record, spec filter.Spec) Result {
	var out []types.Record
	if spec.Empty() {
		out = append(out, records...)
	} else {
		out = filter.Apply(records, spec)
	}
	res := Result{Records: out}
	if len(out) == 0 {
		res.Warnings = append(res.Warnings, EmptyResultWarning{})
	}
	return res
}
