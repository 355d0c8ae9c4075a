package dedup

import "nycleads/internal/types"

// Records drops rows with neither coordinate and then keeps only the first
// row for each address (exact, case-sensitive). Later duplicates are policy,
// not faults, so they are discarded without report.
func Records(records []types.Record) []types.Record {
	seen := make(map[string]bool, len(records))
	kept := make([]types.Record, 0, len(records))

	for _, r := range records {
		if !r.HasCoordinates() {
			continue
		}
		if seen[r.Address] {
			continue
		}
		seen[r.Address] = true
		kept = append(kept, r)
	}

	return kept
}
