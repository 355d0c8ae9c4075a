package filter

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidZIP is returned for ZIP text that names no 5-digit code.
var ErrInvalidZIP = errors.New("invalid ZIP filter")

// zipToken matches "NNNNN-NNNNN" or "NNNNN" not embedded in a longer number.
var zipToken = regexp.MustCompile(`(?:^|\D)(\d{5})(?:\s*-\s*(\d{5}))?(?:\D|$)`)

// ZipRange is an inclusive range of ZIP codes.
type ZipRange struct {
	Lo, Hi int
}

// ZipSpec is the set of allowed ZIP codes as a union of ranges. The zero
// value imposes no constraint.
type ZipSpec struct {
	ranges []ZipRange
}

// ParseZIP reads a free-text ZIP filter such as "10001, 10005, 10007-10011".
// Empty text, "0" and "all" (any case) mean no constraint. Reversed ranges
// are accepted.
func ParseZIP(text string) (ZipSpec, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "0" || strings.EqualFold(text, "all") {
		return ZipSpec{}, nil
	}

	var spec ZipSpec
	// Tokens may share a separator, so scan from the end of each match's
	// last digit rather than the end of the match.
	for rest := text; ; {
		loc := zipToken.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		lo, _ := strconv.Atoi(rest[loc[2]:loc[3]])
		hi := lo
		end := loc[3]
		if loc[4] >= 0 {
			hi, _ = strconv.Atoi(rest[loc[4]:loc[5]])
			end = loc[5]
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		spec.ranges = append(spec.ranges, ZipRange{Lo: lo, Hi: hi})
		rest = rest[end:]
	}

	if len(spec.ranges) == 0 {
		return ZipSpec{}, fmt.Errorf("%w: %q", ErrInvalidZIP, text)
	}
	return spec, nil
}

// All reports whether z imposes no constraint.
func (z ZipSpec) All() bool {
	return len(z.ranges) == 0
}

// Contains reports whether zip is allowed.
func (z ZipSpec) Contains(zip int) bool {
	if z.All() {
		return true
	}
	for _, r := range z.ranges {
		if zip >= r.Lo && zip <= r.Hi {
			return true
		}
	}
	return false
}

// values expands the allowed set in ascending order. It returns nil for the
// unconstrained ZipSpec.
func (z ZipSpec) values() []int {
	if z.All() {
		return nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, r := range z.ranges {
		for v := r.Lo; v <= r.Hi; v++ {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Ints(out)
	return out
}

// String renders z back in the input syntax; ParseZIP accepts the result.
func (z ZipSpec) String() string {
	if z.All() {
		return "all"
	}
	parts := make([]string, len(z.ranges))
	for i, r := range z.ranges {
		if r.Lo == r.Hi {
			parts[i] = fmt.Sprintf("%05d", r.Lo)
		} else {
			parts[i] = fmt.Sprintf("%05d-%05d", r.Lo, r.Hi)
		}
	}
	return strings.Join(parts, ", ")
}
