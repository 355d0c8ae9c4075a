package loader

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"nycleads/internal/types"
)

// ParseError reports a source file that could not be read or decoded, even
// after repair. The caller skips the file and carries on with the batch.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// objectBoundary matches the break between two concatenated top-level objects.
var objectBoundary = regexp.MustCompile(`}[ \t]*\r?\n\s*{`)

// Repair turns newline-concatenated objects into a JSON array. Content that
// already starts with '[' is returned trimmed but otherwise untouched.
func Repair(content []byte) []byte {
	content = bytes.TrimSpace(content)
	if len(content) == 0 || content[0] == '[' {
		return content
	}
	joined := objectBoundary.ReplaceAll(content, []byte("},{"))
	out := make([]byte, 0, len(joined)+2)
	out = append(out, '[')
	out = append(out, joined...)
	return append(out, ']')
}

// Load reads path and decodes it with Parse. A missing or unreadable file is
// reported as a *ParseError like any malformed content.
func Load(path string) ([]types.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes a record file that is either a JSON array of objects or a
// sequence of objects separated by newlines. Empty content yields no records
// and no error.
func Parse(path string, data []byte) ([]types.RawRecord, error) {
	content := Repair(data)
	if len(content) == 0 {
		return nil, nil
	}

	var rows []types.RawRecord
	err := json.Unmarshal(content, &rows,
		jsontext.AllowDuplicateNames(true),
		jsontext.AllowInvalidUTF8(true),
	)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	records := make([]types.RawRecord, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue // null entries carry nothing
		}
		records = append(records, r)
	}
	return records, nil
}
