package mapping

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ColumnMapping maps a 1-based column number to the placeholder token it
// fills in the template.
type ColumnMapping map[int]string

// Strategy names the parse attempt that produced a mapping.
type Strategy string

const (
	// StrategyStrict means the normalized input parsed as plain JSON.
	StrategyStrict Strategy = "strict"
	// StrategyRequoted means the input only parsed after replacing every
	// single quote with a double quote.
	StrategyRequoted Strategy = "requoted"
)

// ParseError reports an unusable mapping string. It carries the original raw
// text so an operator can fix the configuration cell it came from.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse column mapping %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Mapping cells are frequently authored in a spreadsheet UI, which rewrites
// straight quotes into typographic ones. Normalize those before parsing.
var quoteNormalizer = strings.NewReplacer(
	"“", `"`, // left double
	"”", `"`, // right double
	"„", `"`, // low double
	"‘", "'", // left single
	"’", "'", // right single
	"‚", "'", // low single
)

// Parse runs the tolerant parse chain over raw and returns the mapping.
func Parse(raw string) (ColumnMapping, error) {
	m, _, err := ParseDetailed(raw)
	return m, err
}

// ParseDetailed is Parse plus the strategy that succeeded, for diagnostics.
//
// The chain is ordered: normalize typographic quotes and trim, try a strict
// JSON parse, then retry after globally replacing single quotes with double
// quotes. The requote step is unconditional and will also rewrite
// apostrophes inside values; that is a known limitation, not repaired here.
func ParseDetailed(raw string) (ColumnMapping, Strategy, error) {
	normalized := strings.TrimSpace(quoteNormalizer.Replace(raw))

	var keyed map[string]string
	strategy := StrategyStrict
	if err := json.Unmarshal([]byte(normalized), &keyed); err != nil {
		requoted := strings.ReplaceAll(normalized, "'", `"`)
		if err2 := json.Unmarshal([]byte(requoted), &keyed); err2 != nil {
			return nil, "", &ParseError{Raw: raw, Err: err}
		}
		strategy = StrategyRequoted
	}

	cm := make(ColumnMapping, len(keyed))
	for key, token := range keyed {
		col, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || col < 1 {
			return nil, "", &ParseError{
				Raw: raw,
				Err: fmt.Errorf("column key %q is not a positive integer", key),
			}
		}
		cm[col] = token
	}
	return cm, strategy, nil
}

// Columns returns the mapped column numbers in ascending order so callers
// substitute deterministically.
func (m ColumnMapping) Columns() []int {
	cols := make([]int, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}
