package merge

import (
	"strings"

	"github.com/go-go-golems/docmerge/pkg/cellval"
)

// Columns holds the resolved 1-based positions of the write-back columns.
// Code and Year are optional and 0 when the header does not carry them.
type Columns struct {
	DocID   int
	DocURL  int
	DocLink int
	Status  int
	Code    int
	Year    int
}

// Required output columns are recognized by case-insensitive substring match
// on the header text, so "Merged Doc ID " and "doc id" both resolve.
const (
	needleDocID  = "doc id"
	needleDocURL = "doc url"
	needleDocLnk = "doc link"
	needleStatus = "merge status"
)

// Optional filename columns are matched exactly (ignoring case and
// surrounding whitespace); the headers come from the source system's
// Spanish-language sheets.
const (
	headerCode = "CODIGO"
	headerYear = "AÑO"
)

// ResolveColumns locates the output columns in a header row. All four
// required columns must resolve or the result is a MissingColumnsError.
func ResolveColumns(header []cellval.Value) (*Columns, error) {
	cols := &Columns{}
	for i, cell := range header {
		pos := i + 1
		lowered := strings.ToLower(cell.Raw)
		switch {
		case cols.DocURL == 0 && strings.Contains(lowered, needleDocURL):
			cols.DocURL = pos
		case cols.DocLink == 0 && strings.Contains(lowered, needleDocLnk):
			cols.DocLink = pos
		case cols.DocID == 0 && strings.Contains(lowered, needleDocID):
			cols.DocID = pos
		case cols.Status == 0 && strings.Contains(lowered, needleStatus):
			cols.Status = pos
		}

		trimmed := strings.TrimSpace(cell.Raw)
		if cols.Code == 0 && strings.EqualFold(trimmed, headerCode) {
			cols.Code = pos
		}
		if cols.Year == 0 && strings.EqualFold(trimmed, headerYear) {
			cols.Year = pos
		}
	}

	var missing []string
	if cols.DocID == 0 {
		missing = append(missing, needleDocID)
	}
	if cols.DocURL == 0 {
		missing = append(missing, needleDocURL)
	}
	if cols.DocLink == 0 {
		missing = append(missing, needleDocLnk)
	}
	if cols.Status == 0 {
		missing = append(missing, needleStatus)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}
	return cols, nil
}
