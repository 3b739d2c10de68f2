package merge

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/docmerge/pkg/cellval"
	"github.com/go-go-golems/docmerge/pkg/mapping"
)

// RowProcessor renders one data row into a stored document. It owns the
// transient working document from duplication until disposal.
type RowProcessor struct {
	Docs        TemplateStore
	Folder      Folder
	Dataset     string
	TemplateRef string
	Mapping     mapping.ColumnMapping
}

// Rendered is the outcome of a successful row merge.
type Rendered struct {
	FileID   string
	FileURL  string
	Filename string
}

// Process substitutes the row's values into a fresh copy of the template,
// exports it as a PDF and stores it at the destination. Any failure surfaces
// as a RenderError; the transient document's disposal is then undefined for
// this row (an operator can clean up orphans by the transient name prefix).
func (p *RowProcessor) Process(rowNum int, cells []cellval.Value, cols *Columns) (*Rendered, error) {
	transientName := fmt.Sprintf("%s - row %d - %s", p.Dataset, rowNum, uuid.NewString())
	working, err := p.Docs.Duplicate(p.TemplateRef, transientName)
	if err != nil {
		return nil, &RenderError{Row: rowNum, Err: fmt.Errorf("duplicate template %q: %w", p.TemplateRef, err)}
	}

	for _, col := range p.Mapping.Columns() {
		// Out-of-range mapping entries are skipped, not errors.
		if col > len(cells) {
			continue
		}
		token := p.Mapping[col]
		if err := working.ReplaceAll(token, cells[col-1].String()); err != nil {
			return nil, &RenderError{Row: rowNum, Err: fmt.Errorf("replace %q: %w", token, err)}
		}
	}

	if err := working.Commit(); err != nil {
		return nil, &RenderError{Row: rowNum, Err: fmt.Errorf("commit working document: %w", err)}
	}

	filename := p.filename(cells, cols)

	blob, err := working.ExportPDF()
	if err != nil {
		return nil, &RenderError{Row: rowNum, Err: fmt.Errorf("export: %w", err)}
	}
	// The transient copy is spent once exported; release it even when the
	// remaining steps fail.
	defer func() {
		if err := working.Delete(); err != nil {
			log.Warn().Int("row", rowNum).Err(err).Msg("failed to delete transient working document")
		}
	}()

	stored, err := p.Folder.Store(blob, filename)
	if err != nil {
		return nil, &RenderError{Row: rowNum, Err: fmt.Errorf("store %q: %w", filename, err)}
	}
	if err := stored.SetPublicViewable(); err != nil {
		return nil, &RenderError{Row: rowNum, Err: fmt.Errorf("set sharing on %q: %w", filename, err)}
	}

	log.Debug().Int("row", rowNum).Str("file", filename).Str("id", stored.ID()).Msg("row rendered")
	return &Rendered{FileID: stored.ID(), FileURL: stored.URL(), Filename: filename}, nil
}

// filename computes the display name "{dataset} - {code} - {year}". Missing
// optional columns contribute empty segments; date-typed code and year cells
// format as yyyy-MM-dd and yyyy respectively.
func (p *RowProcessor) filename(cells []cellval.Value, cols *Columns) string {
	code := ""
	if cols.Code > 0 && cols.Code <= len(cells) {
		code = cells[cols.Code-1].String()
	}
	year := ""
	if cols.Year > 0 && cols.Year <= len(cells) {
		year = cells[cols.Year-1].YearString()
	}
	return fmt.Sprintf("%s - %s - %s", p.Dataset, code, year)
}
