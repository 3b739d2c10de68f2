package xlsxtable

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/go-go-golems/docmerge/pkg/cellval"
	"github.com/go-go-golems/docmerge/pkg/merge"
)

// Workbook is an XLSX-backed table store. Every sheet is a table; writes go
// through excelize and hit the file on Flush.
type Workbook struct {
	path string
	f    *excelize.File
}

// Open loads the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

// Path returns the workbook's file path.
func (w *Workbook) Path() string { return w.path }

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Table resolves a sheet by name; a missing sheet wraps
// merge.ErrTableNotFound.
func (w *Workbook) Table(name string) (merge.Table, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("look up sheet %q: %w", name, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q: %w", name, merge.ErrTableNotFound)
	}
	return &sheet{wb: w, name: name}, nil
}

var _ merge.TableStore = &Workbook{}

type sheet struct {
	wb   *Workbook
	name string
}

func (s *sheet) Name() string { return s.name }

// Rows reads the whole sheet as classified cell values. excelize returns
// display strings with trailing empty cells trimmed; classification turns
// them into the {Text, Number, Date, Empty} variant.
func (s *sheet) Rows() ([][]cellval.Value, error) {
	raw, err := s.wb.f.GetRows(s.name)
	if err != nil {
		return nil, fmt.Errorf("read rows of sheet %q: %w", s.name, err)
	}
	rows := make([][]cellval.Value, len(raw))
	for i, cells := range raw {
		row := make([]cellval.Value, len(cells))
		for j, cell := range cells {
			row[j] = cellval.Classify(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *sheet) WriteCell(row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", row, col, err)
	}
	if err := s.wb.f.SetCellValue(s.name, cell, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", s.name, cell, err)
	}
	return nil
}

func (s *sheet) WriteFormula(row, col int, formula string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", row, col, err)
	}
	if err := s.wb.f.SetCellFormula(s.name, cell, formula); err != nil {
		return fmt.Errorf("write formula %s!%s: %w", s.name, cell, err)
	}
	return nil
}

func (s *sheet) Flush() error {
	if err := s.wb.f.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.wb.path, err)
	}
	log.Debug().Str("workbook", s.wb.path).Str("sheet", s.name).Msg("workbook saved")
	return nil
}
