package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/docmerge/pkg/cellval"
	"github.com/go-go-golems/docmerge/pkg/config"
	"github.com/go-go-golems/docmerge/pkg/mapping"
)

// RowState is the terminal state a row reaches within one run.
type RowState string

const (
	RowSkipped   RowState = "skipped"
	RowCompleted RowState = "completed"
	RowFailed    RowState = "failed"
)

// RowResult records what happened to one data row.
type RowResult struct {
	Row      int      `json:"row" yaml:"row"`
	State    RowState `json:"state" yaml:"state"`
	Filename string   `json:"filename,omitempty" yaml:"filename,omitempty"`
	FileURL  string   `json:"file_url,omitempty" yaml:"file_url,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report summarizes a merge run over one dataset.
type Report struct {
	Dataset   string      `json:"dataset" yaml:"dataset"`
	Processed int         `json:"processed" yaml:"processed"`
	Skipped   int         `json:"skipped" yaml:"skipped"`
	Failed    int         `json:"failed" yaml:"failed"`
	Rows      []RowResult `json:"rows" yaml:"rows"`
}

// Orchestrator wires the collaborators of a merge run. ConfigSheet names the
// configuration table inside the table store. OnRow, when set, observes each
// row's terminal state as it is committed.
type Orchestrator struct {
	Tables      TableStore
	Docs        TemplateStore
	Files       FileStore
	Env         RunContext
	ConfigSheet string
	OnRow       func(RowResult)
}

// Process merges every pending row of the named dataset. Pre-flight failures
// (configuration, mapping, missing dataset or output columns, unusable
// destination) abort before any row is touched; per-row failures are written
// into that row's status cell and the loop continues.
func (o *Orchestrator) Process(ctx context.Context, dataset string) (*Report, error) {
	cfgTable, err := o.Tables.Table(o.ConfigSheet)
	if err != nil {
		return nil, fmt.Errorf("configuration sheet %q: %w", o.ConfigSheet, err)
	}
	cfg, err := config.Load(cfgTable, dataset)
	if err != nil {
		return nil, err
	}
	cm, err := mapping.Parse(cfg.MappingRaw)
	if err != nil {
		return nil, err
	}

	data, err := o.Tables.Table(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", cfg.Dataset, err)
	}
	rows, err := data.Rows()
	if err != nil {
		return nil, fmt.Errorf("read dataset %q: %w", cfg.Dataset, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %q has no header row", cfg.Dataset)
	}
	cols, err := ResolveColumns(rows[0])
	if err != nil {
		return nil, err
	}
	folder, err := o.Files.ResolveFolder(cfg.DestinationRef)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("dataset", dataset).
		Int("rows", len(rows)-1).
		Int("mapped_columns", len(cm)).
		Msg("merge pre-flight complete")

	processor := &RowProcessor{
		Docs:        o.Docs,
		Folder:      folder,
		Dataset:     cfg.Dataset,
		TemplateRef: cfg.TemplateRef,
		Mapping:     cm,
	}

	report := &Report{Dataset: dataset}
	for i, cells := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rowNum := i + 2

		if !cellAt(cells, cols.DocID).IsEmpty() {
			report.Skipped++
			o.commitRow(report, RowResult{Row: rowNum, State: RowSkipped})
			continue
		}

		rendered, err := processor.Process(rowNum, cells, cols)
		if err != nil {
			report.Failed++
			detail := err.Error()
			var re *RenderError
			if errors.As(err, &re) {
				detail = re.Detail()
			}
			// Only the status cell is written on failure; the identifier
			// cell stays empty so a later run retries this row.
			if werr := data.WriteCell(rowNum, cols.Status, "Error: "+detail); werr != nil {
				return report, fmt.Errorf("write status for row %d: %w", rowNum, werr)
			}
			if werr := data.Flush(); werr != nil {
				return report, fmt.Errorf("flush after row %d: %w", rowNum, werr)
			}
			log.Warn().Int("row", rowNum).Str("dataset", dataset).Str("error", detail).Msg("row failed")
			o.commitRow(report, RowResult{Row: rowNum, State: RowFailed, Error: detail})
			continue
		}

		status := fmt.Sprintf("Merged OK | %s | %s", o.Env.UserEmail, o.Env.Timestamp())
		link := o.hyperlinkFormula(rendered.FileURL, rendered.Filename)
		if werr := firstErr(
			data.WriteCell(rowNum, cols.DocID, rendered.FileID),
			data.WriteCell(rowNum, cols.DocURL, rendered.FileURL),
			data.WriteFormula(rowNum, cols.DocLink, link),
			data.WriteCell(rowNum, cols.Status, status),
			data.Flush(),
		); werr != nil {
			return report, fmt.Errorf("write back row %d: %w", rowNum, werr)
		}

		report.Processed++
		o.commitRow(report, RowResult{
			Row:      rowNum,
			State:    RowCompleted,
			Filename: rendered.Filename,
			FileURL:  rendered.FileURL,
		})
	}

	log.Debug().
		Str("dataset", dataset).
		Int("processed", report.Processed).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("merge run complete")
	return report, nil
}

// hyperlinkFormula builds the write-back link formula. The argument
// separator is locale-specific (the source sheets use ';'), so it comes from
// the run context instead of being hard-coded.
func (o *Orchestrator) hyperlinkFormula(url, label string) string {
	sep := o.Env.FormulaSeparator
	if sep == "" {
		sep = ";"
	}
	return fmt.Sprintf("HYPERLINK(%q%s%q)", url, sep, label)
}

func (o *Orchestrator) commitRow(report *Report, result RowResult) {
	report.Rows = append(report.Rows, result)
	if o.OnRow != nil {
		o.OnRow(result)
	}
}

func cellAt(cells []cellval.Value, col int) cellval.Value {
	if col < 1 || col > len(cells) {
		return cellval.Value{}
	}
	return cells[col-1]
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
