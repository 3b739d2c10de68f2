package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-go-golems/docmerge/pkg/cellval"
)

// Table is the read-only slice of a sheet the loader needs.
type Table interface {
	Name() string
	Rows() ([][]cellval.Value, error)
}

// DatasetConfig is one row of the configuration sheet: which template a
// dataset uses, how its columns map onto placeholder tokens, and where the
// rendered documents go.
type DatasetConfig struct {
	Dataset        string
	TemplateRef    string
	MappingRaw     string
	DestinationRef string
}

// ErrNotFound means no configuration row matches the requested dataset name.
var ErrNotFound = errors.New("dataset configuration not found")

// IncompleteError means the matching configuration row is missing one or
// more of its required fields.
type IncompleteError struct {
	Dataset string
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("configuration for dataset %q is incomplete: missing %s",
		e.Dataset, strings.Join(e.Missing, ", "))
}

// Columns of the configuration sheet, in order. Row 1 is a header.
const (
	colDataset = iota
	colTemplate
	colMapping
	colDestination
	configWidth
)

// Load finds the first configuration row whose name cell equals dataset
// (exact string equality) and validates that it is complete.
func Load(t Table, dataset string) (*DatasetConfig, error) {
	rows, err := t.Rows()
	if err != nil {
		return nil, fmt.Errorf("read configuration sheet %q: %w", t.Name(), err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if field(row, colDataset) != dataset {
			continue
		}
		cfg := &DatasetConfig{
			Dataset:        dataset,
			TemplateRef:    field(row, colTemplate),
			MappingRaw:     field(row, colMapping),
			DestinationRef: field(row, colDestination),
		}
		var missing []string
		if strings.TrimSpace(cfg.TemplateRef) == "" {
			missing = append(missing, "template reference")
		}
		if strings.TrimSpace(cfg.MappingRaw) == "" {
			missing = append(missing, "column mapping")
		}
		if strings.TrimSpace(cfg.DestinationRef) == "" {
			missing = append(missing, "destination reference")
		}
		if len(missing) > 0 {
			return nil, &IncompleteError{Dataset: dataset, Missing: missing}
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("dataset %q: %w", dataset, ErrNotFound)
}

// LoadAll returns every configured dataset without validating completeness;
// the list and validate commands report on partial rows instead of failing.
func LoadAll(t Table) ([]DatasetConfig, error) {
	rows, err := t.Rows()
	if err != nil {
		return nil, fmt.Errorf("read configuration sheet %q: %w", t.Name(), err)
	}
	var configs []DatasetConfig
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := field(row, colDataset)
		if strings.TrimSpace(name) == "" {
			continue
		}
		configs = append(configs, DatasetConfig{
			Dataset:        name,
			TemplateRef:    field(row, colTemplate),
			MappingRaw:     field(row, colMapping),
			DestinationRef: field(row, colDestination),
		})
	}
	return configs, nil
}

func field(row []cellval.Value, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col].Raw
}
