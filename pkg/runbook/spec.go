package runbook

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is a YAML runbook describing which datasets to merge in one
// invocation.
type Spec struct {
	// Workbook optionally overrides the workbook path from the sheet layer.
	Workbook string    `yaml:"workbook,omitempty"`
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset is one entry of the runbook.
type Dataset struct {
	Name string `yaml:"name"`
	// Report, when set, receives this dataset's run report ('-' = stdout).
	Report string `yaml:"report,omitempty"`
	// ReportFormat is json or yaml; defaults to json.
	ReportFormat string `yaml:"report_format,omitempty"`
}

// LoadSpec reads and parses a runbook file.
func LoadSpec(filename string) (*Spec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read runbook file: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse runbook YAML: %w", err)
	}
	if len(spec.Datasets) == 0 {
		return nil, fmt.Errorf("runbook %s lists no datasets", filename)
	}
	return &spec, nil
}
