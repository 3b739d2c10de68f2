package runbook

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/docmerge/pkg/cmdutil"
	"github.com/go-go-golems/docmerge/pkg/merge"
	"github.com/go-go-golems/docmerge/pkg/output"
)

// Processor runs the merge orchestrator over every dataset of a runbook,
// strictly in order.
type Processor struct {
	Orchestrator *merge.Orchestrator
}

// Options control a runbook run.
type Options struct {
	// ContinueOnError keeps going after a dataset-level pre-flight failure.
	// Per-row failures never stop a dataset either way.
	ContinueOnError bool
}

// Process merges each dataset and writes per-dataset reports where the
// runbook asks for them. Dataset-level failures abort the remaining datasets
// unless ContinueOnError is set.
func (p *Processor) Process(ctx context.Context, spec *Spec, opts Options) error {
	var errs []error
	for i, ds := range spec.Datasets {
		fmt.Printf("[%d/%d] Merging dataset: %s\n", i+1, len(spec.Datasets), ds.Name)
		log.Debug().Str("dataset", ds.Name).Msg("runbook dataset start")

		report, err := p.Orchestrator.Process(ctx, ds.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Dataset '%s' failed: %v\n", ds.Name, err)
			errs = append(errs, err)
			if !opts.ContinueOnError {
				return fmt.Errorf("dataset '%s' failed: %w", ds.Name, err)
			}
			continue
		}

		fmt.Printf("✓ Dataset '%s': %d merged, %d skipped, %d failed\n",
			ds.Name, report.Processed, report.Skipped, report.Failed)

		if ds.Report != "" {
			format := ds.ReportFormat
			if format == "" {
				format = "json"
			}
			if err := output.WriteReport(ds.Report, report, format); err != nil {
				return fmt.Errorf("write report for dataset '%s': %w", ds.Name, err)
			}
		}
	}
	if len(errs) > 0 {
		fmt.Printf("\nCompleted with %d errors out of %d datasets\n", len(errs), len(spec.Datasets))
		return fmt.Errorf("runbook completed with %d errors", len(errs))
	}
	fmt.Printf("\n✓ All %d datasets completed successfully\n", len(spec.Datasets))
	return nil
}

// Filter returns only the datasets whose names are in selectors; an empty
// selector list keeps everything.
func Filter(datasets []Dataset, selectors []string) []Dataset {
	return cmdutil.FilterItems(datasets, selectors, func(ds Dataset) string { return ds.Name })
}
