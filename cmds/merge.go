package cmds

import (
	"context"
	"fmt"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/docmerge/pkg/localstore"
	"github.com/go-go-golems/docmerge/pkg/merge"
	"github.com/go-go-golems/docmerge/pkg/output"
	"github.com/go-go-golems/docmerge/pkg/sheetlayer"
	"github.com/go-go-golems/docmerge/pkg/textdoc"
	"github.com/go-go-golems/docmerge/pkg/xlsxtable"
)

type MergeCommand struct{ *gcmds.CommandDescription }

type MergeSettings struct {
	Dataset      string `glazed.parameter:"dataset"`
	Report       string `glazed.parameter:"report"`
	ReportFormat string `glazed.parameter:"report-format"`
	NoColor      bool   `glazed.parameter:"no-color"`
	Quiet        bool   `glazed.parameter:"quiet"`
}

func NewMergeCommand() (*MergeCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"merge",
		gcmds.WithShort("Merge every pending row of a dataset into rendered documents"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("dataset", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithShortFlag("d"), parameters.WithHelp("Dataset name (config sheet row and data sheet)")),
			parameters.NewParameterDefinition("report", parameters.ParameterTypeString, parameters.WithHelp("Write a run report to this path; '-' for stdout")),
			parameters.NewParameterDefinition("report-format", parameters.ParameterTypeChoice, parameters.WithChoices("json", "yaml"), parameters.WithDefault("json"), parameters.WithHelp("Report format")),
			parameters.NewParameterDefinition("no-color", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Disable colored progress output")),
			parameters.NewParameterDefinition("quiet", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Suppress per-row progress output")),
		),
		gcmds.WithLayersList(layer),
	)
	_, err = sheetlayer.AddSheetLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &MergeCommand{cd}, nil
}

func (c *MergeCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &MergeSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	ss, err := sheetlayer.GetSheetSettings(parsed)
	if err != nil {
		return err
	}
	env, err := ss.RunContext()
	if err != nil {
		return err
	}

	wb, err := xlsxtable.Open(ss.Workbook)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	output.InitConsole(s.NoColor)

	orch := &merge.Orchestrator{
		Tables:      wb,
		Docs:        textdoc.NewStore(ss.WorkDir),
		Files:       localstore.Store{},
		Env:         env,
		ConfigSheet: ss.ConfigSheet,
	}
	if !s.Quiet {
		fmt.Println(output.DatasetHeader(s.Dataset))
		orch.OnRow = func(r merge.RowResult) {
			switch r.State {
			case merge.RowCompleted:
				fmt.Println(output.RowMerged(r.Row, r.Filename))
			case merge.RowSkipped:
				fmt.Println(output.RowSkipped(r.Row))
			case merge.RowFailed:
				fmt.Println(output.RowFailed(r.Row, r.Error))
			}
		}
	}

	report, err := orch.Process(ctx, s.Dataset)
	if err != nil {
		return err
	}
	if !s.Quiet {
		fmt.Println(output.Summary(report.Processed, report.Skipped, report.Failed))
	}
	if s.Report != "" {
		return output.WriteReport(s.Report, report, s.ReportFormat)
	}
	return nil
}

var _ gcmds.BareCommand = &MergeCommand{}
