package cmds

import (
	"context"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/docmerge/pkg/localstore"
	"github.com/go-go-golems/docmerge/pkg/merge"
	"github.com/go-go-golems/docmerge/pkg/runbook"
	"github.com/go-go-golems/docmerge/pkg/sheetlayer"
	"github.com/go-go-golems/docmerge/pkg/textdoc"
	"github.com/go-go-golems/docmerge/pkg/xlsxtable"
)

type BatchCommand struct{ *gcmds.CommandDescription }

type BatchSettings struct {
	Runbook         string   `glazed.parameter:"runbook"`
	Datasets        []string `glazed.parameter:"datasets"`
	ContinueOnError bool     `glazed.parameter:"continue-on-error"`
}

func NewBatchCommand() (*BatchCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"batch",
		gcmds.WithShort("Merge multiple datasets from a YAML runbook"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("runbook", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithShortFlag("r"), parameters.WithHelp("Runbook YAML file")),
			parameters.NewParameterDefinition("datasets", parameters.ParameterTypeStringList, parameters.WithHelp("Only merge datasets with these names; default all")),
			parameters.NewParameterDefinition("continue-on-error", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Continue with the next dataset after a pre-flight failure")),
		),
		gcmds.WithLayersList(layer),
	)
	_, err = sheetlayer.AddSheetLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &BatchCommand{cd}, nil
}

func (c *BatchCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &BatchSettings{}
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

	spec, err := runbook.LoadSpec(s.Runbook)
	if err != nil {
		return err
	}
	spec.Datasets = runbook.Filter(spec.Datasets, s.Datasets)

	// The runbook may point at its own workbook.
	workbookPath := ss.Workbook
	if spec.Workbook != "" {
		workbookPath = spec.Workbook
	}
	wb, err := xlsxtable.Open(workbookPath)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	proc := &runbook.Processor{
		Orchestrator: &merge.Orchestrator{
			Tables:      wb,
			Docs:        textdoc.NewStore(ss.WorkDir),
			Files:       localstore.Store{},
			Env:         env,
			ConfigSheet: ss.ConfigSheet,
		},
	}
	return proc.Process(ctx, spec, runbook.Options{ContinueOnError: s.ContinueOnError})
}

var _ gcmds.BareCommand = &BatchCommand{}
