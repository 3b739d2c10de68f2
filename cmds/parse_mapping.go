package cmds

import (
	"context"
	"fmt"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/docmerge/pkg/config"
	"github.com/go-go-golems/docmerge/pkg/mapping"
	"github.com/go-go-golems/docmerge/pkg/sheetlayer"
	"github.com/go-go-golems/docmerge/pkg/xlsxtable"
)

type ParseMappingCommand struct{ *gcmds.CommandDescription }

type ParseMappingSettings struct {
	Mapping string `glazed.parameter:"mapping"`
	Dataset string `glazed.parameter:"dataset"`
}

// NewParseMappingCommand builds the diagnostic for the tolerant mapping
// parser: feed it a raw string (or a dataset's configured mapping cell) and
// see the columns it resolves and which repair step was needed.
func NewParseMappingCommand() (*ParseMappingCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"parse-mapping",
		gcmds.WithShort("Parse a column mapping string and show the resolved columns"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("mapping", parameters.ParameterTypeString, parameters.WithShortFlag("m"), parameters.WithHelp("Raw mapping string to parse")),
			parameters.NewParameterDefinition("dataset", parameters.ParameterTypeString, parameters.WithShortFlag("d"), parameters.WithHelp("Parse this dataset's configured mapping instead")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	_, err = sheetlayer.AddSheetLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ParseMappingCommand{cd}, nil
}

func (c *ParseMappingCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &ParseMappingSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}

	raw := s.Mapping
	if raw == "" {
		if s.Dataset == "" {
			return fmt.Errorf("either --mapping or --dataset is required")
		}
		ss, err := sheetlayer.GetSheetSettings(parsed)
		if err != nil {
			return err
		}
		wb, err := xlsxtable.Open(ss.Workbook)
		if err != nil {
			return err
		}
		defer func() { _ = wb.Close() }()
		cfgTable, err := wb.Table(ss.ConfigSheet)
		if err != nil {
			return err
		}
		cfg, err := config.Load(cfgTable, s.Dataset)
		if err != nil {
			return err
		}
		raw = cfg.MappingRaw
	}

	cm, strategy, err := mapping.ParseDetailed(raw)
	if err != nil {
		return err
	}
	for _, col := range cm.Columns() {
		row := types.NewRow(
			types.MRP("column", col),
			types.MRP("token", cm[col]),
			types.MRP("strategy", string(strategy)),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

var _ gcmds.GlazeCommand = &ParseMappingCommand{}
