package cmds

import (
	"context"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/docmerge/pkg/config"
	"github.com/go-go-golems/docmerge/pkg/mapping"
	"github.com/go-go-golems/docmerge/pkg/sheetlayer"
	"github.com/go-go-golems/docmerge/pkg/xlsxtable"
)

type ListCommand struct{ *gcmds.CommandDescription }

func NewListCommand() (*ListCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"list",
		gcmds.WithShort("List configured datasets and their configuration health"),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	_, err = sheetlayer.AddSheetLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ListCommand{cd}, nil
}

// GlazeCommand: one row per configured dataset
func (c *ListCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
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
	configs, err := config.LoadAll(cfgTable)
	if err != nil {
		return err
	}

	for _, cfg := range configs {
		mappingOK := true
		mappingErr := ""
		mappedCols := 0
		if cm, err := mapping.Parse(cfg.MappingRaw); err != nil {
			mappingOK = false
			mappingErr = err.Error()
		} else {
			mappedCols = len(cm)
		}

		hasSheet := true
		if _, err := wb.Table(cfg.Dataset); err != nil {
			hasSheet = false
		}

		row := types.NewRow(
			types.MRP("dataset", cfg.Dataset),
			types.MRP("template", cfg.TemplateRef),
			types.MRP("destination", cfg.DestinationRef),
			types.MRP("data_sheet_present", hasSheet),
			types.MRP("mapping_ok", mappingOK),
			types.MRP("mapped_columns", mappedCols),
			types.MRP("mapping_error", mappingErr),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

var _ gcmds.GlazeCommand = &ListCommand{}
