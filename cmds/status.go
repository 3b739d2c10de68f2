package cmds

import (
	"context"
	"strings"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/docmerge/pkg/cellval"
	"github.com/go-go-golems/docmerge/pkg/config"
	"github.com/go-go-golems/docmerge/pkg/merge"
	"github.com/go-go-golems/docmerge/pkg/sheetlayer"
	"github.com/go-go-golems/docmerge/pkg/xlsxtable"
)

type StatusCommand struct{ *gcmds.CommandDescription }

type StatusSettings struct {
	Dataset string `glazed.parameter:"dataset"`
	Pending bool   `glazed.parameter:"pending"`
}

func NewStatusCommand() (*StatusCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"status",
		gcmds.WithShort("Report the per-row merge state of a dataset without merging"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("dataset", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithShortFlag("d"), parameters.WithHelp("Dataset name")),
			parameters.NewParameterDefinition("pending", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Only show rows that a merge run would still process")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	_, err = sheetlayer.AddSheetLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &StatusCommand{cd}, nil
}

// GlazeCommand: one row per data row with its merge state
func (c *StatusCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &StatusSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
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
	data, err := wb.Table(cfg.Dataset)
	if err != nil {
		return err
	}
	rows, err := data.Rows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	cols, err := merge.ResolveColumns(rows[0])
	if err != nil {
		return err
	}

	for i, cells := range rows[1:] {
		rowNum := i + 2
		docID := cellText(cells, cols.DocID)
		state := "pending"
		if docID != "" {
			state = "completed"
		}
		if s.Pending && state != "pending" {
			continue
		}
		row := types.NewRow(
			types.MRP("row", rowNum),
			types.MRP("state", state),
			types.MRP("document_id", docID),
			types.MRP("document_url", cellText(cells, cols.DocURL)),
			types.MRP("status", cellText(cells, cols.Status)),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

var _ gcmds.GlazeCommand = &StatusCommand{}

func cellText(cells []cellval.Value, col int) string {
	if col < 1 || col > len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col-1].Raw)
}
