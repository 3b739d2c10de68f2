package cmds

import (
	"context"
	"fmt"
	"os"
	"strings"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/docmerge/pkg/config"
	"github.com/go-go-golems/docmerge/pkg/localstore"
	"github.com/go-go-golems/docmerge/pkg/mapping"
	"github.com/go-go-golems/docmerge/pkg/merge"
	"github.com/go-go-golems/docmerge/pkg/sheetlayer"
	"github.com/go-go-golems/docmerge/pkg/xlsxtable"
)

type ValidateCommand struct{ *gcmds.CommandDescription }

type ValidateSettings struct {
	Dataset string `glazed.parameter:"dataset"`
}

func NewValidateCommand() (*ValidateCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"validate",
		gcmds.WithShort("Run the merge pre-flight checks without touching any row"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("dataset", parameters.ParameterTypeString, parameters.WithShortFlag("d"), parameters.WithHelp("Only validate this dataset; default all configured datasets")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	_, err = sheetlayer.AddSheetLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ValidateCommand{cd}, nil
}

// GlazeCommand: one finding per check
func (c *ValidateCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &ValidateSettings{}
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
	configs, err := config.LoadAll(cfgTable)
	if err != nil {
		return err
	}

	emit := func(dataset, check, level, detail string) error {
		return gp.AddRow(ctx, types.NewRow(
			types.MRP("dataset", dataset),
			types.MRP("check", check),
			types.MRP("level", level),
			types.MRP("detail", detail),
		))
	}

	matched := false
	for _, cfg := range configs {
		if s.Dataset != "" && cfg.Dataset != s.Dataset {
			continue
		}
		matched = true
		if err := c.validateDataset(wb, cfg, emit); err != nil {
			return err
		}
	}
	if s.Dataset != "" && !matched {
		return fmt.Errorf("dataset %q: %w", s.Dataset, config.ErrNotFound)
	}
	return nil
}

func (c *ValidateCommand) validateDataset(wb *xlsxtable.Workbook, cfg config.DatasetConfig, emit func(dataset, check, level, detail string) error) error {
	ds := cfg.Dataset

	// config completeness
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
		if err := emit(ds, "config", "error", "missing "+strings.Join(missing, ", ")); err != nil {
			return err
		}
	} else if err := emit(ds, "config", "ok", "all fields present"); err != nil {
		return err
	}

	// mapping
	if cm, strategy, err := mapping.ParseDetailed(cfg.MappingRaw); err != nil {
		if err := emit(ds, "mapping", "error", err.Error()); err != nil {
			return err
		}
	} else {
		detail := fmt.Sprintf("%d columns mapped (%s parse)", len(cm), strategy)
		if err := emit(ds, "mapping", "ok", detail); err != nil {
			return err
		}
	}

	// data sheet and output columns
	if data, err := wb.Table(ds); err != nil {
		if err := emit(ds, "data-sheet", "error", err.Error()); err != nil {
			return err
		}
	} else if rows, err := data.Rows(); err != nil || len(rows) == 0 {
		if err := emit(ds, "data-sheet", "error", "sheet has no header row"); err != nil {
			return err
		}
	} else {
		if err := emit(ds, "data-sheet", "ok", fmt.Sprintf("%d data rows", len(rows)-1)); err != nil {
			return err
		}
		if _, err := merge.ResolveColumns(rows[0]); err != nil {
			if err := emit(ds, "output-columns", "error", err.Error()); err != nil {
				return err
			}
		} else if err := emit(ds, "output-columns", "ok", "all required columns resolved"); err != nil {
			return err
		}
	}

	// template file
	if _, err := os.Stat(cfg.TemplateRef); err != nil {
		if err := emit(ds, "template", "error", err.Error()); err != nil {
			return err
		}
	} else if err := emit(ds, "template", "ok", cfg.TemplateRef); err != nil {
		return err
	}

	// destination folder
	if _, err := (localstore.Store{}).ResolveFolder(cfg.DestinationRef); err != nil {
		if err := emit(ds, "destination", "error", err.Error()); err != nil {
			return err
		}
	} else if err := emit(ds, "destination", "ok", cfg.DestinationRef); err != nil {
		return err
	}

	return nil
}

var _ gcmds.GlazeCommand = &ValidateCommand{}
