package sheetlayer

import (
	"fmt"
	"os/user"
	"time"

	glzcms "github.com/go-go-golems/glazed/pkg/cmds"
	glzlayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/docmerge/pkg/merge"
)

const SheetLayerSlug = "sheet"

type SheetSettings struct {
	Workbook         string `glazed.parameter:"workbook"`
	ConfigSheet      string `glazed.parameter:"config-sheet"`
	Timezone         string `glazed.parameter:"timezone"`
	UserEmail        string `glazed.parameter:"user-email"`
	FormulaSeparator string `glazed.parameter:"formula-separator"`
	WorkDir          string `glazed.parameter:"work-dir"`
}

// NewSheetLayer defines a reusable parameter layer for workbook and run
// context configuration.
func NewSheetLayer() (glzlayers.ParameterLayer, error) {
	return glzlayers.NewParameterLayer(
		SheetLayerSlug,
		"Workbook and merge run settings",
		glzlayers.WithParameterDefinitions(
			parameters.NewParameterDefinition(
				"workbook",
				parameters.ParameterTypeString,
				parameters.WithHelp("Path to the XLSX workbook holding the config sheet and dataset sheets"),
				parameters.WithRequired(true),
			),
			parameters.NewParameterDefinition(
				"config-sheet",
				parameters.ParameterTypeString,
				parameters.WithHelp("Name of the configuration sheet"),
				parameters.WithDefault("Config"),
			),
			parameters.NewParameterDefinition(
				"timezone",
				parameters.ParameterTypeString,
				parameters.WithHelp("IANA timezone for status timestamps"),
				parameters.WithDefault("Local"),
			),
			parameters.NewParameterDefinition(
				"user-email",
				parameters.ParameterTypeString,
				parameters.WithHelp("Acting user recorded in status cells (default: OS username)"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"formula-separator",
				parameters.ParameterTypeChoice,
				parameters.WithHelp("Argument separator of the HYPERLINK write-back formula (locale-specific)"),
				parameters.WithDefault(";"),
				parameters.WithChoices(";", ","),
			),
			parameters.NewParameterDefinition(
				"work-dir",
				parameters.ParameterTypeString,
				parameters.WithHelp("Directory for transient working documents (default: system temp)"),
				parameters.WithDefault(""),
			),
		),
	)
}

// AddSheetLayerToCommand attaches the layer to a Glazed command description.
func AddSheetLayerToCommand(c glzcms.Command) (glzcms.Command, error) {
	l, err := NewSheetLayer()
	if err != nil {
		return nil, err
	}
	c.Description().Layers.Set(SheetLayerSlug, l)
	return c, nil
}

// GetSheetSettings returns parsed sheet settings from the ParsedLayers.
func GetSheetSettings(parsed *glzlayers.ParsedLayers) (*SheetSettings, error) {
	var s SheetSettings
	if err := parsed.InitializeStruct(SheetLayerSlug, &s); err != nil {
		return nil, fmt.Errorf("failed to parse sheet settings: %w", err)
	}
	return &s, nil
}

// RunContext resolves the layer's settings into the orchestrator's run
// context (timezone lookup, OS-user fallback for the acting identity).
func (s *SheetSettings) RunContext() (merge.RunContext, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return merge.RunContext{}, fmt.Errorf("unknown timezone %q: %w", s.Timezone, err)
	}
	email := s.UserEmail
	if email == "" {
		if u, err := user.Current(); err == nil {
			email = u.Username
		} else {
			email = "unknown"
		}
	}
	return merge.RunContext{
		UserEmail:        email,
		Now:              time.Now,
		Location:         loc,
		FormulaSeparator: s.FormulaSeparator,
	}, nil
}
