package main

import (
	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/cmds/middlewares"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/spf13/cobra"

	clay "github.com/go-go-golems/clay/pkg"

	appcmds "github.com/go-go-golems/docmerge/cmds"
	appdoc "github.com/go-go-golems/docmerge/pkg/doc"
)

var version = "dev"

func getMiddlewares(parsedLayers *layers.ParsedLayers, cmd *cobra.Command, args []string) ([]middlewares.Middleware, error) {
	commandSettings := &cli.CommandSettings{}
	err := parsedLayers.InitializeStruct(cli.CommandSettingsSlug, commandSettings)
	if err != nil {
		return nil, err
	}

	mw_ := []middlewares.Middleware{
		middlewares.ParseFromCobraCommand(cmd,
			parameters.WithParseStepSource("cobra"),
		),
		middlewares.GatherArguments(args,
			parameters.WithParseStepSource("arguments"),
		),
	}

	mw_ = append(mw_,
		middlewares.GatherFlagsFromViper(parameters.WithParseStepSource("viper")),
		middlewares.SetFromDefaults(parameters.WithParseStepSource("defaults")),
	)

	return mw_, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "docmerge",
		Short:   "Merge spreadsheet rows into rendered documents via glazed commands",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			err := logging.InitLoggerFromViper()
			cobra.CheckErr(err)
		},
	}

	clay.InitViper("docmerge", rootCmd)

	// Help system
	hs := help.NewHelpSystem()
	_ = appdoc.AddDocToHelpSystem(hs)
	help_cmd.SetupCobraRootCommand(hs, rootCmd)

	opts := []cli.CobraOption{
		cli.WithParserConfig(cli.CobraParserConfig{
			MiddlewaresFunc: getMiddlewares,
		}),
	}

	// Register commands
	if mc, err := appcmds.NewMergeCommand(); err == nil {
		cmd, err := cli.BuildCobraCommand(mc, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	} else {
		cobra.CheckErr(err)
	}

	if bc, err := appcmds.NewBatchCommand(); err == nil {
		cmd, err := cli.BuildCobraCommand(bc, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	} else {
		cobra.CheckErr(err)
	}

	if lc, err := appcmds.NewListCommand(); err == nil {
		cmd, err := cli.BuildCobraCommand(lc, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	} else {
		cobra.CheckErr(err)
	}

	if sc, err := appcmds.NewStatusCommand(); err == nil {
		cmd, err := cli.BuildCobraCommand(sc, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	} else {
		cobra.CheckErr(err)
	}

	if vc, err := appcmds.NewValidateCommand(); err == nil {
		cmd, err := cli.BuildCobraCommand(vc, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	} else {
		cobra.CheckErr(err)
	}

	if pc, err := appcmds.NewParseMappingCommand(); err == nil {
		cmd, err := cli.BuildCobraCommand(pc, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	} else {
		cobra.CheckErr(err)
	}

	cobra.CheckErr(rootCmd.Execute())
}
