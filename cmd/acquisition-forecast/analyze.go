package main

import (
	"github.com/iwvelando/acquisition-forecast/internal/analysis"
	"github.com/iwvelando/acquisition-forecast/internal/config"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/output"
	"github.com/iwvelando/acquisition-forecast/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeOpts struct {
	configPath   string
	outputFormat string
	optimize     bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full acquisition analysis for a deal configuration",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVar(&analyzeOpts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&analyzeOpts.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	flags.BoolVar(&analyzeOpts.optimize, "optimize", false, "search for the highest price meeting the target IRR")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	conf, err := config.LoadConfiguration(analyzeOpts.configPath)
	if err != nil {
		return eris.Wrapf(err, "failed to load configuration at %s", analyzeOpts.configPath)
	}

	logger, err := initializeLogger(conf.Logging, logLevelOverride)
	if err != nil {
		return eris.Wrap(err, "failed to initialize logger")
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config.
	outputFormat := conf.Output.Format
	if analyzeOpts.outputFormat != "" {
		outputFormat = analyzeOpts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	if analyzeOpts.optimize {
		if conf.Optimizer == nil {
			conf.Optimizer = &config.OptimizerConfig{}
		}
		conf.Optimizer.Enabled = true
	}

	report, err := analysis.Run(cmd.Context(), logger, conf)
	if err != nil {
		logger.Error("failed to analyze acquisition",
			zap.String("op", "main.runAnalyze"),
			zap.Error(err),
		)
		return err
	}

	for _, warning := range report.Warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runAnalyze"),
		)
	}

	return output.Write(cmd.OutOrStdout(), outputFormat, report)
}
