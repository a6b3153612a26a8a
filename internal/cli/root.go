package cli

import (
	"context"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "careerpilot",
	Short: "AI career toolkit: portfolio sites, resume matching, and interview prep",
	Long: `CareerPilot turns a plain-text resume into a generated React/Tailwind
portfolio site and bundles a resume toolkit: resume-job matching, ATS
compatibility scoring, interview question generation, and mock interview
analysis. Run it as a CLI or start the HTTP API with the serve command.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(atsCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
