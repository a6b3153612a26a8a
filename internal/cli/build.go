package cli

import (
	"context"
	"fmt"

	"careerpilot/internal/ai"
	"careerpilot/internal/common"
	"careerpilot/internal/portfolio"
	"careerpilot/internal/types"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [resume-file]",
	Short: "Generate a portfolio site from a resume",
	Long: `Generate a React/Tailwind portfolio site from a plain-text resume.
The resume is parsed into structured data, a site plan is drafted, section
content is written, and the code is generated and validated, with bounded
repair attempts on validation failures. The finished project tree is written
under the configured output directory and zipped.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if buildConfig.OutputFormat == "" {
			buildConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(buildConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runBuild,
}

var buildConfig common.CommandConfig
var buildUserPrompt string
var buildProjectName string

func init() {
	buildCmd.Flags().StringVarP(&buildConfig.OutputFile, "output", "o", "", "Report output file path (default: stdout)")
	buildCmd.Flags().StringVar(&buildConfig.OutputFormat, "format", "", "Report output format: json, text, or markdown")
	buildCmd.Flags().StringVar(&buildUserPrompt, "prompt", "", "Style and content preferences for the generated site")
	buildCmd.Flags().StringVar(&buildProjectName, "name", "", "Project name (default: derived from the resume)")

	_ = buildCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	services, err := ai.NewServices(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI services: %w", err)
	}
	defer services.Close()

	builder, err := portfolio.NewBuilder(portfolio.GeneratorsFromServices(services), cfg.Portfolio, logger)
	if err != nil {
		return fmt.Errorf("failed to create portfolio builder: %w", err)
	}

	createInput := func(contents []string) (portfolio.BuildRequest, error) {
		return portfolio.BuildRequest{
			ResumeText:  contents[0],
			UserPrompt:  buildUserPrompt,
			ProjectName: buildProjectName,
		}, nil
	}

	logDetails := func(input portfolio.BuildRequest, cfg common.CommandConfig) {
		logger.Info("Starting portfolio build",
			"resume_chars", len(input.ResumeText),
			"project_name", input.ProjectName,
			"output_format", cfg.OutputFormat)
	}

	buildOperation := func(ctx context.Context, input portfolio.BuildRequest) (types.PortfolioResult, error) {
		return builder.Build(ctx, input)
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		buildConfig,
		args,
		createInput,
		buildOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to build portfolio: %w", err)
	}
	logger.Info("Portfolio build completed successfully")
	return nil
}
