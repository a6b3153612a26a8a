package cli

import (
	"context"
	"fmt"

	"careerpilot/internal/ai"
	"careerpilot/internal/common"
	"careerpilot/internal/config"
	"careerpilot/internal/match"
	"careerpilot/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Score a resume against a job description using embedding similarity
and AI-generated insights. The command takes two arguments: the path to your
resume file and the path to the job description file. Both files should be in
plain text format.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

type matchInput struct {
	resumeText     string
	jobDescription string
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	embedder, err := ai.NewEmbedder(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	adviceConfig := cfg.OperationConfig(config.OpMatchAdvice)
	aiService, err := ai.NewService(&adviceConfig, config.OpMatchAdvice, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() { _ = aiService.Close() }()

	pipeline, err := match.NewPipeline(embedder, aiService.Provider, logger)
	if err != nil {
		return fmt.Errorf("failed to create match pipeline: %w", err)
	}

	createInput := func(contents []string) (matchInput, error) {
		if len(contents) != 2 {
			return matchInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return matchInput{resumeText: contents[0], jobDescription: contents[1]}, nil
	}

	logDetails := func(input matchInput, cfg common.CommandConfig) {
		logger.Info("Starting resume-job matching",
			"resume_chars", len(input.resumeText),
			"job_chars", len(input.jobDescription),
			"output_format", cfg.OutputFormat)
	}

	matchOperation := func(ctx context.Context, input matchInput) (types.MatchResult, error) {
		return pipeline.Run(ctx, input.resumeText, input.jobDescription)
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		matchConfig,
		args,
		createInput,
		matchOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to match resume: %w", err)
	}
	logger.Info("Resume matching completed successfully")
	return nil
}
