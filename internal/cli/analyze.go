package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"careerpilot/internal/ai"
	"careerpilot/internal/common"
	"careerpilot/internal/config"
	"careerpilot/internal/interview"
	"careerpilot/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [answers-file] [job-description-file]",
	Short: "Analyze mock interview answers",
	Long: `Analyze a set of mock interview answers: deterministic speech-delivery
metrics (pace, filler words, hedging) combined with AI assessment of clarity,
confidence, fluency, and relevance.

The answers file is a JSON array of objects with "question", "transcript",
and optional "durationSeconds" fields. The job description file is optional
and improves relevance and keyword scoring.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

type analyzeInput struct {
	answers        []interview.AnswerInput
	jobDescription string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	opConfig := cfg.OperationConfig(config.OpAssessAnswer)
	aiService, err := ai.NewService(&opConfig, config.OpAssessAnswer, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() { _ = aiService.Close() }()

	analyzer := interview.NewAnalyzer(aiService.Provider, logger)

	createInput := func(contents []string) (analyzeInput, error) {
		var answers []interview.AnswerInput
		if err := json.Unmarshal([]byte(contents[0]), &answers); err != nil {
			return analyzeInput{}, fmt.Errorf("answers file is not a valid JSON array: %w", err)
		}
		if len(answers) == 0 {
			return analyzeInput{}, fmt.Errorf("answers file contains no answers")
		}

		input := analyzeInput{answers: answers}
		if len(contents) > 1 {
			input.jobDescription = contents[1]
		}
		return input, nil
	}

	logDetails := func(input analyzeInput, cfg common.CommandConfig) {
		logger.Info("Starting mock interview analysis",
			"answers", len(input.answers),
			"has_job_description", input.jobDescription != "",
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, input analyzeInput) (types.InterviewReport, error) {
		return analyzer.AnalyzeSession(ctx, input.answers, input.jobDescription)
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze interview answers: %w", err)
	}
	logger.Info("Mock interview analysis completed successfully")
	return nil
}
