package cli

import (
	"fmt"

	"careerpilot/internal/ai"
	"careerpilot/internal/common"
	"careerpilot/internal/config"
	"careerpilot/internal/interview"
	"careerpilot/internal/types"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [job-description-file]",
	Short: "Generate interview questions for a job description",
	Long: `Generate tailored interview questions from a job description using AI.
Each question carries a type (technical, behavioral, situational), a difficulty,
and a focus area.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if questionsConfig.OutputFormat == "" {
			questionsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(questionsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runQuestions,
}

var questionsConfig common.CommandConfig
var questionsCount int
var questionTypes []string

func init() {
	questionsCmd.Flags().StringVarP(&questionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	questionsCmd.Flags().StringVar(&questionsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	questionsCmd.Flags().IntVarP(&questionsCount, "count", "n", 0, "Number of questions to generate (default from service)")
	questionsCmd.Flags().StringSliceVar(&questionTypes, "types", nil, "Question types to include (technical, behavioral, situational)")

	_ = questionsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	opConfig := cfg.OperationConfig(config.OpQuestions)
	aiService, err := ai.NewService(&opConfig, config.OpQuestions, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() { _ = aiService.Close() }()

	service := interview.NewQuestionService(aiService.Provider, logger)

	createInput := func(contents []string) (types.GenerateQuestionsInput, error) {
		return types.GenerateQuestionsInput{
			JobDescription: contents[0],
			NumQuestions:   questionsCount,
			QuestionTypes:  questionTypes,
		}, nil
	}

	logDetails := func(input types.GenerateQuestionsInput, cfg common.CommandConfig) {
		logger.Info("Starting question generation",
			"job_chars", len(input.JobDescription),
			"requested_count", input.NumQuestions,
			"output_format", cfg.OutputFormat)
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		questionsConfig,
		args,
		createInput,
		service.Generate,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}
	logger.Info("Question generation completed successfully")
	return nil
}
