package cli

import (
	"context"
	"fmt"

	"careerpilot/internal/ats"
	"careerpilot/internal/common"
	"careerpilot/internal/types"

	"github.com/spf13/cobra"
)

var atsCmd = &cobra.Command{
	Use:   "ats [resume-file] [job-description-file]",
	Short: "Check a resume for ATS compatibility",
	Long: `Run deterministic ATS (Applicant Tracking System) compatibility checks
on a resume: format compatibility, keyword optimization, structure quality,
and content quality. The job description file is optional; when provided,
keyword overlap is scored against it. No AI calls are made.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if atsConfig.OutputFormat == "" {
			atsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(atsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runATS,
}

var atsConfig common.CommandConfig

func init() {
	atsCmd.Flags().StringVarP(&atsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	atsCmd.Flags().StringVar(&atsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = atsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

type atsInput struct {
	resumeText     string
	jobDescription string
}

func runATS(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	analyzer := ats.NewAnalyzer()

	createInput := func(contents []string) (atsInput, error) {
		input := atsInput{resumeText: contents[0]}
		if len(contents) > 1 {
			input.jobDescription = contents[1]
		}
		return input, nil
	}

	logDetails := func(input atsInput, cfg common.CommandConfig) {
		logger.Info("Starting ATS compatibility check",
			"resume_chars", len(input.resumeText),
			"has_job_description", input.jobDescription != "",
			"output_format", cfg.OutputFormat)
	}

	atsOperation := func(ctx context.Context, input atsInput) (types.ATSReport, error) {
		return analyzer.Analyze(input.resumeText, input.jobDescription), nil
	}

	err := common.RunCommand(
		cmd.Context(),
		logger,
		atsConfig,
		args,
		createInput,
		atsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to run ATS check: %w", err)
	}
	logger.Info("ATS check completed successfully")
	return nil
}
