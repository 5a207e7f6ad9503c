package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-companion/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full pipeline and print the career report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "plain text file with the resume")
	analyzeCmd.Flags().String("role", "", "target job role; asked interactively when empty")
	analyzeCmd.Flags().StringP("output", "o", outputJSON, "report format: json or yaml")
}

func analyze(cmd *cobra.Command) error {
	ctx := context.Background()
	logger, config := setup()

	resumeText, err := readResume(cmd.Flag("resume").Value.String())
	if err != nil {
		logger.Error("reading resume", zap.Error(err))
		return errFailed
	}
	if strings.TrimSpace(resumeText) == "" {
		logger.Error(describeFailure(normalizedProvider(config), pipeline.ErrEmptyResume))
		return errFailed
	}

	role := strings.TrimSpace(cmd.Flag("role").Value.String())
	if role == "" {
		role, err = askRole()
		if err != nil {
			logger.Error("asking for the target role", zap.Error(err))
			return errFailed
		}
	}

	orchestrator, err := newOrchestrator(ctx, config, logger)
	if err != nil {
		logger.Error(describeFailure(normalizedProvider(config), err), zap.Error(err))
		return errFailed
	}

	report, err := orchestrator.Run(ctx, resumeText, role)
	if err != nil {
		logger.Error(describeFailure(normalizedProvider(config), err), zap.Error(err))
		return errFailed
	}

	return render(cmd.OutOrStdout(), report, cmd.Flag("output").Value.String())
}

func askRole() (string, error) {
	prompt := promptui.Prompt{
		Label: "Target role",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("role must not be empty")
			}
			return nil
		},
	}

	role, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(role), nil
}
