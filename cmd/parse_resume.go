package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Extract structured information from a resume",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		logger, config := setup()

		text, err := readResume(cmd.Flag("resume").Value.String())
		if err != nil {
			logger.Error("reading resume", zap.Error(err))
			return errFailed
		}

		orchestrator, err := newOrchestrator(ctx, config, logger)
		if err != nil {
			logger.Error(describeFailure(normalizedProvider(config), err), zap.Error(err))
			return errFailed
		}

		resume, err := orchestrator.AnalyzeResume(ctx, text)
		if err != nil {
			logger.Error(describeFailure(normalizedProvider(config), err), zap.Error(err))
			return errFailed
		}

		return render(cmd.OutOrStdout(), resume, cmd.Flag("output").Value.String())
	},
}

func init() {
	rootCmd.AddCommand(parseResumeCmd)

	parseResumeCmd.Flags().StringP("resume", "r", "", "plain text file with the resume")
	parseResumeCmd.Flags().StringP("output", "o", outputJSON, "output format: json or yaml")
}
