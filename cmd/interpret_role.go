package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var interpretRoleCmd = &cobra.Command{
	Use:   "interpret-role",
	Short: "List the skills and experience a target role requires",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		logger, config := setup()

		orchestrator, err := newOrchestrator(ctx, config, logger)
		if err != nil {
			logger.Error(describeFailure(normalizedProvider(config), err), zap.Error(err))
			return errFailed
		}

		requirements, err := orchestrator.InterpretRole(ctx, cmd.Flag("role").Value.String())
		if err != nil {
			logger.Error(describeFailure(normalizedProvider(config), err), zap.Error(err))
			return errFailed
		}

		return render(cmd.OutOrStdout(), requirements, cmd.Flag("output").Value.String())
	},
}

func init() {
	rootCmd.AddCommand(interpretRoleCmd)

	interpretRoleCmd.Flags().String("role", "", "target job role")
	interpretRoleCmd.Flags().StringP("output", "o", outputJSON, "output format: json or yaml")
}
