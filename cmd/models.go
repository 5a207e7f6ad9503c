package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-companion/internal/roster"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Print the models tried in failover order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, config := setup()

		models, err := roster.Parse(config.Models)
		if err != nil {
			logger.Error("parsing models", zap.Error(err), zap.String("hint", "set MODEL_IDS or the 'models' key"))
			return errFailed
		}

		fmt.Fprintf(cmd.OutOrStdout(), "provider: %s\n", normalizedProvider(config))
		for i, m := range models.Models() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
