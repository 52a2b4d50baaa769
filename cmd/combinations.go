package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/strata/internal/config"
	"github.com/papapumpkin/strata/internal/layer"
	"github.com/papapumpkin/strata/internal/ui"
)

var combinationsCmd = &cobra.Command{
	Use:   "combinations",
	Short: "Print the number of distinct artifacts the layers can produce",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		layers, err := loadLayers(cfg, newRand(resolveSeed(cfg.Seed)))
		if err != nil {
			ui.New().ValidateResult(nil, "", err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), layer.TotalCombinations(layers).String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(combinationsCmd)
}
