package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/strata/internal/compose"
	"github.com/papapumpkin/strata/internal/config"
	"github.com/papapumpkin/strata/internal/ui"
)

// singleImagesDir holds one-off composites under the output root.
const singleImagesDir = "single_images"

var composeCmd = &cobra.Command{
	Use:   "compose <trait-path>...",
	Short: "Composite an explicit list of trait images",
	Long: `Stacks the given trait images, relative to the assets directory, in
order. The first path is the background. Without --out the image is written
to "<output>/single_images/<unix-seconds>.png".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringP("out", "o", "", "output file")
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		dir := filepath.Join(cfg.OutputDir, singleImagesDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		out = filepath.Join(dir, fmt.Sprintf("%d.png", time.Now().Unix()))
	}

	if err := (compose.PNG{Root: cfg.AssetsDir}).Composite(args, out); err != nil {
		return err
	}
	ui.New().Info(fmt.Sprintf("wrote %s", out))
	return nil
}
