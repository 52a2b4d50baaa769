package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/strata/internal/assets"
	"github.com/papapumpkin/strata/internal/config"
	"github.com/papapumpkin/strata/internal/layer"
	"github.com/papapumpkin/strata/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the layer configuration against the assets directory",
	Long: `Checks every layer definition: required fields, unique ids and names,
trait directories, rarity weights and link targets. All problems are
reported together.

With --watch, the layer file and the layer directories are watched and the
check re-runs on every change until interrupted.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolP("watch", "w", false, "re-validate when the layer file or assets change")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	watch, _ := cmd.Flags().GetBool("watch")

	printer := ui.New()
	layers, err := validateOnce(cfg, printer)
	if !watch {
		return err
	}

	w, werr := assets.NewWatcher()
	if werr != nil {
		return fmt.Errorf("creating watcher: %w", werr)
	}
	if werr := w.Start(watchPaths(cfg, layers)...); werr != nil {
		w.Stop()
		return fmt.Errorf("starting watcher: %w", werr)
	}
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	printer.Info("watching for changes (ctrl+c to stop)")
	for {
		select {
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			printer.Info(fmt.Sprintf("changed: %s", change.Path))
			_, _ = validateOnce(cfg, printer)
		case <-sig:
			return nil
		}
	}
}

// validateOnce runs a full validation and prints the outcome. Random weights
// are drawn from a throwaway source; only their validity matters here.
func validateOnce(cfg config.Config, printer *ui.Printer) ([]layer.Layer, error) {
	layers, err := loadLayers(cfg, rand.New(rand.NewPCG(1, 1)))
	combinations := ""
	if err == nil {
		combinations = layer.TotalCombinations(layers).String()
	}
	printer.ValidateResult(layers, combinations, err)
	return layers, err
}

// watchPaths lists the layer file's directory, the assets root and every
// known layer directory. Missing paths are skipped by the watcher.
func watchPaths(cfg config.Config, layers []layer.Layer) []string {
	paths := []string{filepath.Dir(cfg.LayersFile), cfg.AssetsDir}
	if len(layers) == 0 {
		if defs, err := layer.Load(cfg.LayersFile); err == nil {
			for _, d := range defs {
				paths = append(paths, filepath.Join(cfg.AssetsDir, d.Directory))
			}
		}
		return paths
	}
	for _, l := range layers {
		paths = append(paths, filepath.Join(cfg.AssetsDir, l.Directory))
	}
	return paths
}
