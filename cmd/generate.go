package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/strata/internal/archive"
	"github.com/papapumpkin/strata/internal/compose"
	"github.com/papapumpkin/strata/internal/config"
	"github.com/papapumpkin/strata/internal/edition"
	"github.com/papapumpkin/strata/internal/layer"
	"github.com/papapumpkin/strata/internal/telemetry"
	"github.com/papapumpkin/strata/internal/traits"
	"github.com/papapumpkin/strata/internal/tui"
	"github.com/papapumpkin/strata/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an edition of composited artifacts",
	Long: `Validates the layer configuration, then samples, filters and composites
--count artifacts into "<output>/edition <id>/images". Duplicate artifacts are
removed afterwards and the survivors are renumbered contiguously.

With --require only trait sets carrying a trait that matches the pattern are
kept. By default exactly --count attempts are made; --fill keeps trying until
--count artifacts are accepted or --max-attempts is reached.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntP("count", "n", 0, "number of artifacts to generate (required)")
	generateCmd.Flags().StringP("edition", "e", "", "edition identifier (required)")
	generateCmd.Flags().String("require", "", "keep only trait sets with a trait matching this regular expression")
	generateCmd.Flags().Int64("seed", 0, "random seed (0 = derive from the clock)")
	generateCmd.Flags().Bool("fill", false, "retry until --count artifacts pass --require")
	generateCmd.Flags().Int("max-attempts", 0, "attempt cap in --fill mode (default 100 x count)")
	generateCmd.Flags().Int("workers", 0, "concurrent compositing workers (default from config)")
	generateCmd.Flags().Bool("tui", false, "render progress with the interactive display")
	_ = generateCmd.MarkFlagRequired("count")
	_ = generateCmd.MarkFlagRequired("edition")

	_ = viper.BindPFlag("seed", generateCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("workers", generateCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	count, _ := cmd.Flags().GetInt("count")
	editionID, _ := cmd.Flags().GetString("edition")
	require, _ := cmd.Flags().GetString("require")
	fill, _ := cmd.Flags().GetBool("fill")
	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	useTUI, _ := cmd.Flags().GetBool("tui")

	if count <= 0 {
		return fmt.Errorf("--count must be > 0, got %d", count)
	}
	var pattern *regexp.Regexp
	if require != "" {
		if pattern, err = regexp.Compile(require); err != nil {
			return fmt.Errorf("invalid --require pattern: %w", err)
		}
	}

	printer := ui.New()
	printer.Verbose = cfg.Verbose
	printer.Banner()

	seed := resolveSeed(cfg.Seed)
	rng := newRand(seed)

	layers, err := loadLayers(cfg, rng)
	if err != nil {
		printer.ValidateResult(nil, "", err)
		return err
	}
	combinations := layer.TotalCombinations(layers).String()
	printer.Info(fmt.Sprintf("you can create a total of %s distinct artifact(s)", combinations))

	runID := uuid.NewString()
	dir := edition.Dir(cfg.OutputDir, editionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating edition directory: %w", err)
	}

	var emitter *telemetry.Emitter
	if cfg.Telemetry {
		emitter, err = telemetry.NewEmitter(filepath.Join(dir, telemetry.FileName), runID, editionID)
		if err != nil {
			printer.Error(fmt.Sprintf("telemetry disabled: %v", err))
		} else {
			defer emitter.Close()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	job := edition.Job{
		Options: edition.Options{
			Edition:     editionID,
			Count:       count,
			Pattern:     pattern,
			Fill:        fill,
			MaxAttempts: maxAttempts,
			Workers:     cfg.Workers,
		},
		RunID:        runID,
		Seed:         seed,
		Combinations: combinations,
	}

	var out *edition.Outcome
	work := func(u ui.UI) error {
		job.Driver = &edition.Driver{
			Layers: layers,
			Generator: &traits.Generator{
				Layers: layers,
				Rand:   rng,
				OnLink: u.Linked,
			},
			Compositor: compose.PNG{Root: cfg.AssetsDir},
			OutputDir:  cfg.OutputDir,
			UI:         u,
			Telemetry:  emitter,
		}
		var genErr error
		out, genErr = edition.Generate(ctx, job)
		if out != nil && cfg.Archive {
			dbPath := filepath.Join(out.Dir, edition.ArchiveFile)
			if _, err := archive.Write(context.WithoutCancel(ctx), dbPath, out.Summary, layers, out.Table); err != nil {
				u.Error(fmt.Sprintf("archive: %v", err))
			}
		}
		return genErr
	}

	if useTUI {
		err = tui.Run(os.Stderr, cfg.Verbose, cancel, func(b *tui.Bridge) error { return work(b) })
	} else {
		err = work(printer)
	}

	if out != nil {
		printer.Summary(ui.Summary{
			Edition:   out.Summary.Edition,
			RunID:     out.Summary.RunID,
			Seed:      out.Summary.Seed,
			Requested: out.Summary.Requested,
			Attempts:  out.Summary.Attempts,
			Accepted:  out.Summary.Accepted,
			Distinct:  out.Summary.Distinct,
			Removed:   out.Summary.Removed,
			OutputDir: out.Dir,
		})
	}
	return err
}
