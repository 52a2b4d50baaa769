package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/strata/internal/archive"
	"github.com/papapumpkin/strata/internal/config"
	"github.com/papapumpkin/strata/internal/edition"
	"github.com/papapumpkin/strata/internal/ui"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the SQLite archive of a finished edition",
}

var archiveShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print an edition's summary and trait distribution",
	RunE:  runArchiveShow,
}

func init() {
	archiveShowCmd.Flags().StringP("edition", "e", "", "edition to show (required)")
	archiveShowCmd.Flags().Bool("rows", false, "also print every artifact row")
	_ = archiveShowCmd.MarkFlagRequired("edition")

	archiveCmd.AddCommand(archiveShowCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runArchiveShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	editionID, _ := cmd.Flags().GetString("edition")
	showRows, _ := cmd.Flags().GetBool("rows")

	dir := edition.Dir(cfg.OutputDir, editionID)
	path := filepath.Join(dir, edition.ArchiveFile)

	a, err := archive.Read(cmd.Context(), path)
	if err != nil {
		return err
	}
	counts, err := archive.TraitCounts(cmd.Context(), path)
	if err != nil {
		return err
	}

	printer := ui.New()
	s := a.Summary
	printer.Summary(ui.Summary{
		Edition:   s.Edition,
		RunID:     s.RunID,
		Seed:      s.Seed,
		Requested: s.Requested,
		Attempts:  s.Attempts,
		Accepted:  s.Accepted,
		Distinct:  s.Distinct,
		Removed:   s.Removed,
		OutputDir: dir,
	})
	printer.Table([]string{"LAYER", "TRAIT", "COUNT", "SHARE"}, distributionRows(s.Layers, counts, a.Table.Len()))

	if showRows {
		header := append([]string{"#"}, a.Table.Columns...)
		rows := make([][]string, 0, a.Table.Len())
		for i, r := range a.Table.Rows {
			rows = append(rows, append([]string{strconv.Itoa(i)}, r...))
		}
		printer.Table(header, rows)
	}
	return nil
}

// distributionRows orders the counts by layer position, then by descending
// count and trait name.
func distributionRows(layers []string, counts map[string]map[string]int, total int) [][]string {
	var rows [][]string
	for _, name := range layers {
		byTrait := counts[name]
		traits := make([]string, 0, len(byTrait))
		for t := range byTrait {
			traits = append(traits, t)
		}
		sort.Slice(traits, func(i, j int) bool {
			if byTrait[traits[i]] != byTrait[traits[j]] {
				return byTrait[traits[i]] > byTrait[traits[j]]
			}
			return traits[i] < traits[j]
		})
		for _, t := range traits {
			share := 0.0
			if total > 0 {
				share = 100 * float64(byTrait[t]) / float64(total)
			}
			rows = append(rows, []string{name, t, strconv.Itoa(byTrait[t]), fmt.Sprintf("%.1f%%", share)})
		}
	}
	return rows
}
