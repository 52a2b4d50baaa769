package edition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DedupStats reports the outcome of Dedupe.
type DedupStats struct {
	Generated int
	Distinct  int
	Removed   int
	// Kept maps each new artifact index to the index it had before dedup.
	Kept []int
}

// Dedupe keeps the first occurrence of every distinct row, deletes the image
// files of later duplicates and renumbers the surviving images to 0..k-1 in
// their original order. It returns the reindexed table.
//
// Equal rows are assumed to have produced identical images, which holds as
// long as compositing is deterministic for a given path list.
func Dedupe(t *RarityTable, imagesDir string, width int) (*RarityTable, DedupStats, error) {
	stats := DedupStats{Generated: t.Len()}

	seen := make(map[string]bool, t.Len())
	var removed []int
	for i, row := range t.Rows {
		key := rowKey(row)
		if seen[key] {
			removed = append(removed, i)
			continue
		}
		seen[key] = true
		stats.Kept = append(stats.Kept, i)
	}
	stats.Distinct = len(stats.Kept)
	stats.Removed = len(removed)

	for _, i := range removed {
		path := filepath.Join(imagesDir, ImageName(i, width))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, stats, fmt.Errorf("removing duplicate %s: %w", path, err)
		}
	}

	// Ascending order means every rename target is either the source itself,
	// a deleted duplicate or a survivor that has already moved down.
	out := NewTable(t.Columns)
	for newIdx, oldIdx := range stats.Kept {
		if newIdx != oldIdx {
			from := filepath.Join(imagesDir, ImageName(oldIdx, width))
			to := filepath.Join(imagesDir, ImageName(newIdx, width))
			if err := os.Rename(from, to); err != nil {
				return nil, stats, fmt.Errorf("renumbering %s: %w", from, err)
			}
		}
		out.Rows = append(out.Rows, t.Rows[oldIdx])
	}
	return out, stats, nil
}

func rowKey(row []string) string {
	return strings.Join(row, "\x1f")
}

// Renumber applies dedup results to the records of a run.
func Renumber(records []Record, stats DedupStats, imagesDir string, width int) []Record {
	out := make([]Record, len(stats.Kept))
	for newIdx, oldIdx := range stats.Kept {
		r := records[oldIdx]
		r.Index = newIdx
		r.Image = filepath.Join(imagesDir, ImageName(newIdx, width))
		out[newIdx] = r
	}
	return out
}
