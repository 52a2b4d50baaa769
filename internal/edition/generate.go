package edition

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/papapumpkin/strata/internal/layer"
	"github.com/papapumpkin/strata/internal/telemetry"
)

// Job describes a full edition run.
type Job struct {
	Driver       *Driver
	Options      Options
	RunID        string
	Seed         int64
	Combinations string
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Table   *RarityTable // after dedup
	Records []Record     // after dedup, renumbered
	Stats   DedupStats
	Summary Summary
	Dir     string
}

// Generate runs the generation loop, removes duplicates, and writes
// metadata.csv and edition.toml into the edition directory.
//
// A cancelled ctx still finalizes whatever was accepted before the
// cancellation, so the directory stays consistent, and then returns
// ctx.Err(). Any other error aborts immediately and leaves partial output.
func Generate(ctx context.Context, job Job) (*Outcome, error) {
	d := job.Driver
	opts := job.Options
	started := time.Now().UTC()

	pattern := ""
	if opts.Pattern != nil {
		pattern = opts.Pattern.String()
	}
	d.noteTelemetry(d.Telemetry.Emit(telemetry.Event{
		Kind: telemetry.KindRunStart,
		Data: map[string]any{
			"count":        opts.Count,
			"seed":         job.Seed,
			"pattern":      pattern,
			"fill":         opts.Fill,
			"combinations": job.Combinations,
		},
	}))

	res, runErr := d.Run(ctx, opts)
	if runErr != nil && !isCancel(runErr) {
		return nil, runErr
	}

	table, stats, err := Dedupe(res.Table, res.ImagesDir, res.Width)
	if err != nil {
		return nil, err
	}
	if d.UI != nil {
		d.UI.Deduplicated(stats.Generated, stats.Distinct, stats.Removed)
	}
	d.noteTelemetry(d.Telemetry.Emit(telemetry.Event{
		Kind: telemetry.KindDedupDone,
		Data: map[string]int{"generated": stats.Generated, "distinct": stats.Distinct, "removed": stats.Removed},
	}))

	dir := Dir(d.OutputDir, opts.Edition)
	if err := table.SaveCSV(filepath.Join(dir, MetadataFile)); err != nil {
		return nil, err
	}

	out := &Outcome{
		Table:   table,
		Records: Renumber(res.Records, stats, res.ImagesDir, res.Width),
		Stats:   stats,
		Dir:     dir,
		Summary: Summary{
			Edition:      opts.Edition,
			RunID:        job.RunID,
			Seed:         job.Seed,
			Pattern:      pattern,
			Fill:         opts.Fill,
			Requested:    opts.Count,
			Attempts:     res.Attempts,
			Accepted:     res.Accepted,
			Distinct:     stats.Distinct,
			Removed:      stats.Removed,
			Combinations: job.Combinations,
			Layers:       layer.Names(d.Layers),
			StartedAt:    started,
			FinishedAt:   time.Now().UTC(),
		},
	}
	if err := SaveSummary(dir, &out.Summary); err != nil {
		return nil, err
	}

	d.noteTelemetry(d.Telemetry.Emit(telemetry.Event{
		Kind: telemetry.KindRunDone,
		Data: map[string]any{
			"attempts":  res.Attempts,
			"accepted":  res.Accepted,
			"distinct":  stats.Distinct,
			"cancelled": runErr != nil,
		},
	}))

	if runErr != nil {
		return out, fmt.Errorf("generation interrupted after %d artifact(s): %w", res.Accepted, runErr)
	}
	return out, nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
