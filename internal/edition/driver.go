// Package edition runs the generation loop for one edition: it samples trait
// sets, filters them, composites the accepted ones, records their metadata
// and finally removes duplicates.
package edition

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/papapumpkin/strata/internal/compose"
	"github.com/papapumpkin/strata/internal/layer"
	"github.com/papapumpkin/strata/internal/telemetry"
	"github.com/papapumpkin/strata/internal/traits"
	"github.com/papapumpkin/strata/internal/ui"
)

// ErrInvalidOptions indicates Run was called with unusable options.
var ErrInvalidOptions = errors.New("invalid generation options")

// DefaultFillFactor bounds attempts in fill mode to this multiple of Count
// when MaxAttempts is not set.
const DefaultFillFactor = 100

// Options controls one generation run.
type Options struct {
	Edition string
	Count   int

	// Pattern, when set, keeps only trait sets with at least one
	// non-sentinel label matching it.
	Pattern *regexp.Regexp

	// Fill keeps attempting until Count artifacts are accepted or
	// MaxAttempts is reached. Without Fill exactly Count attempts are made
	// and a selective Pattern yields fewer than Count artifacts.
	Fill        bool
	MaxAttempts int

	// Workers bounds concurrent compositing. Sampling stays sequential.
	Workers int
}

// Record is an accepted artifact.
type Record struct {
	Index  int
	Traits traits.TraitSet
	Paths  []string
	Image  string
}

// Result is the outcome of Run.
type Result struct {
	Table     *RarityTable
	Records   []Record
	Attempts  int
	Accepted  int
	Skipped   int
	ImagesDir string
	Width     int
}

// Progress returns the result as a ui.Progress snapshot.
func (r *Result) Progress(target int) ui.Progress {
	return ui.Progress{Attempts: r.Attempts, Accepted: r.Accepted, Skipped: r.Skipped, Target: target}
}

// Driver generates the artifacts of one edition.
type Driver struct {
	Layers     []layer.Layer
	Generator  *traits.Generator
	Compositor compose.Compositor
	OutputDir  string
	UI         ui.UI               // optional
	Telemetry  *telemetry.Emitter // optional; nil is a no-op

	telemetryOnce sync.Once
}

type pending struct {
	record Record
	err    error
}

// Run performs the generation loop. Artifact numbering and table rows follow
// attempt order. When ctx is cancelled Run stops between batches and returns
// ctx.Err() together with the consistent partial result.
func (d *Driver) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidOptions, opts.Count)
	}
	if opts.Edition == "" {
		return nil, fmt.Errorf("%w: edition is required", ErrInvalidOptions)
	}
	if d.Generator == nil || d.Compositor == nil {
		return nil, fmt.Errorf("%w: driver needs a generator and a compositor", ErrInvalidOptions)
	}

	maxAttempts := opts.Count
	if opts.Fill {
		maxAttempts = opts.MaxAttempts
		if maxAttempts <= 0 {
			maxAttempts = DefaultFillFactor * opts.Count
		}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	res := &Result{
		Table:     NewTable(layer.Names(d.Layers)),
		ImagesDir: ImagesDir(d.OutputDir, opts.Edition),
		Width:     Width(opts.Count),
	}
	if err := os.MkdirAll(res.ImagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating images directory: %w", err)
	}
	removed, err := clearImages(res.ImagesDir)
	if err != nil {
		return nil, err
	}
	if removed > 0 && d.UI != nil {
		d.UI.Info(fmt.Sprintf("removed %d image(s) left by an earlier run of edition %s", removed, opts.Edition))
	}

	if d.UI != nil {
		d.UI.GenerationStarted(opts.Edition, opts.Count)
	}

	for res.Attempts < maxAttempts && res.Accepted < opts.Count {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var batch []*pending
		for len(batch) < workers && res.Attempts < maxAttempts && res.Accepted+len(batch) < opts.Count {
			set, paths, err := d.Generator.Next()
			if err != nil {
				return res, err
			}
			res.Attempts++

			if opts.Pattern != nil && !matches(opts.Pattern, set) {
				res.Skipped++
				d.noteTelemetry(d.Telemetry.Emit(telemetry.Event{
					Kind: telemetry.KindAttemptSkipped,
					Data: map[string]int{"attempt": res.Attempts},
				}))
				continue
			}

			idx := res.Accepted + len(batch)
			batch = append(batch, &pending{record: Record{
				Index:  idx,
				Traits: set,
				Paths:  paths,
				Image:  filepath.Join(res.ImagesDir, ImageName(idx, res.Width)),
			}})
		}

		if err := d.commit(res, batch, workers); err != nil {
			return res, err
		}
		if d.UI != nil {
			d.UI.Progress(res.Progress(opts.Count))
		}
	}

	if d.UI != nil {
		d.UI.GenerationDone(res.Progress(opts.Count))
	}
	return res, nil
}

// commit composites a batch and appends its rows in index order. If any
// item fails, rows are kept for the successful prefix and images written
// after the failure are removed, so images and rows stay paired.
func (d *Driver) commit(res *Result, batch []*pending, workers int) error {
	d.composite(batch, workers)

	for i, p := range batch {
		if p.err != nil {
			for _, later := range batch[i+1:] {
				if later.err == nil {
					os.Remove(later.record.Image)
				}
			}
			return fmt.Errorf("artifact %d: %w", p.record.Index, p.err)
		}
		if err := res.Table.Append(p.record.Traits.Row()); err != nil {
			return err
		}
		res.Records = append(res.Records, p.record)
		res.Accepted++
		d.noteTelemetry(d.Telemetry.Artifact(p.record.Index, res.Table.Record(res.Table.Len()-1)))
	}
	return nil
}

func (d *Driver) composite(batch []*pending, workers int) {
	if len(batch) == 1 || workers == 1 {
		for _, p := range batch {
			p.err = d.Compositor.Composite(p.record.Paths, p.record.Image)
		}
		return
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, p := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(p *pending) {
			defer wg.Done()
			defer func() { <-sem }()
			p.err = d.Compositor.Composite(p.record.Paths, p.record.Image)
		}(p)
	}
	wg.Wait()
}

// noteTelemetry reports the first telemetry failure of the driver's lifetime.
// Generation carries on without it.
func (d *Driver) noteTelemetry(err error) {
	if err == nil {
		return
	}
	d.telemetryOnce.Do(func() {
		if d.UI != nil {
			d.UI.Error(fmt.Sprintf("%v (telemetry.jsonl is incomplete; later failures are not reported)", err))
		}
	})
}

// clearImages deletes artifact images in dir. metadata.csv describes only
// the latest run of an edition, so images from earlier runs must not survive.
func clearImages(dir string) (int, error) {
	stale, err := filepath.Glob(filepath.Join(dir, "*"+ImageExt))
	if err != nil {
		return 0, err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return 0, fmt.Errorf("removing stale image: %w", err)
		}
	}
	return len(stale), nil
}

func matches(re *regexp.Regexp, set traits.TraitSet) bool {
	for _, label := range set.Labels() {
		if re.MatchString(label) {
			return true
		}
	}
	return false
}
