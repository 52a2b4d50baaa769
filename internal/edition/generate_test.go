package edition

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/strata/internal/telemetry"
)

func readKinds(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var kinds []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var evt telemetry.Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &evt))
		kinds = append(kinds, evt.Kind)
	}
	require.NoError(t, sc.Err())
	return kinds
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	layers := twoByTwo(t)
	rec := &recorder{}
	d := newDriver(t, layers, 41, &fakeCompositor{})
	d.UI = rec

	dir := Dir(d.OutputDir, "1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	em, err := telemetry.NewEmitter(filepath.Join(dir, telemetry.FileName), "run-1", "1")
	require.NoError(t, err)
	d.Telemetry = em

	out, err := Generate(context.Background(), Job{
		Driver:       d,
		Options:      Options{Edition: "1", Count: 20},
		RunID:        "run-1",
		Seed:         41,
		Combinations: "4",
	})
	require.NoError(t, err)
	require.NoError(t, em.Close())

	require.Equal(t, dir, out.Dir)
	require.LessOrEqual(t, out.Table.Len(), 4)
	require.Len(t, out.Records, out.Table.Len())
	require.Equal(t, [3]int{20, out.Stats.Distinct, out.Stats.Removed}, rec.dedup)

	f, err := os.Open(filepath.Join(dir, MetadataFile))
	require.NoError(t, err)
	defer f.Close()
	meta, err := ReadCSV(f)
	require.NoError(t, err)
	require.Equal(t, out.Table.Rows, meta.Rows)
	require.Equal(t, []string{"A", "B"}, meta.Columns)

	s, err := LoadSummary(dir)
	require.NoError(t, err)
	require.Equal(t, "run-1", s.RunID)
	require.Equal(t, int64(41), s.Seed)
	require.Equal(t, 20, s.Requested)
	require.Equal(t, 20, s.Attempts)
	require.Equal(t, 20, s.Accepted)
	require.Equal(t, out.Table.Len(), s.Distinct)
	require.Equal(t, []string{"A", "B"}, s.Layers)
	require.False(t, s.FinishedAt.Before(s.StartedAt))

	kinds := readKinds(t, filepath.Join(dir, telemetry.FileName))
	require.Equal(t, telemetry.KindRunStart, kinds[0])
	require.Equal(t, telemetry.KindRunDone, kinds[len(kinds)-1])
	require.Contains(t, kinds, telemetry.KindDedupDone)
	artifacts := 0
	for _, k := range kinds {
		if k == telemetry.KindArtifact {
			artifacts++
		}
	}
	require.Equal(t, 20, artifacts)
}

func TestGenerateCancelledStillFinalizes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &fakeCompositor{onCall: func(n int) {
		if n == 6 {
			cancel()
		}
	}}
	d := newDriver(t, twoByTwo(t), 43, c)

	out, err := Generate(ctx, Job{Driver: d, Options: Options{Edition: "1", Count: 50}})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, out)
	require.Equal(t, 6, out.Summary.Accepted)

	// Every surviving image has a metadata row and vice versa.
	images := imageFiles(t, ImagesDir(d.OutputDir, "1"))
	require.Equal(t, contiguous(out.Table.Len(), 2), images)

	f, err := os.Open(filepath.Join(out.Dir, MetadataFile))
	require.NoError(t, err)
	defer f.Close()
	meta, err := ReadCSV(f)
	require.NoError(t, err)
	require.Equal(t, out.Table.Len(), meta.Len())
}

func TestGenerateFailureLeavesNoMetadata(t *testing.T) {
	t.Parallel()

	d := newDriver(t, twoByTwo(t), 47, &fakeCompositor{failOn: "3.png"})

	out, err := Generate(context.Background(), Job{Driver: d, Options: Options{Edition: "1", Count: 8}})
	require.ErrorIs(t, err, errComposite)
	require.Nil(t, out)

	_, statErr := os.Stat(filepath.Join(Dir(d.OutputDir, "1"), MetadataFile))
	require.True(t, os.IsNotExist(statErr))
}

func TestGenerateRerunReplacesImages(t *testing.T) {
	t.Parallel()

	layers := twoByTwo(t)
	first := newDriver(t, layers, 53, &fakeCompositor{})
	_, err := Generate(context.Background(), Job{Driver: first, Options: Options{Edition: "1", Count: 20}})
	require.NoError(t, err)

	rec := &recorder{}
	second := newDriver(t, layers, 59, &fakeCompositor{})
	second.OutputDir = first.OutputDir
	second.UI = rec
	out, err := Generate(context.Background(), Job{Driver: second, Options: Options{Edition: "1", Count: 3}})
	require.NoError(t, err)

	// Only the second run's images remain, one per metadata row.
	images := imageFiles(t, ImagesDir(first.OutputDir, "1"))
	require.Equal(t, contiguous(out.Table.Len(), Width(3)), images)

	f, err := os.Open(filepath.Join(out.Dir, MetadataFile))
	require.NoError(t, err)
	defer f.Close()
	meta, err := ReadCSV(f)
	require.NoError(t, err)
	require.Equal(t, len(images), meta.Len())
	require.Len(t, rec.infos, 1)
	require.Contains(t, rec.infos[0], "earlier run")
}

func TestGenerateReportsTelemetryFailureOnce(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := newDriver(t, twoByTwo(t), 61, &fakeCompositor{})
	d.UI = rec

	em, err := telemetry.NewEmitter(filepath.Join(t.TempDir(), telemetry.FileName), "run-1", "1")
	require.NoError(t, err)
	require.NoError(t, em.Close())
	d.Telemetry = em

	out, err := Generate(context.Background(), Job{Driver: d, Options: Options{Edition: "1", Count: 10}})
	require.NoError(t, err)
	require.Equal(t, 10, out.Summary.Accepted)
	require.Len(t, rec.errs, 1)
	require.Contains(t, rec.errs[0], "telemetry")
}
