package edition

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSummaryRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	started := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	s := &Summary{
		Edition:      "7",
		RunID:        "3f0c2b4e-0000-4000-8000-000000000001",
		Seed:         -42,
		Pattern:      "^gold",
		Fill:         true,
		Requested:    10,
		Attempts:     57,
		Accepted:     10,
		Distinct:     9,
		Removed:      1,
		Combinations: "340282366920938463463374607431768211456",
		Layers:       []string{"Background", "Body"},
		StartedAt:    started,
		FinishedAt:   started.Add(3 * time.Second),
	}

	if err := SaveSummary(dir, s); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	got, err := LoadSummary(dir)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSummaryMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadSummary(t.TempDir()); err == nil {
		t.Error("LoadSummary of empty dir: want error")
	}
}
