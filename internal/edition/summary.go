package edition

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Summary is persisted as edition.toml next to the metadata.
type Summary struct {
	Edition      string    `toml:"edition"`
	RunID        string    `toml:"run_id"`
	Seed         int64     `toml:"seed"`
	Pattern      string    `toml:"pattern,omitempty"`
	Fill         bool      `toml:"fill,omitempty"`
	Requested    int       `toml:"requested"`
	Attempts     int       `toml:"attempts"`
	Accepted     int       `toml:"accepted"`
	Distinct     int       `toml:"distinct"`
	Removed      int       `toml:"removed"`
	Combinations string    `toml:"combinations"`
	Layers       []string  `toml:"layers"`
	StartedAt    time.Time `toml:"started_at"`
	FinishedAt   time.Time `toml:"finished_at"`
}

// SaveSummary writes edition.toml into dir via a temp file and rename.
func SaveSummary(dir string, s *Summary) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	path := filepath.Join(dir, SummaryFile)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp summary file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming summary file: %w", err)
	}
	return nil
}

// LoadSummary reads edition.toml from dir.
func LoadSummary(dir string) (*Summary, error) {
	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var s Summary
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return &s, nil
}
