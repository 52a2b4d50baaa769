package edition

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// RarityTable records the chosen trait of every layer for each artifact.
// Row i describes artifact i.
type RarityTable struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with one column per layer name.
func NewTable(columns []string) *RarityTable {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &RarityTable{Columns: cols}
}

// Append adds a row. It must have one cell per column.
func (t *RarityTable) Append(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("rarity table: row has %d cell(s), want %d", len(row), len(t.Columns))
	}
	cp := make([]string, len(row))
	copy(cp, row)
	t.Rows = append(t.Rows, cp)
	return nil
}

// Len returns the number of rows.
func (t *RarityTable) Len() int {
	return len(t.Rows)
}

// Record returns row i keyed by column name.
func (t *RarityTable) Record(i int) map[string]string {
	m := make(map[string]string, len(t.Columns))
	for c, name := range t.Columns {
		m[name] = t.Rows[i][c]
	}
	return m
}

// Column returns every cell of the named column in row order.
func (t *RarityTable) Column(name string) []string {
	for c, col := range t.Columns {
		if col != name {
			continue
		}
		out := make([]string, len(t.Rows))
		for i, r := range t.Rows {
			out[i] = r[c]
		}
		return out
	}
	return nil
}

// WriteCSV writes the table with a leading, unnamed index column.
func (t *RarityTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{""}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing metadata header: %w", err)
	}
	for i, r := range t.Rows {
		rec := append([]string{strconv.Itoa(i)}, r...)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing metadata row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to path, replacing any existing file atomically.
func (t *RarityTable) SaveCSV(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating metadata file: %w", err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing metadata file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming metadata file: %w", err)
	}
	return nil
}

// ReadCSV parses a table previously written by WriteCSV.
func ReadCSV(r io.Reader) (*RarityTable, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading metadata: missing header")
	}
	t := NewTable(records[0][1:])
	for _, rec := range records[1:] {
		if err := t.Append(rec[1:]); err != nil {
			return nil, err
		}
	}
	return t, nil
}
