package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirTraits(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"b.png", "A.png", "c.png", ".DS_Store", "a.png"} {
		touch(t, filepath.Join(root, "eyes", name))
	}
	if err := os.Mkdir(filepath.Join(root, "eyes", "drafts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	d := NewDir(root)

	t.Run("sorted and filtered", func(t *testing.T) {
		t.Parallel()
		got, err := d.Traits("eyes")
		if err != nil {
			t.Fatalf("Traits: %v", err)
		}
		want := []string{"A.png", "a.png", "b.png", "c.png"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Traits mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		got, err := d.Traits("empty")
		if err != nil {
			t.Fatalf("Traits: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Traits = %v, want none", got)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		if _, err := d.Traits("mouth"); !errors.Is(err, ErrNoDirectory) {
			t.Errorf("err = %v, want ErrNoDirectory", err)
		}
	})
}

func TestSortFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"case insensitive", []string{"b", "C", "a"}, []string{"a", "b", "C"}},
		{"fold ties by bytes", []string{"x", "X"}, []string{"X", "x"}},
		{"already sorted", []string{"a", "b"}, []string{"a", "b"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := append([]string(nil), tt.in...)
			SortFold(got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SortFold mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	t.Parallel()

	s := Static{"hat": {"top.png", ".hidden", "Cap.png"}}

	got, err := s.Traits("hat")
	if err != nil {
		t.Fatalf("Traits: %v", err)
	}
	if diff := cmp.Diff([]string{"Cap.png", "top.png"}, got); diff != "" {
		t.Errorf("Traits mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Traits("shoes"); !errors.Is(err, ErrNoDirectory) {
		t.Errorf("err = %v, want ErrNoDirectory", err)
	}
}
