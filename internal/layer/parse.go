package layer

import (
	"bytes"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Load reads and decodes a layers.toml file. It does not validate the result.
func Load(path string) ([]Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoLayersFile, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes layers.toml content. Unknown keys are rejected so that a
// misspelled field does not silently fall back to its default.
func Parse(data []byte) ([]Def, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: parsing layers file: %v", ErrConfig, err)
	}
	return f.Layers, nil
}
