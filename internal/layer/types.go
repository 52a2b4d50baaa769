// Package layer turns raw layer definitions into validated, immutable layer
// specifications with normalized rarity distributions.
package layer

// Sentinel is the trait label standing for "no trait" on an optional layer.
const Sentinel = ""

// WeightsRandom is the rarity_weights value that requests random weights.
const WeightsRandom = "random"

// File is the parsed layers.toml document.
type File struct {
	Layers []Def `toml:"layer"`
}

// Def is one [[layer]] table as written by the config author.
type Def struct {
	ID        int    `toml:"id"`
	Name      string `toml:"name"`
	Linked    string `toml:"linked"`
	Directory string `toml:"directory"`
	Required  bool   `toml:"required"`
	// RarityWeights is absent (nil), the string "random", or a numeric array.
	RarityWeights any `toml:"rarity_weights"`
}

// Layer is a validated layer specification. Values are never modified after
// Validate returns them.
type Layer struct {
	ID        int
	Name      string
	LinkedTo  string
	Directory string
	Required  bool

	// Traits holds trait file names sorted case-insensitively. Optional
	// layers carry Sentinel at index 0.
	Traits []string

	Weights       []float64
	Probabilities []float64
	Cumulative    []float64
}

// Linked reports whether the layer derives its trait from another layer.
func (l Layer) Linked() bool {
	return l.LinkedTo != ""
}
