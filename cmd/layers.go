package cmd

import (
	"math/rand/v2"
	"time"

	"github.com/papapumpkin/strata/internal/assets"
	"github.com/papapumpkin/strata/internal/config"
	"github.com/papapumpkin/strata/internal/layer"
)

// resolveSeed returns seed, or a clock-derived seed when it is zero.
func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// newRand returns the run's single random source.
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// loadLayers parses and validates the configured layer file. rng is only
// consumed by layers declaring rarity_weights = "random".
func loadLayers(cfg config.Config, rng layer.Float64Source) ([]layer.Layer, error) {
	defs, err := layer.Load(cfg.LayersFile)
	if err != nil {
		return nil, err
	}
	return layer.Validate(defs, assets.NewDir(cfg.AssetsDir), rng)
}
