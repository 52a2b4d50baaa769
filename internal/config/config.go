package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a strata invocation.
// Values are populated from .strata.yaml, STRATA_* env vars, and CLI flags.
type Config struct {
	AssetsDir  string `mapstructure:"assets_dir"`
	OutputDir  string `mapstructure:"output_dir"`
	LayersFile string `mapstructure:"layers_file"`
	Seed       int64  `mapstructure:"seed"` // 0 = derive from the clock
	Workers    int    `mapstructure:"workers"`
	Telemetry  bool   `mapstructure:"telemetry"`
	Archive    bool   `mapstructure:"archive"`
	Verbose    bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("assets_dir", "assets")
	viper.SetDefault("output_dir", "output")
	viper.SetDefault("layers_file", "layers.toml")
	viper.SetDefault("seed", 0)
	viper.SetDefault("workers", 1)
	viper.SetDefault("telemetry", true)
	viper.SetDefault("archive", true)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
