package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/strata/internal/layer"
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Layered artwork edition generator",
	Long: `Strata composes unique images from stacked trait layers.

Layers are declared in a TOML file; each layer is a directory of PNG traits.
Traits are drawn by rarity weight, linked layers follow their partners, and
every edition ships with a metadata table of the traits each image carries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if code := exitCode(rootCmd.Execute(), os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// exitCode prints err to w and returns the process exit status. Validation
// problems are not printed again; the printer has already listed them.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	var problems layer.Problems
	if !errors.As(err, &problems) {
		fmt.Fprintln(w, "Error:", err)
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .strata.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("assets", "", "assets directory (default assets)")
	rootCmd.PersistentFlags().String("output", "", "output directory (default output)")
	rootCmd.PersistentFlags().String("layers", "", "layer configuration file (default layers.toml)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("assets_dir", rootCmd.PersistentFlags().Lookup("assets"))
	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("layers_file", rootCmd.PersistentFlags().Lookup("layers"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".strata")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("STRATA")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
