package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/capsule/internal/config"
	"github.com/pders01/capsule/internal/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "capsule",
	Short: "Snapshot and restore agent runtime state files",
	Long: `capsule snapshots a fixed registry of JSON state files into a single
checksummed artifact that can be inspected and reapplied later:
  - capture reads every present state file into one artifact
  - inspect validates an artifact and summarizes its contents
  - apply rewrites the state files from a validated artifact

The artifact's checksum is a SHA-256 digest over the canonicalized state
block, so any corruption or tampering of the payload is detected before
a single file is restored.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/capsule/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "capsule")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("state.dir", ".")
	viper.SetDefault("capture.output", "capsule.json")
	viper.SetDefault("registry.paths", map[string]string{})

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadRegistry builds the effective registry: built-in defaults merged
// with any configured path overrides.
func loadRegistry() (registry.Registry, error) {
	reg, err := registry.WithOverrides(registry.Default(), config.GetRegistryOverrides())
	if err != nil {
		return nil, fmt.Errorf("invalid registry configuration: %w", err)
	}
	return reg, nil
}
