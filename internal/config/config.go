package config

import (
	"github.com/spf13/viper"
)

// GetStateDir returns the default root directory for state files
func GetStateDir() string {
	return viper.GetString("state.dir")
}

// GetDefaultOutput returns the default capture output filename
func GetDefaultOutput() string {
	return viper.GetString("capture.output")
}

// GetRegistryOverrides returns configured path overrides for registry keys
func GetRegistryOverrides() map[string]string {
	return viper.GetStringMapString("registry.paths")
}
