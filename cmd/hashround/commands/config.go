package commands

import (
	"github.com/mosaicnetworks/hashround/src/config"
)

// CLIConfig contains the configuration shared by all commands
type CLIConfig struct {
	Hashround config.Config `mapstructure:",squash"`
	LogFile   string        `mapstructure:"log-file"`
}

// NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Hashround: *config.NewDefaultConfig(),
	}
}
