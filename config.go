// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri

const (
	// DefaultDataDir is the default directory holding dataset files.
	DefaultDataDir = "/srv/tawhiri-datasets"

	// DefaultStats sets the stats client to no-op.
	DefaultStats = "nop"
)

// StatsTypes is the set of accepted stats client names.
var StatsTypes = []string{"nop", "expvar", "prometheus"}

// Config represents the configuration for the command.
type Config struct {
	// DataDir is the directory datasets and mirror files live in.
	DataDir string `toml:"data-dir"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	// Stats selects the stats client: nop, expvar or prometheus.
	Stats string `toml:"stats"`
}

// NewConfig returns an instance of Config with default options.
func NewConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Stats:   DefaultStats,
	}
}
