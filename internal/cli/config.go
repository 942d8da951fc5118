package cli

import "os"

// Config holds CLI configuration
type Config struct {
	DataFile string
	Verbose  bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		DataFile: os.Getenv("WATS_DATA_FILE"),
		Verbose:  false,
	}
}
