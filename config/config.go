package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the configuration file looked up in the working
// directory and then in the home directory.
const FileName = ".filedate.json"

// Config is the root configuration structure.
type Config struct {
	Walk     WalkConfig     `json:"walk"`
	Dispatch DispatchConfig `json:"dispatch"`
	Filters  FilterConfig   `json:"filters"`
	Output   OutputConfig   `json:"output"`
}

// WalkConfig holds revision walk options.
type WalkConfig struct {
	Sort            string `json:"sort"`            // "time" or "topo". Default: "time"
	FirstParent     bool   `json:"firstParent"`     // Default: false
	DefaultRevision string `json:"defaultRevision"` // Default: "HEAD"
}

// DispatchConfig holds execution dispatcher options.
type DispatchConfig struct {
	Workers int  `json:"workers"` // <= 0 means runtime.NumCPU()
	Async   bool `json:"async"`   // resolve through deferred calls
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// OutputConfig holds report rendering options.
type OutputConfig struct {
	Format     string `json:"format"`     // Default: "console"
	DateLayout string `json:"dateLayout"` // Go time layout. Default: RFC 3339
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Walk: WalkConfig{
			Sort:            "time",
			FirstParent:     false,
			DefaultRevision: "HEAD",
		},
		Dispatch: DispatchConfig{
			Workers: 0,
			Async:   false,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Output: OutputConfig{
			Format:     "console",
			DateLayout: "2006-01-02T15:04:05Z07:00",
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
