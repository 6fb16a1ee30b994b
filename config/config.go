// Package config loads the assembler's tunable constants from a TOML
// file, falling back to the machine's defined defaults when no file
// is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/neta767/asm24/isa"
)

// Config holds the assembler's sizing constants (spec.md §6
// "Constants"). Every field has a machine-defined default; a TOML
// file only needs to set what it wants to override.
type Config struct {
	Assembler struct {
		MemoryCapacity int `toml:"memory_capacity"`
		MaxLineLength  int `toml:"max_line_length"`
		MaxNameLength  int `toml:"max_name_length"`
		ICInitial      int `toml:"ic_initial"`
	} `toml:"assembler"`
}

// DefaultConfig returns a configuration matching the machine's built-in
// constants (isa.MemoryCapacity, isa.MaxLineLength, ...).
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assembler.MemoryCapacity = isa.MemoryCapacity
	cfg.Assembler.MaxLineLength = isa.MaxLineLength
	cfg.Assembler.MaxNameLength = isa.MaxNameLength
	cfg.Assembler.ICInitial = isa.ICInitial
	return cfg
}

// GetConfigPath returns the platform-specific default config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "asm24")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "asm24.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "asm24")

	default:
		return "asm24.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "asm24.toml"
	}

	return filepath.Join(configDir, "asm24.toml")
}

// Apply overrides the isa package's sizing constants with this
// configuration's values. It affects every file assembled afterward
// in this process, so callers apply it once at startup, before the
// first assemble.Run.
func (c *Config) Apply() {
	isa.MemoryCapacity = c.Assembler.MemoryCapacity
	isa.MaxLineLength = c.Assembler.MaxLineLength
	isa.MaxNameLength = c.Assembler.MaxNameLength
	isa.ICInitial = c.Assembler.ICInitial
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given file, returning the
// machine defaults unchanged if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveTo writes cfg to the given path, creating its directory if needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user-supplied config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
