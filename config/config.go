package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the assembler's user-configurable settings.
type Config struct {
	// Assembly settings
	Assembly struct {
		MemoryModel      string `toml:"memory_model"` // "SIC" or "XE"
		MissingEndFatal  bool   `toml:"missing_end_fatal"`
		SemicolonComment bool   `toml:"semicolon_comment"`
	} `toml:"assembly"`

	// Listing settings
	Listing struct {
		ShowIntermediate bool `toml:"show_intermediate"`
		OpcodeColumn     int  `toml:"opcode_column"`
		OperandColumn    int  `toml:"operand_column"`
		ShowSymbolTable  bool `toml:"show_symbol_table"`
	} `toml:"listing"`

	// Display settings
	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		BytesPerLine int    `toml:"bytes_per_line"`
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"display"`

	// Viewer settings
	Viewer struct {
		ShowSource  bool `toml:"show_source"`
		ShowSymbols bool `toml:"show_symbols"`
		ShowObject  bool `toml:"show_object"`
		ShowMemory  bool `toml:"show_memory"`
	} `toml:"viewer"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembly.MemoryModel = "XE"
	cfg.Assembly.MissingEndFatal = false
	cfg.Assembly.SemicolonComment = true

	cfg.Listing.ShowIntermediate = false
	cfg.Listing.OpcodeColumn = 10
	cfg.Listing.OperandColumn = 18
	cfg.Listing.ShowSymbolTable = true

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.NumberFormat = "hex"

	cfg.Viewer.ShowSource = true
	cfg.Viewer.ShowSymbols = true
	cfg.Viewer.ShowObject = true
	cfg.Viewer.ShowMemory = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "sicxe")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "sicxe")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, returning
// defaults untouched if the file does not exist.
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

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
