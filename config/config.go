package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the compiler and editor configuration.
type Config struct {
	// Compiler settings
	Compiler struct {
		WarnLevel   int  `toml:"warn_level"`
		WarnAsError bool `toml:"warn_as_error"`
		Strict      bool `toml:"strict"`
		NoInline    bool `toml:"no_inline"`
	} `toml:"compiler"`

	// REPL settings
	REPL struct {
		HistorySize  int    `toml:"history_size"`
		AutoSave     bool   `toml:"auto_save"`
		ShowSource   bool   `toml:"show_source"`
		DefaultStep  int    `toml:"default_auto_step"`
		IndentWidth  int    `toml:"indent_width"`
	} `toml:"repl"`

	// Display settings
	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		LineWidth    int    `toml:"line_width"`
		NumberFormat string `toml:"number_format"` // int, float, auto
	} `toml:"display"`

	// Diagnostics settings
	Diagnostics struct {
		OutputFile    string `toml:"output_file"`
		ShowContext   bool   `toml:"show_context"`
		MaxPerLine    int    `toml:"max_per_line"`
		SummaryFooter bool   `toml:"summary_footer"`
	} `toml:"diagnostics"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Compiler.WarnLevel = 4
	cfg.Compiler.WarnAsError = false
	cfg.Compiler.Strict = false
	cfg.Compiler.NoInline = false

	cfg.REPL.HistorySize = 500
	cfg.REPL.AutoSave = true
	cfg.REPL.ShowSource = true
	cfg.REPL.DefaultStep = 10
	cfg.REPL.IndentWidth = 2

	cfg.Display.ColorOutput = true
	cfg.Display.LineWidth = 80
	cfg.Display.NumberFormat = "auto"

	cfg.Diagnostics.OutputFile = ""
	cfg.Diagnostics.ShowContext = true
	cfg.Diagnostics.MaxPerLine = 1
	cfg.Diagnostics.SummaryFooter = true

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
		configDir = filepath.Join(configDir, "comal")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "comal")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "comal", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "comal", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
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
