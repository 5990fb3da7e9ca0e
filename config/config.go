package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the simulator configuration
type Config struct {
	// Execution settings
	Execution struct {
		MaxSteps    uint64 `toml:"max_steps"`
		StackSize   uint   `toml:"stack_size"`
		EnableTrace bool   `toml:"enable_trace"`
		EnableStats bool   `toml:"enable_stats"`
	} `toml:"execution"`

	// Display settings
	Display struct {
		ColorOutput    bool   `toml:"color_output"`
		NumberFormat   string `toml:"number_format"`   // hex, dec, bin
		HighlightStyle string `toml:"highlight_style"` // changed, read, both
	} `toml:"display"`

	// Assembler settings
	Assembler struct {
		WarnUnusedLabels bool `toml:"warn_unused_labels"`
	} `toml:"assembler"`

	// Trace settings
	Trace struct {
		OutputFile string `toml:"output_file"`
	} `toml:"trace"`

	// Statistics settings
	Statistics struct {
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // json, csv, text
	} `toml:"statistics"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Execution defaults
	cfg.Execution.MaxSteps = 1000000
	cfg.Execution.StackSize = 4096 // 4KB
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableStats = false

	// Display defaults
	cfg.Display.ColorOutput = true
	cfg.Display.NumberFormat = "hex"
	cfg.Display.HighlightStyle = "both"

	// Assembler defaults
	cfg.Assembler.WarnUnusedLabels = false

	// Trace defaults
	cfg.Trace.OutputFile = "trace.log"

	// Statistics defaults
	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"

	return cfg
}

// appDir resolves the per-user directory for this program's files:
// %APPDATA%\rizzv on Windows, ~/<unixParent>/rizzv elsewhere. The
// unixParent argument is what distinguishes config (".config") from
// data such as logs (".local/share"); Windows keeps both under the
// same roaming directory. Returns false when the platform offers no
// usable per-user location.
func appDir(unixParent string) (string, bool) {
	if runtime.GOOS == "windows" {
		root := os.Getenv("APPDATA")
		if root == "" {
			profile := os.Getenv("USERPROFILE")
			if profile == "" {
				return "", false
			}
			root = filepath.Join(profile, "AppData", "Roaming")
		}
		return filepath.Join(root, "rizzv"), true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, unixParent, "rizzv"), true
}

// GetConfigPath returns where the config file lives. When no per-user
// directory can be resolved or created, the working directory serves
// as the fallback so the simulator still runs.
func GetConfigPath() string {
	dir, ok := appDir(".config")
	if !ok || os.MkdirAll(dir, 0750) != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the directory trace and debug output default to,
// with the same working-directory fallback as GetConfigPath.
func GetLogPath() string {
	dir, ok := appDir(filepath.Join(".local", "share"))
	if !ok {
		return "logs"
	}
	dir = filepath.Join(dir, "logs")
	if os.MkdirAll(dir, 0750) != nil {
		return "logs"
	}
	return dir
}

// Load reads the user's config file, or returns the defaults when
// none exists yet.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom decodes a config file over the defaults, so a partial file
// only overrides the keys it names. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the user's config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo encodes the configuration to TOML in memory first, so a
// failed encode never leaves a truncated file behind.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
