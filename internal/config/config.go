// Package config provides configuration loading and defaults for pwsthumb.
//
// Configuration is an optional TOML file. It selects where the caption font
// comes from, how the font-fit search is bounded, where the PNG is written,
// and how logging behaves. The thumbnail layout itself is fixed and not
// configurable.
package config

//go:generate go run ../../cmd/genconfig

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/pwsthumb/internal/atomicfile"
	"tools.zach/dev/pwsthumb/internal/migrate"
)

// Font source identifiers for [FontConfig.Source].
const (
	SourceSystem  = "system"
	SourceFile    = "file"
	SourceGoogle  = "google"
	SourceBuiltin = "builtin"
)

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	// Version is the config schema version used for migrations.
	Version int `toml:"version"`
	// Font selects the caption font.
	Font FontConfig `toml:"font"`
	// Fit bounds the font-size search.
	Fit FitConfig `toml:"fit"`
	// Output controls where and how the PNG is written.
	Output OutputConfig `toml:"output"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// FontConfig selects exactly one font source. There is no fallback between
// sources: if the configured one fails, generation fails.
type FontConfig struct {
	// Source is one of "system", "file", "google", or "builtin".
	Source string `toml:"source"`
	// Family is the family looked up in system font directories.
	Family string `toml:"family"`
	// Style is "regular", "bold", "italic", or "bold_italic".
	Style string `toml:"style"`
	// File is the font path for source "file" (TTF, OTF, or WOFF2).
	File string `toml:"file,omitempty"`
	// Google is a "google:FAMILY:WEIGHT" spec for source "google".
	Google string `toml:"google"`
	// Dirs lists extra directories searched by source "system".
	Dirs []string `toml:"dirs"`
}

// FitConfig bounds the best-fit font-size search.
type FitConfig struct {
	// MinSize clamps the fitted size from below. 0 disables clamping and lets
	// non-positive sizes through.
	MinSize float64 `toml:"min_size"`
	// MaxSize stops the upward search.
	MaxSize float64 `toml:"max_size"`
}

// OutputConfig controls the written PNG.
type OutputConfig struct {
	// Dir is the directory the PNG is written to.
	Dir string `toml:"dir"`
	// Sanitize replaces filesystem-reserved characters in the title.
	Sanitize bool `toml:"sanitize"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File enables a rotating log file at this path.
	File string `toml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with the stock settings: Arial
// regular from the system font directories, output to the working
// directory, warnings only on stderr.
func DefaultConfig() *Config {
	return &Config{
		Version: migrate.Config.CurrentVersion,
		Font: FontConfig{
			Source: SourceSystem,
			Family: "Arial",
			Style:  "regular",
			Google: "google:Arimo:400",
			Dirs:   []string{},
		},
		Fit: FitConfig{
			MinSize: 1,
			MaxSize: 2048,
		},
		Output: OutputConfig{
			Dir:      ".",
			Sanitize: true,
		},
		Log: LogConfig{
			Level:     "warn",
			MaxSizeMB: 10,
		},
	}
}

// ExampleConfig returns a Config suitable for generating config.default.toml.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// PeekVersion
// ///////////////////////////////////////////////

// PeekVersion reads just the version field from raw TOML bytes.
// Returns 1 if the version field is missing, zero, or unparsable.
func PeekVersion(data []byte) int {
	var v struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return 1
	}
	if v.Version == 0 {
		return 1
	}
	return v.Version
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file at path.
// If the file doesn't exist, returns DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	version := PeekVersion(data)
	migrated := migrate.Config.NeedsMigration(version)
	if migrated {
		if backupErr := os.WriteFile(path+".bak", data, 0o644); backupErr != nil {
			slog.Warn("failed to write config backup", "error", backupErr)
		}
		data, _, err = migrate.Config.Run(data, version)
		if err != nil {
			return nil, fmt.Errorf("migrate config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Version = migrate.Config.CurrentVersion

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if migrated {
		if err := cfg.Save(path); err != nil {
			slog.Warn("failed to save migrated config", "error", err)
		}
	}

	return cfg, nil
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the config to disk as TOML using atomic file write.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return atomicfile.Write(path, data, 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// validStyles is the set of accepted font.style strings.
var validStyles = map[string]bool{
	"regular": true, "bold": true, "italic": true, "bold_italic": true,
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	switch c.Font.Source {
	case SourceSystem:
		if strings.TrimSpace(c.Font.Family) == "" {
			return fmt.Errorf("font.family must be set for source %q", SourceSystem)
		}
	case SourceFile:
		if c.Font.File == "" {
			return fmt.Errorf("font.file must be set for source %q", SourceFile)
		}
	case SourceGoogle:
		if parts := strings.Split(c.Font.Google, ":"); len(parts) != 3 || parts[0] != "google" || parts[1] == "" || parts[2] == "" {
			return fmt.Errorf("invalid font.google %q: expected google:FAMILY:WEIGHT", c.Font.Google)
		}
	case SourceBuiltin:
	default:
		return fmt.Errorf("invalid font.source %q: must be system, file, google, or builtin", c.Font.Source)
	}

	if !validStyles[strings.ToLower(c.Font.Style)] {
		return fmt.Errorf("invalid font.style %q: must be regular, bold, italic, or bold_italic", c.Font.Style)
	}

	if c.Fit.MinSize < 0 {
		return fmt.Errorf("fit.min_size must be >= 0, got %g", c.Fit.MinSize)
	}
	if c.Fit.MaxSize <= c.Fit.MinSize || c.Fit.MaxSize <= 0 {
		return fmt.Errorf("fit.max_size must be > 0 and > fit.min_size, got %g", c.Fit.MaxSize)
	}

	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir must not be empty")
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be > 0, got %d", c.Log.MaxSizeMB)
	}

	return nil
}
