// Package paths centralizes file and directory names used across the project.
// Config, cache and log locations are defined here as the single source of truth.
package paths

import (
	"os"
	"path/filepath"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// File and directory names.
const (
	BinaryName   = "pwsthumb"
	AppDirName   = "pwsthumb"
	ConfigFile   = "config.toml"
	FontCacheDir = "fonts"
	FallbackRel  = ".pwsthumb" // relative to the working directory
)

// ///////////////////////////////////////////////
// Dirs
// ///////////////////////////////////////////////

// Dirs provides path construction rooted at the config and cache directories.
type Dirs struct {
	ConfigRoot string
	CacheRoot  string
}

// Default returns the platform default directories: the OS user config and
// cache directories joined with [AppDirName]. Either falls back to
// ./.pwsthumb when the OS directory cannot be determined.
func Default() Dirs {
	d := Dirs{
		ConfigRoot: filepath.Join(".", FallbackRel),
		CacheRoot:  filepath.Join(".", FallbackRel),
	}
	if dir, err := os.UserConfigDir(); err == nil {
		d.ConfigRoot = filepath.Join(dir, AppDirName)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		d.CacheRoot = filepath.Join(dir, AppDirName)
	}
	return d
}

// Config returns the full path to the config file.
func (d Dirs) Config() string { return filepath.Join(d.ConfigRoot, ConfigFile) }

// ResolveLog returns the log file path for a configured log.file value.
// Relative names are placed under the cache root; empty stays empty.
func (d Dirs) ResolveLog(file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(d.CacheRoot, file)
}

// FontCache returns the directory downloaded fonts are cached in.
func (d Dirs) FontCache() string { return filepath.Join(d.CacheRoot, FontCacheDir) }
