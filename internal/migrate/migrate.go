// Package migrate upgrades versioned on-disk documents (the TOML config) one
// schema version at a time.
package migrate

import (
	"fmt"
	"log/slog"
	"sort"
)

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Migration upgrades a document from the previous schema version to Version.
type Migration struct {
	Version     int
	Description string
	Upgrade     func(data []byte) ([]byte, error)
}

// Registry holds the current schema version and the upgrades that reach it
// for a single document kind.
type Registry struct {
	// CurrentVersion is the schema version this build reads and writes.
	CurrentVersion int
	// Migrations is exported so tests can swap the list.
	Migrations []Migration
}

// Config is the migration registry for config.toml.
var Config = &Registry{CurrentVersion: 1}

// ///////////////////////////////////////////////
// Public API
// ///////////////////////////////////////////////

// Register adds m to the registry. It panics on a duplicate version.
func (r *Registry) Register(m Migration) {
	for _, existing := range r.Migrations {
		if existing.Version == m.Version {
			panic(fmt.Sprintf("migrate: duplicate migration version %d (description: %q)", m.Version, m.Description))
		}
	}
	r.Migrations = append(r.Migrations, m)
}

// NeedsMigration reports whether a document at fileVersion differs from the
// registry's current version.
func (r *Registry) NeedsMigration(fileVersion int) bool {
	return fileVersion != r.CurrentVersion
}

// Run upgrades data from fromVersion to the registry's current version.
// Documents newer than this build are rejected rather than downgraded.
func (r *Registry) Run(data []byte, fromVersion int) ([]byte, int, error) {
	if fromVersion > r.CurrentVersion {
		return nil, fromVersion, fmt.Errorf("schema version %d is newer than supported version %d", fromVersion, r.CurrentVersion)
	}
	return Run(data, fromVersion, r.Migrations)
}

// Run applies migrations in version order where fromVersion < m.Version.
// Returns the transformed data, the final version reached, and any error.
func Run(data []byte, fromVersion int, migrations []Migration) ([]byte, int, error) {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})
	version := fromVersion
	for _, m := range sorted {
		if version >= m.Version {
			continue
		}
		slog.Info("applying migration", "version", m.Version, "description", m.Description)
		var err error
		data, err = m.Upgrade(data)
		if err != nil {
			return nil, version, fmt.Errorf("migration to v%d failed: %w", m.Version, err)
		}
		version = m.Version
	}
	return data, version, nil
}
