// Package pwsthumb provides embedded assets for the pwsthumb command.
//
// The root package exists solely to embed [config.default.toml] via
// [DefaultConfigTOML], which `pwsthumb config init` writes to the config
// path.
package pwsthumb

import _ "embed"

// DefaultConfigTOML holds the raw bytes of config.default.toml, embedded at
// build time.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
