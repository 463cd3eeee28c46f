package config

// FieldDoc holds documentation and alternative examples for a single config field.
// The genconfig tool uses [FieldDoc] values to annotate the generated config.default.toml.
type FieldDoc struct {
	// Comment is shown as a header comment above the field in the example config.
	Comment string

	// Alternatives are shown as commented-out lines below the active value.
	Alternatives []string
}

// ConfigDocs maps TOML field paths (dot-separated, e.g. "font.source") to
// their [FieldDoc] entries.
var ConfigDocs = map[string]FieldDoc{
	"version": {
		Comment: "Config schema version. Do not edit.",
	},

	// ── Font ─────────────────────────────────────────────────────
	"font": {
		Comment: "Caption font. Exactly one source is used; there is no fallback.",
	},
	"font.source": {
		Comment: "Where the font comes from:\n  system  - search OS font directories for family/style\n  file    - load font.file\n  google  - download font.google from Google Fonts (cached)\n  builtin - the Go fonts bundled with the binary",
		Alternatives: []string{
			`source = "builtin"`,
		},
	},
	"font.family": {
		Comment: "Family searched for by source \"system\".",
	},
	"font.style": {
		Comment: "Options: \"regular\", \"bold\", \"italic\", \"bold_italic\"",
	},
	"font.file": {
		Comment: "Font file for source \"file\" (TTF, OTF, or WOFF2).",
		Alternatives: []string{
			`file = "/usr/share/fonts/truetype/msttcorefonts/Arial.ttf"`,
		},
	},
	"font.google": {
		Comment: "Google Fonts spec for source \"google\". Arimo is metric-compatible with Arial.",
	},
	"font.dirs": {
		Comment: "Extra directories searched by source \"system\".",
		Alternatives: []string{
			`dirs = ["/opt/fonts"]`,
		},
	},

	// ── Fit ──────────────────────────────────────────────────────
	"fit": {
		Comment: "Bounds for the best-fit font size search.",
	},
	"fit.min_size": {
		Comment: "Smallest size returned when even the starting size overflows.\nSet to 0 to return the raw (possibly zero or negative) size.",
	},
	"fit.max_size": {
		Comment: "Upper bound for the search.",
	},

	// ── Output ───────────────────────────────────────────────────
	"output": {
		Comment: "Where the thumbnail is written.",
	},
	"output.dir": {
		Comment: "Directory the PNG is written to.",
	},
	"output.sanitize": {
		Comment: "Replace characters that are invalid in file names (<>:\"/\\|?* and control\ncharacters) in the title with '_' when building the file name.",
	},

	// ── Log ──────────────────────────────────────────────────────
	"log": {
		Comment: "Logging configuration",
	},
	"log.level": {
		Comment: "Minimum log level. Options: \"trace\", \"debug\", \"info\", \"warn\", \"error\"",
		Alternatives: []string{
			`level = "debug"`,
		},
	},
	"log.file": {
		Comment: "Also write logs to this rotating file.",
		Alternatives: []string{
			`file = "pwsthumb.log"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Maximum log file size in megabytes before rotation.",
	},
}
