package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// fontGlob matches every font file the system source can load.
const fontGlob = "**/*.{ttf,otf,TTF,OTF,Ttf,Otf}"

// shortNames maps families whose files use abbreviated names to the stem
// used for each style.
var shortNames = map[string][4]string{
	"arial":           {"arial", "arialbd", "ariali", "arialbi"},
	"times new roman": {"times", "timesbd", "timesi", "timesbi"},
	"courier new":     {"cour", "courbd", "couri", "courbi"},
	"verdana":         {"verdana", "verdanab", "verdanai", "verdanaz"},
	"tahoma":          {"tahoma", "tahomabd", "", ""},
	"georgia":         {"georgia", "georgiab", "georgiai", "georgiaz"},
}

// styleSuffixes lists the normalized suffixes tried after the family stem.
var styleSuffixes = [...][]string{
	Regular:    {"", "regular", "roman", "book"},
	Bold:       {"bold", "bd"},
	Italic:     {"italic", "oblique", "it"},
	BoldItalic: {"bolditalic", "boldoblique", "bi"},
}

// normalizeKey lowercases a file stem or family name and removes spaces,
// hyphens, and underscores, so "Arial-Bold" and "arial_bold" compare equal.
func normalizeKey(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// candidates returns the normalized file stems for family and style, most
// specific first.
func candidates(family string, style Style) []string {
	var out []string
	if short, ok := shortNames[strings.ToLower(strings.TrimSpace(family))]; ok && short[style] != "" {
		out = append(out, short[style])
	}
	stem := normalizeKey(family)
	for _, suffix := range styleSuffixes[style] {
		out = append(out, stem+suffix)
	}
	return out
}

// indexFonts walks dirs and maps each normalized file stem to the first
// path seen with it. Missing or unreadable directories are skipped.
func indexFonts(dirs []string) map[string]string {
	index := make(map[string]string)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		err := doublestar.GlobWalk(os.DirFS(dir), fontGlob, func(p string, d fs.DirEntry) error {
			if d.IsDir() {
				return nil
			}
			base := path.Base(p)
			key := normalizeKey(strings.TrimSuffix(base, path.Ext(base)))
			if _, seen := index[key]; !seen {
				index[key] = filepath.Join(dir, filepath.FromSlash(p))
			}
			return nil
		})
		if err != nil {
			slog.Debug("font directory walk failed", "dir", dir, "error", err)
		}
	}
	return index
}

// FindSystem locates family/style in extra followed by the OS font
// directories and returns the file path.
func FindSystem(family string, style Style, extra []string) (string, error) {
	dirs := append(append([]string{}, extra...), systemFontDirs()...)
	index := indexFonts(dirs)
	for _, key := range candidates(family, style) {
		if p, ok := index[key]; ok {
			slog.Debug("system font matched", "family", family, "style", style, "path", p)
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s %s in %d directories", ErrFontNotFound, family, style, len(dirs))
}

// LoadSystem finds and parses family/style from the font directories.
func LoadSystem(family string, style Style, extra []string) (*Family, error) {
	p, err := FindSystem(family, style, extra)
	if err != nil {
		return nil, err
	}
	return LoadFile(family, style, p)
}

// LoadFile parses the font at p (TTF, OTF, or WOFF2).
func LoadFile(family string, style Style, p string) (*Family, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFontNotFound, p)
		}
		return nil, fmt.Errorf("read font: %w", err)
	}
	if family == "" {
		base := filepath.Base(p)
		family = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return Parse(family, style, p, data)
}
