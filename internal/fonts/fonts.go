// Package fonts resolves the caption font from its configured source and
// turns it into sized faces.
//
// Exactly one source is consulted per run: system font directories, a font
// file, a Google Fonts download, or the bundled Go fonts. A source that
// cannot produce a font is an error; nothing falls back to another source.
package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	tdfont "github.com/tdewolff/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// DPI is the resolution faces are created at. Point sizes measure the same
// as on a 96-DPI bitmap.
const DPI = 96

var (
	// ErrFontNotFound is returned when a source has no font for the
	// requested family and style.
	ErrFontNotFound = errors.New("font not found")
	// ErrInvalidSize is returned by [Family.Face] for non-positive sizes.
	ErrInvalidSize = errors.New("font size must be positive")
)

// ///////////////////////////////////////////////
// Style
// ///////////////////////////////////////////////

// Style is a font style within a family.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

var styleNames = [...]string{"regular", "bold", "italic", "bold_italic"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// ParseStyle parses a style name. Case, spaces, and hyphens are ignored,
// so "Bold Italic" and "bold-italic" both yield [BoldItalic].
func ParseStyle(s string) (Style, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for i, name := range styleNames {
		if norm == name {
			return Style(i), nil
		}
	}
	return Regular, fmt.Errorf("unknown font style %q", s)
}

// ///////////////////////////////////////////////
// Family
// ///////////////////////////////////////////////

// Family is a parsed font at a fixed style. Only the size varies between
// faces created from it.
type Family struct {
	Name   string
	Style  Style
	Origin string // file path, URL spec, or "builtin"

	font *opentype.Font
}

// Parse builds a Family from raw font bytes. WOFF2 data is converted to
// SFNT first.
func Parse(name string, style Style, origin string, data []byte) (*Family, error) {
	if IsWOFF2(origin, data) {
		sfnt, err := tdfont.ToSFNT(data)
		if err != nil {
			return nil, fmt.Errorf("converting WOFF2 to SFNT: %w", err)
		}
		data = sfnt
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", origin, err)
	}
	return &Family{Name: name, Style: style, Origin: origin, font: f}, nil
}

// Face returns a face at size points. The caller closes it.
func (f *Family) Face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSize, size)
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// IsWOFF2 checks whether font data is WOFF2 by name extension or magic bytes.
func IsWOFF2(name string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(name), ".woff2") {
		return true
	}
	return bytes.HasPrefix(data, []byte("wOF2"))
}
