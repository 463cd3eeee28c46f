package thumbnail

import (
	"fmt"
	"image"
	"strings"
	"unicode"
)

// Fixed layout. None of this is configurable.
const (
	CanvasSize     = 512
	CircleDiameter = 510
	Padding        = 50
	SeedSize       = 20.0

	BackgroundHex = "#000000"
	AccentHex     = "#00A2E8"
	TextHex       = "#000000"

	captionFormat  = "Programming with Shadow Episode %d %s"
	filenameFormat = "ProgrammingWithShadowEp%d%s.png"
)

// CircleRect is the circle's bounding box, centered with a 1px margin.
func CircleRect() image.Rectangle {
	off := (CanvasSize - CircleDiameter) / 2
	return image.Rect(off, off, off+CircleDiameter, off+CircleDiameter)
}

// PaddedRect is CircleRect inset by Padding on every side. The caption
// font is sized against it.
func PaddedRect() image.Rectangle {
	return CircleRect().Inset(Padding)
}

// Caption builds the text drawn in the circle.
func Caption(episode int, title string) string {
	return fmt.Sprintf(captionFormat, episode, title)
}

// Filename derives the output file name. With sanitize, filesystem-reserved
// characters in title are replaced first.
func Filename(episode int, title string, sanitize bool) string {
	if sanitize {
		title = SanitizeTitle(title)
	}
	return fmt.Sprintf(filenameFormat, episode, title)
}

// SanitizeTitle replaces characters that are reserved on common
// filesystems, and control characters, with '_'.
func SanitizeTitle(title string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, title)
}
