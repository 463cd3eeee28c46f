package thumbnail

import (
	"github.com/fogleman/gg"
	"tools.zach/dev/pwsthumb/internal/fit"
	"tools.zach/dev/pwsthumb/internal/fonts"
)

// Measurer measures word-wrapped text with gg's layout. Every probe creates
// and closes its own face.
type Measurer struct {
	Family *fonts.Family
}

// Measure wraps text to wrapWidth at spec.Size and returns the widest line
// by the total line height. Empty text counts as one empty line.
func (m *Measurer) Measure(text string, spec fit.Spec, wrapWidth float64) (fit.Size, error) {
	face, err := m.Family.Face(spec.Size)
	if err != nil {
		return fit.Size{}, err
	}
	defer face.Close()

	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)

	lines := wrap(dc, text, wrapWidth)
	var w float64
	for _, line := range lines {
		if lw, _ := dc.MeasureString(line); lw > w {
			w = lw
		}
	}
	return fit.Size{W: w, H: float64(len(lines)) * dc.FontHeight()}, nil
}

// wrap word-wraps text to width with the context's current face. Lines
// still wider than width, which hold a single word, are broken between
// runes. A lone rune wider than width stays on its own line. Empty text
// yields one empty line.
func wrap(dc *gg.Context, text string, width float64) []string {
	var out []string
	for _, line := range dc.WordWrap(text, width) {
		if w, _ := dc.MeasureString(line); w <= width {
			out = append(out, line)
			continue
		}
		out = append(out, breakRunes(dc, line, width)...)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// breakRunes splits s greedily into chunks no wider than width.
func breakRunes(dc *gg.Context, s string, width float64) []string {
	var chunks []string
	cur := []rune{}
	for _, r := range s {
		next := append(cur, r)
		if w, _ := dc.MeasureString(string(next)); w > width && len(cur) > 0 {
			chunks = append(chunks, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		chunks = append(chunks, string(cur))
	}
	return chunks
}

// drawLines draws lines as a block centered on (cx, cy), each line centered
// horizontally, one font height apart.
func drawLines(dc *gg.Context, lines []string, cx, cy float64) {
	fh := dc.FontHeight()
	y := cy - float64(len(lines))*fh/2
	for _, line := range lines {
		dc.DrawStringAnchored(line, cx, y, 0.5, 1)
		y += fh
	}
}
