// Package thumbnail composes the episode thumbnail: a black square, a
// filled accent circle, and the caption sized to fit inside it.
package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"tools.zach/dev/pwsthumb/internal/atomicfile"
	"tools.zach/dev/pwsthumb/internal/fit"
	"tools.zach/dev/pwsthumb/internal/fonts"
)

var (
	background = mustHex(BackgroundHex)
	accent     = mustHex(AccentHex)
	textColor  = mustHex(TextHex)
)

// ///////////////////////////////////////////////
// Rendering
// ///////////////////////////////////////////////

// Renderer draws thumbnails with one font family.
type Renderer struct {
	Family *fonts.Family
	// MinSize and MaxSize bound the fit search. See [fit.Fitter].
	MinSize float64
	MaxSize float64
}

func (r *Renderer) fitter() *fit.Fitter {
	return &fit.Fitter{
		Measurer: &Measurer{Family: r.Family},
		MinSize:  r.MinSize,
		MaxSize:  r.MaxSize,
	}
}

// compose draws caption onto a fresh canvas and returns the context and the
// fitted font.
func (r *Renderer) compose(caption string) (*gg.Context, fit.Spec, error) {
	dc := gg.NewContext(CanvasSize, CanvasSize)
	dc.SetColor(background)
	dc.Clear()

	circle := CircleRect()
	padded := PaddedRect()
	cx := float64(circle.Min.X+circle.Max.X) / 2
	cy := float64(circle.Min.Y+circle.Max.Y) / 2

	dc.DrawEllipse(cx, cy, float64(circle.Dx())/2, float64(circle.Dy())/2)
	dc.SetColor(accent)
	dc.Fill()

	start := fit.Spec{Family: r.Family.Name, Style: r.Family.Style, Size: SeedSize}
	box := fit.Size{W: float64(padded.Dx()), H: float64(padded.Dy())}
	spec, err := r.fitter().BestFit(caption, start, box)
	if err != nil {
		return nil, spec, fmt.Errorf("fit caption: %w", err)
	}

	face, err := r.Family.Face(spec.Size)
	if errors.Is(err, fonts.ErrInvalidSize) {
		slog.Warn("skipping caption with degenerate font size", "size", spec.Size)
		return dc, spec, nil
	}
	if err != nil {
		return nil, spec, err
	}
	defer face.Close()

	// Fitting used the padded box; drawing uses the full circle box.
	dc.DrawRectangle(float64(circle.Min.X), float64(circle.Min.Y), float64(circle.Dx()), float64(circle.Dy()))
	dc.Clip()
	dc.SetFontFace(face)
	dc.SetColor(textColor)
	drawLines(dc, wrap(dc, caption, float64(circle.Dx())), cx, cy)
	dc.ResetClip()

	return dc, spec, nil
}

// Render returns the thumbnail image for caption and the font it was
// drawn with.
func (r *Renderer) Render(caption string) (image.Image, fit.Spec, error) {
	dc, spec, err := r.compose(caption)
	if err != nil {
		return nil, spec, err
	}
	return dc.Image(), spec, nil
}

// ///////////////////////////////////////////////
// Generator
// ///////////////////////////////////////////////

// Generator renders a thumbnail and writes it as PNG.
type Generator struct {
	Renderer
	// OutputDir receives the PNG. Empty means the working directory.
	OutputDir string
	// Sanitize replaces reserved characters in the title for the file name.
	Sanitize bool
}

// Generate renders the thumbnail for episode and title and returns the
// path written.
func (g *Generator) Generate(episode int, title string) (string, error) {
	caption := Caption(episode, title)
	dc, spec, err := g.compose(caption)
	if err != nil {
		return "", err
	}

	dir := g.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, Filename(episode, title, g.Sanitize))
	if err := atomicfile.WriteFunc(path, 0o644, dc.EncodePNG); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}

	slog.Info("thumbnail written", "path", path, "font", spec.String())
	return path, nil
}
