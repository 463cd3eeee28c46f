// Package fit finds the largest font size at which a caption still fits a
// box when word-wrapped to the box width.
//
// The search is linear: starting from a seed size it steps up by whole
// points until the measured text overflows, then returns the last size that
// fit. The seed's fractional part is preserved.
package fit

import (
	"errors"
	"fmt"
	"log/slog"

	"tools.zach/dev/pwsthumb/internal/fonts"
	"tools.zach/dev/pwsthumb/internal/logger"
)

// ErrNoUpperBound is returned when the search passes the size ceiling
// without overflowing the box.
var ErrNoUpperBound = errors.New("font size search exceeded ceiling")

// Step is the size increment between probes.
const Step = 1.0

// Spec identifies a font at a size. Only Size varies during a search.
type Spec struct {
	Family string
	Style  fonts.Style
	Size   float64
}

// WithSize returns a copy of s at size.
func (s Spec) WithSize(size float64) Spec {
	s.Size = size
	return s
}

func (s Spec) String() string {
	return fmt.Sprintf("%s %s %gpt", s.Family, s.Style, s.Size)
}

// Size is a width/height pair in pixels.
type Size struct {
	W, H float64
}

// Fits reports whether s fits within box in both dimensions.
func (s Size) Fits(box Size) bool {
	return s.W <= box.W && s.H <= box.H
}

// Measurer reports the rendered extent of text at spec when wrapped to
// wrapWidth. Height is an output of wrapping, not a constraint.
type Measurer interface {
	Measure(text string, spec Spec, wrapWidth float64) (Size, error)
}

// Fitter runs the best-fit search.
type Fitter struct {
	Measurer Measurer
	// MinSize clamps the result from below. A clamped result may not fit the
	// box. 0 returns the raw search result, which may be zero or negative.
	MinSize float64
	// MaxSize stops the search. 0 leaves it unbounded.
	MaxSize float64
}

// BestFit returns start resized to the largest size, stepped up from
// start.Size, at which text fits box.
func (f *Fitter) BestFit(text string, start Spec, box Size) (Spec, error) {
	size := start.Size
	probes := 0
	for {
		if f.MaxSize > 0 && size > f.MaxSize {
			return start, fmt.Errorf("%w: %g > %g", ErrNoUpperBound, size, f.MaxSize)
		}
		m, err := f.Measurer.Measure(text, start.WithSize(size), box.W)
		if err != nil {
			return start, fmt.Errorf("measure at %gpt: %w", size, err)
		}
		probes++
		fits := m.Fits(box)
		logger.Trace("fit probe", "size", size, "w", m.W, "h", m.H, "fits", fits)
		if !fits {
			break
		}
		size += Step
	}

	best := size - Step
	if probes == 1 {
		slog.Warn("text does not fit at starting size", "start", start.Size, "result", best, "box_w", box.W, "box_h", box.H)
	}
	if f.MinSize > 0 && best < f.MinSize {
		slog.Warn("clamping degenerate font size", "size", best, "min", f.MinSize)
		best = f.MinSize
	}

	out := start.WithSize(best)
	slog.Debug("best fit", "font", out.String(), "probes", probes)
	return out, nil
}

// BestFit runs an unbounded, unclamped search with m.
func BestFit(m Measurer, text string, start Spec, box Size) (Spec, error) {
	f := &Fitter{Measurer: m}
	return f.BestFit(text, start, box)
}
