// Tests for style parsing, face creation, and the file, system, and builtin
// font sources.

package fonts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"tools.zach/dev/pwsthumb/internal/config"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"regular", Regular, false},
		{"Bold", Bold, false},
		{" italic ", Italic, false},
		{"bold_italic", BoldItalic, false},
		{"Bold Italic", BoldItalic, false},
		{"bold-italic", BoldItalic, false},
		{"oblique", Regular, true},
		{"", Regular, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStyleString(t *testing.T) {
	if got := BoldItalic.String(); got != "bold_italic" {
		t.Errorf("BoldItalic.String() = %q", got)
	}
	if got := Style(9).String(); got != "Style(9)" {
		t.Errorf("Style(9).String() = %q", got)
	}
}

func TestFamilyFace(t *testing.T) {
	fam, err := Builtin(Regular)
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}

	face, err := fam.Face(20)
	if err != nil {
		t.Fatalf("Face(20): %v", err)
	}
	defer face.Close()

	// 20pt at 96 DPI is about 26.7px; the line height must exceed the em.
	if h := face.Metrics().Height.Ceil(); h < 26 {
		t.Errorf("line height at 20pt = %dpx, want >= 26", h)
	}

	for _, size := range []float64{0, -1} {
		if _, err := fam.Face(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Face(%g) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestBuiltinStyles(t *testing.T) {
	for _, style := range []Style{Regular, Bold, Italic, BoldItalic} {
		fam, err := Builtin(style)
		if err != nil {
			t.Fatalf("Builtin(%v): %v", style, err)
		}
		if fam.Name != BuiltinName || fam.Style != style {
			t.Errorf("Builtin(%v) = %s/%v", style, fam.Name, fam.Style)
		}
	}
}

func TestIsWOFF2(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"font.woff2", nil, true},
		{"FONT.WOFF2", nil, true},
		{"font.ttf", []byte("wOF2rest"), true},
		{"font.ttf", goregular.TTF[:16], false},
	}
	for _, tt := range tests {
		if got := IsWOFF2(tt.name, tt.data); got != tt.want {
			t.Errorf("IsWOFF2(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Custom-Regular.ttf")
	if err := os.WriteFile(p, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	fam, err := LoadFile("", Regular, p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fam.Name != "Custom-Regular" {
		t.Errorf("Name = %q, want derived from file", fam.Name)
	}

	_, err = LoadFile("x", Regular, filepath.Join(dir, "missing.ttf"))
	if !errors.Is(err, ErrFontNotFound) {
		t.Errorf("missing file error = %v, want ErrFontNotFound", err)
	}

	bad := filepath.Join(dir, "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile("x", Regular, bad); err == nil {
		t.Error("expected parse error for garbage font")
	}
}

// ///////////////////////////////////////////////
// System lookup
// ///////////////////////////////////////////////

func TestCandidates(t *testing.T) {
	got := candidates("Arial", Bold)
	want := []string{"arialbd", "arialbold", "arialbd"}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidates[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := candidates("Open Sans", Regular)[0]; got != "opensans" {
		t.Errorf("first regular candidate = %q, want opensans", got)
	}
}

func TestFindSystem(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "truetype", "custom")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string][]byte{
		filepath.Join(nested, "Shadow Sans.ttf"):     goregular.TTF,
		filepath.Join(nested, "ShadowSans-Bold.TTF"): gobold.TTF,
		filepath.Join(dir, "readme.txt"):             []byte("x"),
	}
	for p, data := range files {
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		family  string
		style   Style
		want    string
		wantErr bool
	}{
		{"regular with spaces", "Shadow Sans", Regular, "Shadow Sans.ttf", false},
		{"bold upper extension", "shadow sans", Bold, "ShadowSans-Bold.TTF", false},
		{"missing italic", "Shadow Sans", Italic, "", true},
		{"unknown family", "Nope", Regular, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindSystem(tt.family, tt.style, []string{dir})
			if tt.wantErr {
				if !errors.Is(err, ErrFontNotFound) {
					t.Fatalf("error = %v, want ErrFontNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindSystem: %v", err)
			}
			if filepath.Base(got) != tt.want {
				t.Errorf("FindSystem = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "font.ttf")
	if err := os.WriteFile(p, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     config.FontConfig
		wantErr bool
	}{
		{"builtin", config.FontConfig{Source: config.SourceBuiltin, Style: "bold"}, false},
		{"file", config.FontConfig{Source: config.SourceFile, File: p, Style: "regular"}, false},
		{"system in extra dir", config.FontConfig{Source: config.SourceSystem, Family: "font", Style: "regular", Dirs: []string{dir}}, false},
		{"bad style", config.FontConfig{Source: config.SourceBuiltin, Style: "wide"}, true},
		{"unknown source", config.FontConfig{Source: "cdn", Style: "regular"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fam, err := Resolve(context.Background(), tt.cfg, t.TempDir())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && fam == nil {
				t.Fatal("Resolve returned nil family")
			}
		})
	}
}
