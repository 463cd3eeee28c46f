// Tests for the pwsthumb command: flag validation, end-to-end generation with
// the bundled font, the config subcommands, and watch-mode re-rendering.
package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"

	rootpkg "tools.zach/dev/pwsthumb"
	"tools.zach/dev/pwsthumb/internal/config"
)

// lockedBuffer is a bytes.Buffer safe for concurrent writers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// writeTestConfig writes a config using the builtin font and outDir.
func writeTestConfig(t *testing.T, dir, outDir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := "version = 1\n\n[font]\nsource = \"builtin\"\n\n[output]\ndir = " +
		tomlLiteral(outDir) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// tomlLiteral quotes s as a TOML literal string so Windows paths survive.
func tomlLiteral(s string) string {
	return "'" + s + "'"
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut lockedBuffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// ///////////////////////////////////////////////
// Flags
// ///////////////////////////////////////////////

func TestRequiredFlags(t *testing.T) {
	cfg := writeTestConfig(t, t.TempDir(), t.TempDir())
	tests := []struct {
		name string
		args []string
	}{
		{"no flags", []string{"--config", cfg}},
		{"missing title", []string{"--config", cfg, "--episode", "1"}},
		{"missing episode", []string{"--config", cfg, "--title", "Intro"}},
		{"non-integer episode", []string{"--config", cfg, "--episode", "one", "--title", "Intro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(stdout+stderr, "Usage:") {
				t.Errorf("usage not printed for flag error, output:\n%s%s", stdout, stderr)
			}
		})
	}
}

// ///////////////////////////////////////////////
// Generate
// ///////////////////////////////////////////////

func TestGenerateEndToEnd(t *testing.T) {
	color.NoColor = true
	outDir := t.TempDir()
	cfg := writeTestConfig(t, t.TempDir(), outDir)

	stdout, stderr, err := execute(t, "--config", cfg, "--episode", "1", "--title", "Intro")
	if err != nil {
		t.Fatalf("execute: %v\nstderr: %s", err, stderr)
	}

	want := filepath.Join(outDir, "ProgrammingWithShadowEp1Intro.png")
	if got := strings.TrimSpace(stdout); got != "✅ Image saved as '"+want+"'" {
		t.Errorf("stdout = %q", got)
	}
	if strings.Count(stdout, "\n") != 1 {
		t.Errorf("stdout has %d lines, want exactly 1", strings.Count(stdout, "\n"))
	}
	if stderr != "" {
		t.Errorf("unexpected stderr on happy path: %q", stderr)
	}

	f, err := os.Open(want)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	cfgImg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfgImg.Width != 512 || cfgImg.Height != 512 {
		t.Errorf("size = %dx%d, want 512x512", cfgImg.Width, cfgImg.Height)
	}
}

func TestGenerateNegativeEpisodeEmptyTitle(t *testing.T) {
	outDir := t.TempDir()
	cfg := writeTestConfig(t, t.TempDir(), outDir)

	_, stderr, err := execute(t, "--config", cfg, "--episode=-2", "--title", "")
	if err != nil {
		t.Fatalf("execute: %v\nstderr: %s", err, stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ProgrammingWithShadowEp-2.png")); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestGenerateBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[font]\nsource = \"nowhere\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := execute(t, "--config", path, "--episode", "1", "--title", "x")
	if err == nil {
		t.Fatal("expected config error")
	}

	var buf bytes.Buffer
	fatal(&buf, err)
	if !strings.HasPrefix(buf.String(), "fatal: load config:") {
		t.Errorf("fatal output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "stack traces:") {
		t.Errorf("fatal output missing stack traces: %q", buf.String())
	}
}

func TestFatalWithoutStack(t *testing.T) {
	var buf bytes.Buffer
	fatal(&buf, errors.New("plain"))
	if !strings.HasPrefix(buf.String(), "fatal: plain\n") {
		t.Errorf("fatal output = %q", buf.String())
	}
}

// ///////////////////////////////////////////////
// Config Subcommands
// ///////////////////////////////////////////////

func TestConfigInitShowPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	stdout, _, err := execute(t, "config", "path", "--config", path)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(stdout) != path {
		t.Errorf("config path = %q, want %q", stdout, path)
	}

	if _, _, err := execute(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, rootpkg.DefaultConfigTOML) {
		t.Error("config init did not write the embedded default")
	}

	if _, _, err := execute(t, "config", "init", "--config", path); err == nil {
		t.Error("config init overwrote without --force")
	}
	if _, _, err := execute(t, "config", "init", "--force", "--config", path); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	stdout, _, err = execute(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, `source = "system"`) {
		t.Errorf("config show output missing font source:\n%s", stdout)
	}
}

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

func TestResolveVersion(t *testing.T) {
	orig := version
	defer func() { version = orig }()

	version = "1.2.3"
	if got := resolveVersion(); got != "1.2.3" {
		t.Errorf("resolveVersion() = %q, want ldflags value", got)
	}

	version = "dev"
	if got := resolveVersion(); !strings.HasPrefix(got, "dev") {
		t.Errorf("resolveVersion() = %q, want dev prefix", got)
	}
}

// ///////////////////////////////////////////////
// Watch Mode
// ///////////////////////////////////////////////

func TestWatchLoopRerenders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow watcher test in short mode")
	}

	outDir := t.TempDir()
	cfgPath := writeTestConfig(t, t.TempDir(), outDir)

	var stdout lockedBuffer
	errOut := &lockedBuffer{}
	o := &options{episode: 5, title: "Watch", configPath: cfgPath, watch: true}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, o, &stdout, errOut) }()

	waitFor := func(lines int, timeout time.Duration) bool {
		deadline := time.Now().Add(timeout)
		for time.Now().Before(deadline) {
			if strings.Count(stdout.String(), "Image saved") >= lines {
				return true
			}
			time.Sleep(20 * time.Millisecond)
		}
		return false
	}

	if !waitFor(1, 5*time.Second) {
		cancel()
		t.Fatal("initial render not reported")
	}
	time.Sleep(200 * time.Millisecond)

	// Rewrite the config with a bold style.
	content := "version = 1\n\n[font]\nsource = \"builtin\"\nstyle = \"bold\"\n\n[output]\ndir = " +
		tomlLiteral(outDir) + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(2, 10*time.Second) {
		t.Errorf("no re-render after config change; stdout:\n%s", stdout.String())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop on cancel")
	}
}

func TestWatchedFiles(t *testing.T) {
	o := &options{configPath: "/cfg/config.toml"}
	cfg := fontConfig("file", "/fonts/a.ttf")
	got := watchedFiles(cfg, o.configPath)
	if len(got) != 2 || got[1] != "/fonts/a.ttf" {
		t.Errorf("watchedFiles(file source) = %v", got)
	}

	cfg = fontConfig("builtin", "")
	if got := watchedFiles(cfg, o.configPath); len(got) != 1 {
		t.Errorf("watchedFiles(builtin) = %v, want config only", got)
	}
}

func fontConfig(source, file string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Font.Source = source
	cfg.Font.File = file
	return cfg
}
