// Package main implements pwsthumb, which renders the "Programming with
// Shadow" episode thumbnail as a PNG.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/spf13/cobra"
	"tools.zach/dev/pwsthumb/internal/config"
	"tools.zach/dev/pwsthumb/internal/fonts"
	"tools.zach/dev/pwsthumb/internal/logger"
	"tools.zach/dev/pwsthumb/internal/paths"
	"tools.zach/dev/pwsthumb/internal/platform"
	"tools.zach/dev/pwsthumb/internal/thumbnail"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via -ldflags "-X main.version=0.1.0".
// When ldflags are not set (bare go build), resolveVersion reads the VCS info
// that Go embeds automatically.
var version = "dev"

// resolveVersion returns the build version string. If [version] was set via
// ldflags it is returned as-is; otherwise the embedded VCS revision and dirty
// state produce a "dev+<hash>" tag.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Entry Point
// ///////////////////////////////////////////////

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fatal(os.Stderr, err)
		os.Exit(1)
	}
}

// fatal prints err and its captured stack traces.
func fatal(w io.Writer, err error) {
	fmt.Fprintf(w, "fatal: %v\n", err)
	b, mErr := json.Marshal(errors.StackTraces(err))
	if mErr != nil {
		return
	}
	fmt.Fprintf(w, "stack traces: %s\n", b)
}

// options holds the root command's flags.
type options struct {
	episode    int
	title      string
	configPath string
	watch      bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           paths.BinaryName + " --episode N --title TITLE",
		Short:         "Render a Programming with Shadow episode thumbnail",
		Long:          "pwsthumb renders a 512x512 PNG thumbnail: an accent circle on black with the\nepisode caption sized to fit, saved as ProgrammingWithShadowEp{N}{title}.png.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		Version:       resolveVersion(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flag errors above this point still print usage.
			cmd.SilenceUsage = true
			return run(cmd.Context(), o, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().IntVar(&o.episode, "episode", 0, "episode number")
	cmd.Flags().StringVar(&o.title, "title", "", "episode title")
	cmd.Flags().BoolVar(&o.watch, "watch", false, "re-render when the config or font file changes")
	cmd.PersistentFlags().StringVar(&o.configPath, "config", paths.Default().Config(), "config file path")
	_ = cmd.MarkFlagRequired("episode")
	_ = cmd.MarkFlagRequired("title")

	cmd.AddCommand(newConfigCommand(o, stdout))
	return cmd
}

// ///////////////////////////////////////////////
// Generate
// ///////////////////////////////////////////////

func run(ctx context.Context, o *options, stdout, stderr io.Writer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := platform.Check(); err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closer := setupLogging(cfg, stderr)
	defer closer.Close()

	if err := generate(ctx, cfg, o, stdout); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}
	return watchLoop(ctx, cfg, o, stdout)
}

// setupLogging installs the configured logger as the slog default.
func setupLogging(cfg *config.Config, stderr io.Writer) io.Closer {
	file := paths.Default().ResolveLog(cfg.Log.File)
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			fmt.Fprintf(stderr, "warning: create log dir: %v\n", err)
			file = ""
		}
	}
	log, closer := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Log.Level),
		Console:   stderr,
		File:      file,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})
	slog.SetDefault(log)
	return closer
}

// newGenerator resolves the configured font and returns a generator for it.
func newGenerator(ctx context.Context, cfg *config.Config) (*thumbnail.Generator, error) {
	fam, err := fonts.Resolve(ctx, cfg.Font, paths.Default().FontCache())
	if err != nil {
		return nil, fmt.Errorf("resolve font: %w", err)
	}
	slog.Debug("font resolved", "family", fam.Name, "style", fam.Style, "origin", fam.Origin)
	return &thumbnail.Generator{
		Renderer: thumbnail.Renderer{
			Family:  fam,
			MinSize: cfg.Fit.MinSize,
			MaxSize: cfg.Fit.MaxSize,
		},
		OutputDir: cfg.Output.Dir,
		Sanitize:  cfg.Output.Sanitize,
	}, nil
}

// generate renders one thumbnail and prints the confirmation line.
func generate(ctx context.Context, cfg *config.Config, o *options, stdout io.Writer) error {
	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	path, err := gen.Generate(o.episode, o.title)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(stdout, "✅ Image saved as '%s'\n", path)
	return nil
}
