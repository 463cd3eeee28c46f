package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"tools.zach/dev/pwsthumb/internal/config"
	"tools.zach/dev/pwsthumb/internal/watch"
)

// ///////////////////////////////////////////////
// Watch Mode
// ///////////////////////////////////////////////

// watchedFiles returns the files whose changes trigger a re-render.
func watchedFiles(cfg *config.Config, configPath string) []string {
	files := []string{configPath}
	if cfg.Font.Source == config.SourceFile {
		files = append(files, cfg.Font.File)
	}
	return files
}

// watchLoop re-renders the thumbnail whenever the config or font file
// changes. It returns on SIGINT/SIGTERM or when ctx is done. A reload that
// fails keeps the previous config and waits for the next change.
func watchLoop(ctx context.Context, cfg *config.Config, o *options, stdout io.Writer) error {
	w, err := watch.New(watchedFiles(cfg, o.configPath)...)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	sigCh := signalChannel()
	slog.Info("watching for changes", "config", o.configPath, "polling", w.Polling())

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			slog.Info("received signal, stopping", "signal", sig)
			return nil
		case <-w.Events():
			next, err := config.Load(o.configPath)
			if err != nil {
				slog.Warn("config reload failed, keeping previous", "error", err)
				next = cfg
			}
			if err := generate(ctx, next, o, stdout); err != nil {
				slog.Error("re-render failed", "error", err)
				continue
			}
			cfg = next
		}
	}
}
