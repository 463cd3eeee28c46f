package fonts

import (
	"context"
	"fmt"

	"tools.zach/dev/pwsthumb/internal/config"
)

// Resolve loads the font selected by cfg. cacheDir holds Google Fonts
// downloads.
func Resolve(ctx context.Context, cfg config.FontConfig, cacheDir string) (*Family, error) {
	style, err := ParseStyle(cfg.Style)
	if err != nil {
		return nil, err
	}

	switch cfg.Source {
	case config.SourceSystem:
		return LoadSystem(cfg.Family, style, cfg.Dirs)
	case config.SourceFile:
		return LoadFile(cfg.Family, style, cfg.File)
	case config.SourceGoogle:
		g := &GoogleFetcher{CacheDir: cacheDir}
		return g.Load(ctx, cfg.Google, style)
	case config.SourceBuiltin:
		return Builtin(style)
	default:
		return nil, fmt.Errorf("unknown font source %q", cfg.Source)
	}
}
