// google.go downloads font files from the Google Fonts CSS API.
//
// Font specs use the format "google:FAMILY:WEIGHT" (e.g. "google:Arimo:400").
// Downloaded fonts are cached as SFNT so they aren't re-fetched on every run.

package fonts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	tdfont "github.com/tdewolff/font"
	"tools.zach/dev/pwsthumb/internal/atomicfile"
)

// DefaultCSSURL is the Google Fonts CSS2 endpoint.
const DefaultCSSURL = "https://fonts.googleapis.com/css2"

// userAgent asks Google for WOFF2 URLs, which are converted after download.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// fontURLRe extracts the font file URL from the CSS response.
// Matches: url(https://fonts.gstatic.com/s/arimo/v29/xxx.woff2)
var fontURLRe = regexp.MustCompile(`url\((https?://[^)\s]+)\)`)

// ParseGoogleSpec parses a "google:Family:Weight" spec into its parts.
// Returns family, weight, and whether the spec is valid.
func ParseGoogleSpec(spec string) (family, weight string, ok bool) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] != "google" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// GoogleFetcher downloads and caches Google Fonts.
type GoogleFetcher struct {
	// CSSURL overrides [DefaultCSSURL].
	CSSURL string
	// CacheDir holds converted fonts. Empty disables caching.
	CacheDir string
	// Client overrides the default retrying client.
	Client *retryablehttp.Client
}

func newHTTPClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.HTTPClient.Timeout = 15 * time.Second
	c.Logger = nil // suppress retryablehttp's default logging
	return c
}

// cachePath returns the cache file for family and weight.
func (g *GoogleFetcher) cachePath(family, weight string) string {
	name := strings.ReplaceAll(family, " ", "_")
	return filepath.Join(g.CacheDir, fmt.Sprintf("%s-%s.ttf", name, weight))
}

// Fetch returns the SFNT bytes for spec, from cache when present.
func (g *GoogleFetcher) Fetch(ctx context.Context, spec string) ([]byte, error) {
	family, weight, ok := ParseGoogleSpec(spec)
	if !ok {
		return nil, fmt.Errorf("invalid google font spec %q: expected google:FAMILY:WEIGHT", spec)
	}

	if g.CacheDir != "" {
		if data, err := os.ReadFile(g.cachePath(family, weight)); err == nil {
			slog.Debug("google font cache hit", "family", family, "weight", weight)
			return data, nil
		}
	}

	client := g.Client
	if client == nil {
		client = newHTTPClient()
	}
	base := g.CSSURL
	if base == "" {
		base = DefaultCSSURL
	}
	cssURL := fmt.Sprintf("%s?family=%s:wght@%s", base, url.QueryEscape(family), weight)

	css, err := get(ctx, client, cssURL, 1<<20)
	if err != nil {
		return nil, fmt.Errorf("fetching CSS from Google Fonts: %w", err)
	}

	m := fontURLRe.FindSubmatch(css)
	if m == nil {
		return nil, fmt.Errorf("%w: no font URL in Google Fonts CSS for %s wght@%s", ErrFontNotFound, family, weight)
	}
	fontURL := string(m[1])

	data, err := get(ctx, client, fontURL, 10<<20)
	if err != nil {
		return nil, fmt.Errorf("downloading font file: %w", err)
	}

	if IsWOFF2(fontURL, data) {
		sfnt, err := tdfont.ToSFNT(data)
		if err != nil {
			return nil, fmt.Errorf("converting WOFF2 to SFNT: %w", err)
		}
		data = sfnt
	}

	if g.CacheDir != "" {
		if err := os.MkdirAll(g.CacheDir, 0o755); err != nil {
			slog.Warn("failed to create font cache dir", "dir", g.CacheDir, "error", err)
		} else if err := atomicfile.Write(g.cachePath(family, weight), data, 0o644); err != nil {
			slog.Warn("failed to cache font", "family", family, "error", err)
		}
	}
	return data, nil
}

// Load fetches spec and parses it. The family name comes from the spec.
func (g *GoogleFetcher) Load(ctx context.Context, spec string, style Style) (*Family, error) {
	data, err := g.Fetch(ctx, spec)
	if err != nil {
		return nil, err
	}
	family, _, _ := ParseGoogleSpec(spec)
	return Parse(family, style, spec, data)
}

func get(ctx context.Context, client *retryablehttp.Client, rawURL string, limit int64) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
