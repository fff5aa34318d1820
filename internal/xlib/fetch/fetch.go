// Package fetch downloads libraries named by http(s) URLs into a local
// cache directory so the loader can open them like any other bundle.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/xhost/internal/shared/id"
	"github.com/GriffinCanCode/xhost/internal/xlib"
)

// Config controls downloads.
type Config struct {
	Dir          string
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
	UserAgent    string
}

// DefaultConfig returns download defaults.
func DefaultConfig() Config {
	return Config{
		Dir:          filepath.Join(os.TempDir(), "xhost-cache"),
		RetryMax:     3,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		Timeout:      60 * time.Second,
		UserAgent:    "xhost/1.0",
	}
}

// Fetcher downloads remote libraries.
type Fetcher struct {
	client   *resty.Client
	breakers *resilience.Group
	config   Config
	logger   *logging.Logger
}

// New creates a fetcher. Retries on connection errors and 5xx responses are
// handled by the retrying transport; a host that keeps failing trips its
// breaker.
func New(config Config, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = config.RetryMax
	retryClient.RetryWaitMin = config.RetryWaitMin
	retryClient.RetryWaitMax = config.RetryWaitMax
	retryClient.Logger = nil

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", config.UserAgent)

	breakers := resilience.NewGroup(resilience.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(host string, from, to resilience.State) {
			logger.Warn("Library host breaker changed state",
				zap.String("host", host),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Fetcher{
		client:   client,
		breakers: breakers,
		config:   config,
		logger:   logger,
	}
}

// IsRemote reports whether p names an http or https library.
func IsRemote(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NameOf derives the library name of a URL: the last element of its path.
func NameOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", xlib.ErrInvalidBundleFile, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", xlib.ErrInvalidBundleFile, u.Scheme)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("%w: %s has no file name", xlib.ErrInvalidBundleFile, rawURL)
	}
	return name, nil
}

// Fetch downloads rawURL into the cache directory and returns the local
// file path. The caller owns the file.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	name, err := NameOf(rawURL)
	if err != nil {
		return "", err
	}
	u, _ := url.Parse(rawURL)

	if err := os.MkdirAll(f.config.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	dest := filepath.Join(f.config.Dir, id.NewDownloadID().String()+"-"+name)

	start := time.Now()
	resp, err := resilience.Do(f.breakers.Get(u.Host), func() (*resty.Response, error) {
		resp, err := f.client.R().
			SetContext(ctx).
			SetOutput(dest).
			Get(rawURL)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != http.StatusOK {
			return resp, fmt.Errorf("unexpected status %s", resp.Status())
		}
		return resp, nil
	})
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("%w: fetch %s: %v", xlib.ErrInvalidBundleFile, rawURL, err)
	}

	f.logger.Info("Fetched library",
		zap.String("url", rawURL),
		zap.String("file", dest),
		zap.Int64("bytes", resp.Size()),
		zap.Duration("duration", time.Since(start)),
	)
	return dest, nil
}

// Breakers reports per-host breaker states.
func (f *Fetcher) Breakers() map[string]resilience.State {
	return f.breakers.States()
}
