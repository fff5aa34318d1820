package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhost/internal/xlib"
)

// DefaultPattern matches library files anywhere below a directory.
const DefaultPattern = "**/*.xlib"

// LoadDir loads every file below dir whose slash-separated relative path
// matches pattern, in lexical order. A failing file does not stop the scan;
// all failures are joined into the returned error.
func (l *Loader) LoadDir(ctx context.Context, dir, pattern string) ([]*xlib.Bundle, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad pattern %q", xlib.ErrInvalidArgument, pattern)
	}

	matches, err := scan(dir, pattern)
	if err != nil {
		return nil, err
	}

	var (
		loaded []*xlib.Bundle
		errs   []error
	)
	for _, path := range matches {
		b, err := l.Load(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, b)
	}

	l.logger.Info("Library directory scanned",
		zap.String("dir", dir),
		zap.String("pattern", pattern),
		zap.Int("matched", len(matches)),
		zap.Int("loaded", len(loaded)),
		zap.Int("failed", len(errs)),
	)
	return loaded, errors.Join(errs...)
}

func scan(dir, pattern string) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			mu.Lock()
			matches = append(matches, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Strings(matches)
	return matches, nil
}
