package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/xhost/internal/shared/utils"
	"github.com/GriffinCanCode/xhost/internal/xlib"
	"github.com/GriffinCanCode/xhost/internal/xlib/descriptor"
	"github.com/GriffinCanCode/xhost/internal/xlib/fetch"
	"github.com/GriffinCanCode/xhost/internal/xlib/introspect"
	"github.com/GriffinCanCode/xhost/internal/xlib/registry"
	"github.com/GriffinCanCode/xhost/internal/xlib/script"
	"github.com/GriffinCanCode/xhost/internal/xlib/source"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Options configures a Loader.
type Options struct {
	// Engine is handed to every package init hook.
	Engine external.Engine
	// Catalog holds natively compiled packages. Defaults to
	// external.Default().
	Catalog *external.Catalog
	// Fetcher enables http(s) library paths. Nil rejects them.
	Fetcher *fetch.Fetcher
	Script  script.Config
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
}

// Loader owns the loaded libraries and the registry built from them.
type Loader struct {
	engine  external.Engine
	catalog *external.Catalog
	fetcher *fetch.Fetcher
	script  script.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics

	bundles  []*xlib.Bundle
	snapshot *registry.Snapshot
}

// New creates a loader with nothing loaded
func New(opts Options) *Loader {
	if opts.Catalog == nil {
		opts.Catalog = external.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Script.Timeout == 0 {
		opts.Script.Timeout = script.DefaultConfig().Timeout
	}

	return &Loader{
		engine:   opts.Engine,
		catalog:  opts.Catalog,
		fetcher:  opts.Fetcher,
		script:   opts.Script,
		logger:   opts.Logger.Named("loader"),
		metrics:  opts.Metrics,
		snapshot: registry.Empty(),
	}
}

// Snapshot returns the current registry view
func (l *Loader) Snapshot() *registry.Snapshot {
	return l.snapshot
}

// Load opens the library at path (a file path or an http(s) URL) and
// registers its packages. Loading a path that is already loaded returns the
// loaded bundle and no error.
func (l *Loader) Load(ctx context.Context, path string) (*xlib.Bundle, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: library path cannot be empty", xlib.ErrInvalidArgument)
	}

	key, name, err := identify(path)
	if err != nil {
		l.recordLoad(monitoring.LoadInvalid)
		return nil, &xlib.LoadError{Path: path, Err: err}
	}

	if b, ok := l.snapshot.BundleByPath(key); ok {
		l.recordLoad(monitoring.LoadNoop)
		l.logger.Debug("Library already loaded", zap.String("path", key))
		return b, nil
	}
	if other, ok := l.snapshot.Bundle(name); ok {
		l.recordLoad(monitoring.LoadDuplicate)
		return nil, &xlib.LoadError{
			Path: key,
			Err:  fmt.Errorf("%w: %s is already loaded from %s", xlib.ErrDuplicateBundleName, name, other.Path),
		}
	}

	start := time.Now()
	bundle, err := l.open(ctx, key, name)
	if err != nil {
		l.recordLoad(monitoring.LoadInvalid)
		l.logger.Warn("Library load failed", zap.String("path", key), zap.Error(err))
		return nil, err
	}

	l.bundles = append(l.bundles, bundle)
	l.rebuild()
	l.recordLoad(monitoring.LoadOK)

	l.logger.Info("Library loaded",
		zap.String("library", bundle.Name),
		zap.String("path", bundle.Path),
		zap.String("source", bundle.Source.ID()),
		zap.Int("packages", len(bundle.Packages)),
		zap.Int("commands", bundle.CommandCount()),
		zap.Int("functions", bundle.FunctionCount()),
		zap.String("checksum", bundle.Checksum),
		zap.Duration("duration", time.Since(start)),
	)
	return bundle, nil
}

// identify returns the registry key and the derived name of a library path.
func identify(path string) (key, name string, err error) {
	if fetch.IsRemote(path) {
		name, err = fetch.NameOf(path)
		return path, name, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", xlib.ErrInvalidBundleFile, err)
	}
	return abs, filepath.Base(abs), nil
}

// open builds a bundle. On failure nothing it created survives.
func (l *Loader) open(ctx context.Context, key, name string) (*xlib.Bundle, error) {
	local, fetched := key, false
	if fetch.IsRemote(key) {
		if l.fetcher == nil {
			return nil, &xlib.LoadError{Path: key, Err: fmt.Errorf("%w: remote libraries are disabled", xlib.ErrInvalidBundleFile)}
		}
		path, err := l.fetcher.Fetch(ctx, key)
		if err != nil {
			return nil, &xlib.LoadError{Path: key, Err: err}
		}
		local, fetched = path, true
	}

	src, err := source.Open(local, source.Options{
		Catalog:       l.catalog,
		Script:        l.script,
		Logger:        l.logger.ForLibrary(name),
		RemoveOnClose: fetched,
	})
	if err != nil {
		if fetched {
			_ = os.Remove(local)
		}
		return nil, &xlib.LoadError{Path: key, Err: err}
	}

	ids, err := descriptor.Read(src.Files())
	if err != nil {
		l.closeSource(src, key)
		return nil, &xlib.LoadError{Path: key, Err: err}
	}

	packages := make([]*xlib.Package, 0, len(ids))
	for _, identifier := range ids {
		pkg, err := introspect.Inspect(identifier, src, l.engine)
		if err != nil {
			l.dispose(packages, key)
			l.closeSource(src, key)
			return nil, &xlib.LoadError{Path: key, Identifier: identifier, Err: err}
		}
		packages = append(packages, pkg)
	}

	sum, err := utils.DefaultHasher().HashFile(local)
	if err != nil {
		l.logger.Warn("Library checksum failed", zap.String("path", key), zap.Error(err))
	}

	return &xlib.Bundle{
		Name:     name,
		Path:     key,
		Packages: packages,
		Source:   src,
		LoadedAt: time.Now(),
		Checksum: sum,
	}, nil
}

// Unload removes the library addressed by path or, failing that, by name.
// Dispose failures are logged and counted but never returned.
func (l *Loader) Unload(nameOrPath string) error {
	if nameOrPath == "" {
		return fmt.Errorf("%w: library name cannot be empty", xlib.ErrInvalidArgument)
	}

	b := l.find(nameOrPath)
	if b == nil {
		return fmt.Errorf("%w: %s", xlib.ErrBundleNotLoaded, nameOrPath)
	}

	for i, candidate := range l.bundles {
		if candidate == b {
			l.bundles = append(l.bundles[:i:i], l.bundles[i+1:]...)
			break
		}
	}
	l.rebuild()
	l.release(b)

	l.logger.Info("Library unloaded", zap.String("library", b.Name), zap.String("path", b.Path))
	return nil
}

func (l *Loader) find(nameOrPath string) *xlib.Bundle {
	if b, ok := l.snapshot.BundleByPath(nameOrPath); ok {
		return b
	}
	if !fetch.IsRemote(nameOrPath) {
		if abs, err := filepath.Abs(nameOrPath); err == nil {
			if b, ok := l.snapshot.BundleByPath(abs); ok {
				return b
			}
		}
	}
	if b, ok := l.snapshot.Bundle(nameOrPath); ok {
		return b
	}
	return nil
}

// Close unloads every library, most recently loaded first.
func (l *Loader) Close() error {
	bundles := l.bundles
	l.bundles = nil
	l.rebuild()

	for i := len(bundles) - 1; i >= 0; i-- {
		l.release(bundles[i])
	}
	return nil
}

func (l *Loader) rebuild() {
	l.snapshot = registry.Build(l.bundles)
	if l.metrics != nil {
		l.metrics.SetLibrariesLoaded(len(l.bundles))
	}
}

// release disposes a bundle that is no longer registered.
func (l *Loader) release(b *xlib.Bundle) {
	l.dispose(b.Packages, b.Path)
	l.closeSource(b.Source, b.Path)
	if l.metrics != nil {
		l.metrics.RecordUnload()
	}
}

func (l *Loader) dispose(packages []*xlib.Package, path string) {
	for _, p := range packages {
		if err := p.RunDispose(); err != nil {
			l.logger.Warn("Package dispose failed",
				zap.String("path", path),
				zap.String("package", p.Identifier),
				zap.Error(err),
			)
			if l.metrics != nil {
				l.metrics.RecordDisposeError()
			}
		}
	}
}

func (l *Loader) closeSource(src xlib.CodeSource, path string) {
	if err := src.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		l.logger.Warn("Code source close failed",
			zap.String("path", path),
			zap.String("source", src.ID()),
			zap.Error(err),
		)
	}
}

func (l *Loader) recordLoad(result string) {
	if l.metrics != nil {
		l.metrics.RecordLoad(result)
	}
}
