// Package source implements the per-bundle code source: the isolated
// context a library's package identifiers are resolved in.
//
// Resolution consults the host catalog first and then the bundle itself, so
// a library cannot shadow a package compiled into the host.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/internal/shared/id"
	"github.com/GriffinCanCode/xhost/internal/xlib"
	"github.com/GriffinCanCode/xhost/internal/xlib/script"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Options configures a Source.
type Options struct {
	Catalog *external.Catalog
	Script  script.Config
	Logger  *logging.Logger

	// RemoveOnClose deletes the archive file when the source is closed.
	// Fetched libraries live in a cache directory and are cleaned up this
	// way.
	RemoveOnClose bool
}

// Source resolves package identifiers for one open bundle archive.
type Source struct {
	id      id.SourceID
	path    string
	archive *zip.ReadCloser
	scripts *script.Runtime
	opts    Options
}

// Open sniffs path, opens it as a zip archive and returns its code source.
// Any failure is reported as xlib.ErrInvalidBundleFile.
func Open(path string, opts Options) (*Source, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	if err := sniff(path); err != nil {
		return nil, err
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", xlib.ErrInvalidBundleFile, path, err)
	}

	s := &Source{
		id:      id.NewSourceID(),
		path:    path,
		archive: archive,
		opts:    opts,
	}
	s.opts.Logger = opts.Logger.With(zap.String("source", s.id.String()))
	return s, nil
}

// sniff checks that path holds a zip-family archive (zip, jar, ...).
func sniff(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", xlib.ErrInvalidBundleFile, path, err)
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is %s, not a zip archive", xlib.ErrInvalidBundleFile, path, mtype.String())
}

// ID returns the source handle.
func (s *Source) ID() string {
	return s.id.String()
}

// Files returns the archive entries.
func (s *Source) Files() []*zip.File {
	if s.archive == nil {
		return nil
	}
	return s.archive.File
}

// Resolve instantiates the package declared under identifier.
func (s *Source) Resolve(identifier string) (external.Package, error) {
	if s.opts.Catalog != nil {
		if factory, ok := s.opts.Catalog.Lookup(identifier); ok {
			pkg, err := factory()
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", xlib.ErrPackageNotInstantiable, identifier, err)
			}
			s.opts.Logger.Debug("Resolved package from catalog", zap.String("package", identifier))
			return pkg, nil
		}
	}

	entry := script.FileName(identifier)
	for _, f := range s.Files() {
		if f.Name != entry {
			continue
		}
		src, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", xlib.ErrPackageNotInstantiable, identifier, err)
		}
		pkg, err := s.runtime().Load(identifier, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", xlib.ErrPackageNotInstantiable, identifier, err)
		}
		s.opts.Logger.Debug("Resolved package from script", zap.String("package", identifier), zap.String("entry", entry))
		return pkg, nil
	}

	return nil, fmt.Errorf("%w: %s", xlib.ErrPackageNotFound, identifier)
}

func (s *Source) runtime() *script.Runtime {
	if s.scripts == nil {
		cfg := s.opts.Script
		if cfg.Logger == nil {
			cfg.Logger = s.opts.Logger.Named("script")
		}
		s.scripts = script.New(cfg)
	}
	return s.scripts
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close releases the script runtime and the archive.
func (s *Source) Close() error {
	var errs []error
	if s.scripts != nil {
		errs = append(errs, s.scripts.Close())
		s.scripts = nil
	}
	if s.archive != nil {
		errs = append(errs, s.archive.Close())
		s.archive = nil
	}
	if s.opts.RemoveOnClose {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
