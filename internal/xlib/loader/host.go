package loader

import (
	"context"
	"strings"
)

// The methods below are the string-in, string-out surface a host engine
// binds to its own command names.

// LoadLibrary loads the library at path.
func (l *Loader) LoadLibrary(path string) error {
	_, err := l.Load(context.Background(), path)
	return err
}

// UnloadLibrary unloads the library addressed by path or name.
func (l *Loader) UnloadLibrary(nameOrPath string) error {
	return l.Unload(nameOrPath)
}

// ListLibraries returns loaded library names in load order, one per line.
func (l *Loader) ListLibraries() string {
	return strings.Join(l.snapshot.BundleNames(), "\n")
}

// ListPackages returns registered package identifiers, sorted, one per line.
func (l *Loader) ListPackages() string {
	return strings.Join(l.snapshot.PackageNames(), "\n")
}

// ListCommands returns registered command names, sorted, one per line.
func (l *Loader) ListCommands() string {
	return strings.Join(l.snapshot.CommandNames(), "\n")
}

// ListFunctions returns registered function names, sorted, one per line.
func (l *Loader) ListFunctions() string {
	return strings.Join(l.snapshot.FunctionNames(), "\n")
}
