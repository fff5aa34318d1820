// Package registry projects an ordered list of loaded bundles into the
// name-indexed lookups the dispatcher uses.
//
// A Snapshot is immutable. Build walks bundles in load order, packages in
// descriptor order and operations in declaration order, letting later
// entries overwrite earlier ones, so the most recently loaded library wins a
// name collision and unloading it reveals the previous owner again.
package registry

import (
	"sort"

	"github.com/GriffinCanCode/xhost/internal/xlib"
)

// Snapshot is a consistent view of everything loaded.
type Snapshot struct {
	bundles   []*xlib.Bundle
	byName    map[string]*xlib.Bundle
	byPath    map[string]*xlib.Bundle
	packages  map[string]*xlib.Package
	commands  map[string]*xlib.Command
	functions map[string]*xlib.Function
}

// Stats summarises a snapshot.
type Stats struct {
	Libraries int `json:"libraries"`
	Packages  int `json:"packages"`
	Commands  int `json:"commands"`
	Functions int `json:"functions"`
}

// Empty returns a snapshot with nothing loaded.
func Empty() *Snapshot {
	return Build(nil)
}

// Build projects bundles into a new snapshot.
func Build(bundles []*xlib.Bundle) *Snapshot {
	s := &Snapshot{
		bundles:   append([]*xlib.Bundle(nil), bundles...),
		byName:    make(map[string]*xlib.Bundle, len(bundles)),
		byPath:    make(map[string]*xlib.Bundle, len(bundles)),
		packages:  make(map[string]*xlib.Package),
		commands:  make(map[string]*xlib.Command),
		functions: make(map[string]*xlib.Function),
	}

	for _, b := range s.bundles {
		s.byName[b.Name] = b
		s.byPath[b.Path] = b
		for _, p := range b.Packages {
			s.packages[p.Identifier] = p
			for _, c := range p.Commands {
				s.commands[c.Name] = c
			}
			for _, f := range p.Functions {
				s.functions[f.Name] = f
			}
		}
	}
	return s
}

// Bundles returns the loaded bundles in load order.
func (s *Snapshot) Bundles() []*xlib.Bundle {
	return append([]*xlib.Bundle(nil), s.bundles...)
}

// Bundle looks up a bundle by name.
func (s *Snapshot) Bundle(name string) (*xlib.Bundle, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// BundleByPath looks up a bundle by its absolute path or URL.
func (s *Snapshot) BundleByPath(path string) (*xlib.Bundle, bool) {
	b, ok := s.byPath[path]
	return b, ok
}

// Package looks up a package by identifier.
func (s *Snapshot) Package(identifier string) (*xlib.Package, bool) {
	p, ok := s.packages[identifier]
	return p, ok
}

// Command looks up a command by name.
func (s *Snapshot) Command(name string) (*xlib.Command, bool) {
	c, ok := s.commands[name]
	return c, ok
}

// Function looks up a function by name.
func (s *Snapshot) Function(name string) (*xlib.Function, bool) {
	f, ok := s.functions[name]
	return f, ok
}

// BundleNames returns bundle names in load order.
func (s *Snapshot) BundleNames() []string {
	names := make([]string, len(s.bundles))
	for i, b := range s.bundles {
		names[i] = b.Name
	}
	return names
}

// PackageNames returns the registered package identifiers, sorted.
func (s *Snapshot) PackageNames() []string {
	return sortedKeys(s.packages)
}

// CommandNames returns the registered command names, sorted.
func (s *Snapshot) CommandNames() []string {
	return sortedKeys(s.commands)
}

// FunctionNames returns the registered function names, sorted.
func (s *Snapshot) FunctionNames() []string {
	return sortedKeys(s.functions)
}

// Stats returns registry counts.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Libraries: len(s.bundles),
		Packages:  len(s.packages),
		Commands:  len(s.commands),
		Functions: len(s.functions),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
