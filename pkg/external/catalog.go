package external

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog maps package identifiers to factories. Libraries name identifiers
// in their descriptor; the loader resolves them here before looking inside
// the library itself.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a factory for identifier.
func (c *Catalog) Register(identifier string, factory Factory) error {
	if identifier == "" {
		return fmt.Errorf("%w: package identifier cannot be empty", ErrInvalidArgument)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %q", ErrInvalidArgument, identifier)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.factories[identifier]; exists {
		return fmt.Errorf("package %q already registered", identifier)
	}
	c.factories[identifier] = factory
	return nil
}

// Lookup returns the factory registered for identifier.
func (c *Catalog) Lookup(identifier string) (Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.factories[identifier]
	return f, ok
}

// Identifiers returns the registered identifiers, sorted.
func (c *Catalog) Identifiers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.factories))
	for id := range c.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog that Register writes to.
func Default() *Catalog {
	return defaultCatalog
}

// Register adds a factory to the default catalog. It is meant to be called
// from init functions and panics on an empty or duplicate identifier.
func Register(identifier string, factory Factory) {
	if err := defaultCatalog.Register(identifier, factory); err != nil {
		panic(err)
	}
}
