package registry

import (
	"fmt"
	"sync"

	"github.com/dshills/stormsurf/internal/config/notify"
	"github.com/dshills/stormsurf/internal/config/schema"
)

// Store holds validated option values layered on top of registry defaults.
//
// Values are kept per scope: one global layer plus one layer per URL
// pattern for options that support pattern overrides. All mutation goes
// through Set, which validates against the registry schema. The store is
// handed to configuration loaders explicitly; nothing in this package
// maintains ambient process-wide state.
type Store struct {
	mu       sync.RWMutex
	registry *Registry
	notifier *notify.Notifier

	// Global values by option name
	values map[string]any

	// Pattern-scoped overrides: pattern -> option name -> value
	patterns map[string]map[string]any
}

// NewStore creates a value store backed by the given registry.
func NewStore(registry *Registry) *Store {
	return &Store{
		registry: registry,
		notifier: notify.New(),
		values:   make(map[string]any),
		patterns: make(map[string]map[string]any),
	}
}

// Registry returns the backing option registry.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Notifier returns the change notifier for this store.
func (s *Store) Notifier() *notify.Notifier {
	return s.notifier
}

// Get returns the current global value for an option, falling back to the
// registry default when unset. Returns a *schema.NoOptionError for
// unknown option names.
func (s *Store) Get(name string) (any, error) {
	opt := s.registry.Get(name)
	if opt == nil {
		return nil, &schema.NoOptionError{Name: name}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if val, ok := s.values[name]; ok {
		return val, nil
	}
	return opt.Default, nil
}

// GetForPattern returns the value for an option in the context of a URL
// pattern, preferring a pattern-scoped override over the global value.
func (s *Store) GetForPattern(name, pattern string) (any, error) {
	opt := s.registry.Get(name)
	if opt == nil {
		return nil, &schema.NoOptionError{Name: name}
	}

	s.mu.RLock()
	if pattern != "" {
		if layer, ok := s.patterns[pattern]; ok {
			if val, ok := layer[name]; ok {
				s.mu.RUnlock()
				return val, nil
			}
		}
	}
	s.mu.RUnlock()

	return s.Get(name)
}

// Set validates and stores a value for an option. An empty pattern sets
// the global value; a non-empty pattern records a pattern-scoped override
// for options that support it.
//
// Returns a *schema.NoOptionError for unknown names and a
// *schema.ValidationError for invalid values.
func (s *Store) Set(name string, value any, pattern string) error {
	return s.set(name, value, pattern, "")
}

// SetFrom behaves like Set but records the source in change notifications
// (e.g. "config.lua", "autoconfig.yml").
func (s *Store) SetFrom(name string, value any, pattern, source string) error {
	return s.set(name, value, pattern, source)
}

func (s *Store) set(name string, value any, pattern, source string) error {
	opt := s.registry.Get(name)
	if opt == nil {
		return &schema.NoOptionError{Name: name}
	}

	if pattern != "" && !opt.SupportsPattern {
		return fmt.Errorf("option '%s' does not support URL patterns", name)
	}

	if err := opt.Validate(value); err != nil {
		return err
	}

	s.mu.Lock()
	var old any
	if pattern == "" {
		old = s.values[name]
		s.values[name] = value
	} else {
		layer := s.patterns[pattern]
		if layer == nil {
			layer = make(map[string]any)
			s.patterns[pattern] = layer
		}
		old = layer[name]
		layer[name] = value
	}
	s.mu.Unlock()

	s.notifier.Notify(notify.Change{
		Name:     name,
		OldValue: old,
		NewValue: value,
		Pattern:  pattern,
		Source:   source,
	})
	return nil
}

// IsSet reports whether an option has an explicit global value.
func (s *Store) IsSet(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[name]
	return ok
}

// Values returns a copy of all explicitly-set global values.
func (s *Store) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]any, len(s.values))
	for name, val := range s.values {
		result[name] = val
	}
	return result
}
