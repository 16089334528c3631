// Package registry provides the settings registry and value store for
// Stormsurf configuration.
//
// The Registry maintains definitions of all known options with their
// types, defaults, and validation rules. The Store holds the validated
// values layered on top of the registry defaults, including URL-pattern
// scoped overrides, and notifies subscribers on change.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/stormsurf/internal/config/schema"
)

// ErrOptionAlreadyRegistered is returned when registering a duplicate option.
var ErrOptionAlreadyRegistered = fmt.Errorf("option already registered")

// Registry maintains all known option definitions.
type Registry struct {
	mu      sync.RWMutex
	options map[string]*schema.Option
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		options: make(map[string]*schema.Option),
	}
}

// NewWithDefaults creates a registry with the built-in browser options.
func NewWithDefaults() *Registry {
	r := New()
	r.RegisterDefaults()
	return r
}

// Register adds an option definition to the registry.
// Returns an error if an option with the same name already exists.
func (r *Registry) Register(opt schema.Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.options[opt.Name]; exists {
		return fmt.Errorf("%w: %s", ErrOptionAlreadyRegistered, opt.Name)
	}

	o := &opt // Copy to heap
	r.options[opt.Name] = o
	return nil
}

// MustRegister registers an option and panics on error.
// Useful for registering built-in options at init time.
func (r *Registry) MustRegister(opt schema.Option) {
	if err := r.Register(opt); err != nil {
		panic(err)
	}
}

// Get returns the option definition for the given name.
// Returns nil if the option is not registered.
func (r *Registry) Get(name string) *schema.Option {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.options[name]
}

// Has checks if an option is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.options[name]
	return exists
}

// All returns all registered options sorted by name.
func (r *Registry) All() []*schema.Option {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*schema.Option, 0, len(r.options))
	for _, o := range r.options {
		result = append(result, o)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Default returns the default value for an option.
// Returns nil if the option is not registered.
func (r *Registry) Default(name string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if o, ok := r.options[name]; ok {
		return o.Default
	}
	return nil
}

// HasPrefix reports whether any registered option name starts with the
// given dotted prefix. Used by the script attribute proxy to distinguish
// option groups from unknown names.
func (r *Registry) HasPrefix(prefix string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dotted := prefix + "."
	for name := range r.options {
		if strings.HasPrefix(name, dotted) {
			return true
		}
	}
	return false
}

// RegisterDefaults registers all built-in Stormsurf options.
func (r *Registry) RegisterDefaults() {
	// Hint appearance
	r.MustRegister(schema.Option{
		Name:        "colors.hints.bg",
		Type:        schema.TypeString,
		Default:     "black",
		Description: "Background color of hint labels",
	})

	r.MustRegister(schema.Option{
		Name:        "colors.hints.fg",
		Type:        schema.TypeString,
		Default:     "white",
		Description: "Foreground color of hint labels",
	})

	r.MustRegister(schema.Option{
		Name:        "colors.hints.match.fg",
		Type:        schema.TypeString,
		Default:     "green",
		Description: "Color of matched characters in hint labels",
	})

	r.MustRegister(schema.Option{
		Name:        "hints.chars",
		Type:        schema.TypeString,
		Default:     "asdfghjkl",
		Description: "Characters used for hint labels",
		Pattern:     "^[a-z]+$",
	})

	// Tabs
	r.MustRegister(schema.Option{
		Name:        "tabs.show",
		Type:        schema.TypeEnum,
		Default:     "always",
		Description: "When to show the tab bar",
		Enum:        []any{"always", "never", "multiple", "switching"},
	})

	r.MustRegister(schema.Option{
		Name:        "tabs.position",
		Type:        schema.TypeEnum,
		Default:     "top",
		Description: "Position of the tab bar",
		Enum:        []any{"top", "bottom", "left", "right"},
	})

	// Content
	r.MustRegister(schema.Option{
		Name:            "content.javascript.enabled",
		Type:            schema.TypeBool,
		Default:         true,
		Description:     "Enable JavaScript execution",
		SupportsPattern: true,
	})

	r.MustRegister(schema.Option{
		Name:            "content.images",
		Type:            schema.TypeBool,
		Default:         true,
		Description:     "Load images automatically",
		SupportsPattern: true,
	})

	// Zoom
	r.MustRegister(schema.Option{
		Name:        "zoom.default",
		Type:        schema.TypeFloat,
		Default:     1.0,
		Description: "Default page zoom level",
		Minimum:     schema.MinValue(0.25),
		Maximum:     schema.MaxValue(5.0),
	})

	// Scrolling
	r.MustRegister(schema.Option{
		Name:        "scrolling.smooth",
		Type:        schema.TypeBool,
		Default:     false,
		Description: "Enable smooth scrolling",
	})

	// URLs
	r.MustRegister(schema.Option{
		Name:        "url.start_pages",
		Type:        schema.TypeList,
		Default:     []any{"about:blank"},
		Description: "Pages opened at startup",
	})

	// Sessions
	r.MustRegister(schema.Option{
		Name:        "auto_save.session",
		Type:        schema.TypeBool,
		Default:     false,
		Description: "Save the open tabs automatically on quit",
	})

	// Command aliases
	r.MustRegister(schema.Option{
		Name:        "aliases",
		Type:        schema.TypeDict,
		Default:     map[string]any{},
		Description: "Aliases for commands",
	})

	// Downloads
	r.MustRegister(schema.Option{
		Name:        "downloads.location.directory",
		Type:        schema.TypeString,
		Default:     "",
		Description: "Directory to save downloads to (empty for default)",
	})
}
