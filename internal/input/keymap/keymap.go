// Package keymap stores user key-binding overrides per input mode.
//
// An override maps a key sequence to a command string. Explicitly
// unbinding a sequence records a nil command, which is distinct from the
// sequence never having been bound: it masks any built-in default.
package keymap

import (
	"fmt"
	"sort"
	"sync"
)

// Modes supported for key bindings.
var validModes = map[string]bool{
	"normal":      true,
	"insert":      true,
	"command":     true,
	"prompt":      true,
	"hint":        true,
	"caret":       true,
	"passthrough": true,
}

// Binding represents a single key-binding override.
type Binding struct {
	// Mode is the input mode the binding applies to.
	Mode string

	// Keys is the key sequence, e.g. ",a" or "<Ctrl-x>".
	Keys string

	// Command is the command to run. Nil marks the sequence as
	// explicitly unbound.
	Command *string
}

// Registry holds key-binding overrides grouped by mode.
type Registry struct {
	mu sync.RWMutex

	// overrides: mode -> key sequence -> command (nil = unbound)
	overrides map[string]map[string]*string
}

// NewRegistry creates an empty binding registry.
func NewRegistry() *Registry {
	return &Registry{
		overrides: make(map[string]map[string]*string),
	}
}

// Bind records a key-binding override in the given mode.
func (r *Registry) Bind(keys, command, mode string) error {
	if err := checkBindArgs(keys, mode); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	layer := r.overrides[mode]
	if layer == nil {
		layer = make(map[string]*string)
		r.overrides[mode] = layer
	}
	cmd := command
	layer[keys] = &cmd
	return nil
}

// Unbind records that the key sequence is explicitly unbound in the given
// mode, masking any built-in default binding.
func (r *Registry) Unbind(keys, mode string) error {
	if err := checkBindArgs(keys, mode); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	layer := r.overrides[mode]
	if layer == nil {
		layer = make(map[string]*string)
		r.overrides[mode] = layer
	}
	layer[keys] = nil
	return nil
}

// Lookup returns the override for a key sequence in a mode.
// ok is false when no override exists. A true ok with a nil command means
// the sequence is explicitly unbound.
func (r *Registry) Lookup(mode, keys string) (command *string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	layer, exists := r.overrides[mode]
	if !exists {
		return nil, false
	}
	command, ok = layer[keys]
	return command, ok
}

// IsUnbound reports whether the key sequence is explicitly unbound.
func (r *Registry) IsUnbound(mode, keys string) bool {
	cmd, ok := r.Lookup(mode, keys)
	return ok && cmd == nil
}

// Overrides returns a copy of all overrides in a mode.
func (r *Registry) Overrides(mode string) map[string]*string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	layer := r.overrides[mode]
	result := make(map[string]*string, len(layer))
	for keys, cmd := range layer {
		result[keys] = cmd
	}
	return result
}

// Modes returns the modes with at least one override, sorted.
func (r *Registry) Modes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modes := make([]string, 0, len(r.overrides))
	for mode := range r.overrides {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

// checkBindArgs validates the key sequence and mode of a binding.
func checkBindArgs(keys, mode string) error {
	if keys == "" {
		return fmt.Errorf("empty key sequence")
	}
	if !validModes[mode] {
		return fmt.Errorf("invalid mode '%s'", mode)
	}
	return nil
}
