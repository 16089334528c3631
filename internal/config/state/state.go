// Package state persists transient runtime state between sessions.
//
// State lives in a flat file with INI-style sections ([section] headers,
// key = value lines). The file tracks things like window geometry and
// one-shot flags, not user settings. It is read once at startup and
// written back once at shutdown.
package state

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/dshills/stormsurf/internal/config/fsutil"
)

// Sections that always exist, written in this order. Sections found in an
// existing file but not listed here are preserved after them.
var defaultSections = []string{"general", "geometry"}

// StateConfig is a sectioned key/value store backed by a flat file.
type StateConfig struct {
	path string

	// sections holds key/value pairs per section, with insertion order
	// tracked separately for deterministic saves.
	sections map[string]*section
	order    []string
}

type section struct {
	values map[string]string
	keys   []string
}

func newSection() *section {
	return &section{values: make(map[string]string)}
}

func (s *section) set(key, value string) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// New reads the state file at path, if one exists. Keys not on the
// allowed list are silently dropped so that stale keys from older or
// newer versions vanish without error. A missing file is not an error; a
// file that cannot be parsed is.
func New(path string, allowed []string) (*StateConfig, error) {
	c := &StateConfig{
		path:     path,
		sections: make(map[string]*section),
	}
	for _, name := range defaultSections {
		c.addSection(name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading state file %s: %w", path, err)
	}

	if err := c.parse(data, allowed); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	return c, nil
}

// parse loads INI data, keeping only allowed keys.
func (c *StateConfig) parse(data []byte, allowed []string) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}

	allow := make(map[string]bool, len(allowed))
	for _, key := range allowed {
		allow[key] = true
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection {
			if len(sec.Keys()) == 0 {
				continue
			}
			name = "general"
		}
		target := c.addSection(name)
		for _, key := range sec.Keys() {
			if !allow[key.Name()] {
				continue
			}
			target.set(key.Name(), key.String())
		}
	}
	return nil
}

// addSection returns the named section, creating it if needed.
func (c *StateConfig) addSection(name string) *section {
	if sec, ok := c.sections[name]; ok {
		return sec
	}
	sec := newSection()
	c.sections[name] = sec
	c.order = append(c.order, name)
	return sec
}

// Get returns the value for a key in a section.
func (c *StateConfig) Get(sectionName, key string) (string, bool) {
	sec, ok := c.sections[sectionName]
	if !ok {
		return "", false
	}
	value, ok := sec.values[key]
	return value, ok
}

// Set stores a value for a key in a section, creating the section if it
// does not exist yet.
func (c *StateConfig) Set(sectionName, key, value string) {
	c.addSection(sectionName).set(key, value)
}

// Delete removes a key from a section.
func (c *StateConfig) Delete(sectionName, key string) {
	sec, ok := c.sections[sectionName]
	if !ok {
		return
	}
	if _, exists := sec.values[key]; !exists {
		return
	}
	delete(sec.values, key)
	for i, k := range sec.keys {
		if k == key {
			sec.keys = append(sec.keys[:i], sec.keys[i+1:]...)
			break
		}
	}
}

// Sections returns the section names in save order.
func (c *StateConfig) Sections() []string {
	result := make([]string, len(c.order))
	copy(result, c.order)
	return result
}

// Save writes all sections back to the state file. Every section is
// written, including empty ones, each terminated by a blank line, so the
// output is stable across sessions and diffs cleanly.
func (c *StateConfig) Save() error {
	var b strings.Builder
	for _, name := range c.order {
		sec := c.sections[name]
		fmt.Fprintf(&b, "[%s]\n", name)
		for _, key := range sec.keys {
			fmt.Fprintf(&b, "%s = %s\n", key, sec.values[key])
		}
		b.WriteString("\n")
	}

	return fsutil.WriteFileAtomic(c.path, []byte(b.String()), 0o644)
}
