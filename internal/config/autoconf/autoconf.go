// Package autoconf loads and saves autoconfig.yml, the declarative store
// of user-overridden settings.
//
// The on-disk document is versioned and deliberately constrained: a
// top-level mapping with a config_version integer and a global mapping of
// dotted option name to value. The serialization is deterministic so the
// file diffs cleanly; a generated warning comment marks it as
// machine-written.
package autoconf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/stormsurf/internal/config/cfgerr"
	"github.com/dshills/stormsurf/internal/config/fsutil"
)

// Version is the schema version written as config_version. Documents with
// a newer version are refused so an older browser never mangles a file
// written by a newer one.
const Version = 1

const header = "# DO NOT edit this file by hand, stormsurf will overwrite it.\n" +
	"# Instead, create a config.lua - see :help for details.\n\n"

// YamlConfig represents the complete set of user overrides.
type YamlConfig struct {
	path string

	// values maps dotted option name to override value, with insertion
	// order tracked for deterministic serialization.
	names  []string
	values map[string]any
}

// New creates a YamlConfig backed by the file at path.
func New(path string) *YamlConfig {
	return &YamlConfig{
		path:   path,
		values: make(map[string]any),
	}
}

// Load parses and validates the file. A missing file is treated as an
// empty document. Any failure aborts loading with a *cfgerr.FileErrors
// carrying exactly one error: I/O failures as "While reading", parse
// failures as "While parsing", and shape violations as "While loading
// data" (first violation wins).
func (c *YamlConfig) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return c.fileError("While reading", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return c.fileError("While parsing", err)
	}

	// Empty file: nothing to load.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return c.fileError("While loading data", errors.New("Toplevel object is not a dict"))
	}

	var global *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "global":
			global = value
		case "config_version":
			var version int
			if err := value.Decode(&version); err != nil {
				return c.fileError("While loading data",
					errors.New("'config_version' is not an integer"))
			}
			if version > Version {
				return c.fileError("While loading data",
					fmt.Errorf("Unsupported config version %d", version))
			}
		}
	}

	if global == nil {
		return c.fileError("While loading data",
			errors.New("Toplevel object does not contain 'global' key"))
	}
	if global.Kind != yaml.MappingNode {
		return c.fileError("While loading data",
			errors.New("'global' object is not a dict"))
	}

	names := make([]string, 0, len(global.Content)/2)
	values := make(map[string]any, len(global.Content)/2)
	for i := 0; i+1 < len(global.Content); i += 2 {
		key := global.Content[i].Value
		var value any
		if err := global.Content[i+1].Decode(&value); err != nil {
			return c.fileError("While loading data", err)
		}
		if _, exists := values[key]; !exists {
			names = append(names, key)
		}
		values[key] = value
	}
	c.names = names
	c.values = values
	return nil
}

// fileError wraps a single failure in the aggregate raised by Load.
func (c *YamlConfig) fileError(text string, err error) error {
	return cfgerr.NewFileErrors(filepath.Base(c.path), cfgerr.New(text, err))
}

// Set stores an override, preserving first-insertion order.
func (c *YamlConfig) Set(name string, value any) {
	if _, exists := c.values[name]; !exists {
		c.names = append(c.names, name)
	}
	c.values[name] = value
}

// Get returns the override for an option name.
func (c *YamlConfig) Get(name string) (any, bool) {
	value, ok := c.values[name]
	return value, ok
}

// Delete removes an override.
func (c *YamlConfig) Delete(name string) {
	if _, exists := c.values[name]; !exists {
		return
	}
	delete(c.values, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
}

// Names returns the override names in insertion order.
func (c *YamlConfig) Names() []string {
	result := make([]string, len(c.names))
	copy(result, c.names)
	return result
}

// Len returns the number of overrides.
func (c *YamlConfig) Len() int {
	return len(c.values)
}

// Save writes the document unconditionally. The output always starts with
// the warning comment, followed by config_version and the global mapping,
// rendered as "global: {}" when no overrides exist and as one indented
// "key: value" line per override otherwise, in insertion order.
func (c *YamlConfig) Save() error {
	global := &yaml.Node{Kind: yaml.MappingNode}
	if len(c.names) == 0 {
		global.Style = yaml.FlowStyle // renders as {}
	}
	for _, name := range c.names {
		var value yaml.Node
		if err := value.Encode(c.values[name]); err != nil {
			return fmt.Errorf("encoding value for '%s': %w", name, err)
		}
		global.Content = append(global.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&value,
		)
	}

	var version yaml.Node
	if err := version.Encode(Version); err != nil {
		return err
	}

	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "config_version"},
			&version,
			{Kind: yaml.ScalarNode, Value: "global"},
			global,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(c.path), err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(c.path, buf.Bytes(), 0o644)
}
