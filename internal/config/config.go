package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/stormsurf/internal/config/autoconf"
	"github.com/dshills/stormsurf/internal/config/cfgerr"
	"github.com/dshills/stormsurf/internal/config/registry"
	"github.com/dshills/stormsurf/internal/config/script"
	"github.com/dshills/stormsurf/internal/config/state"
	"github.com/dshills/stormsurf/internal/input/keymap"
)

// stateAllowList holds the state-file keys the current version knows
// about. Keys written by older or experimental builds are dropped
// silently at load.
var stateAllowList = []string{
	"quickstart-done",
	"backend-warning-shown",
	"version",
	"mainwindow",
}

// Config holds the wired configuration subsystem.
type Config struct {
	Registry   *registry.Registry
	Store      *registry.Store
	Keys       *keymap.Registry
	State      *state.StateConfig
	Autoconfig *autoconf.YamlConfig
}

// Init loads all configuration surfaces in order: the state file, then
// config.lua (if present at its default location), then autoconfig.yml
// unless the script cleared load_autoconfig.
//
// A malformed state file is fatal and returned as the error. File-level
// failures from config.lua and autoconfig.yml, and all per-statement
// script failures, accumulate into the returned error list; the caller
// decides whether to treat them as warnings or block startup.
func Init(configDir, dataDir string) (*Config, []*cfgerr.Error, error) {
	st, err := state.New(filepath.Join(dataDir, "state"), stateAllowList)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.NewWithDefaults()
	store := registry.NewStore(reg)
	keys := keymap.NewRegistry()

	cfg := &Config{
		Registry:   reg,
		Store:      store,
		Keys:       keys,
		State:      st,
		Autoconfig: autoconf.New(filepath.Join(configDir, "autoconfig.yml")),
	}

	var accumulated []*cfgerr.Error

	loader := script.NewLoader(store, keys, filepath.Join(configDir, "config.lua"))
	api, err := loader.Read("")
	loadAutoconfig := true
	if err != nil {
		var ferr *cfgerr.FileErrors
		if !errors.As(err, &ferr) {
			return nil, nil, err
		}
		accumulated = append(accumulated, ferr.Errors...)
	} else {
		accumulated = append(accumulated, api.Errors...)
		loadAutoconfig = api.LoadAutoconfig
	}

	if loadAutoconfig {
		accumulated = append(accumulated, cfg.applyAutoconfig()...)
	}

	return cfg, accumulated, nil
}

// applyAutoconfig loads autoconfig.yml and pushes its overrides through
// the settings store so every value is validated. Validation failures
// accumulate per option instead of aborting.
func (c *Config) applyAutoconfig() []*cfgerr.Error {
	if err := c.Autoconfig.Load(); err != nil {
		var ferr *cfgerr.FileErrors
		if errors.As(err, &ferr) {
			return ferr.Errors
		}
		return []*cfgerr.Error{cfgerr.New("While reading", err)}
	}

	var errs []*cfgerr.Error
	for _, name := range c.Autoconfig.Names() {
		value, _ := c.Autoconfig.Get(name)
		if err := c.Store.SetFrom(name, value, "", "autoconfig.yml"); err != nil {
			errs = append(errs, cfgerr.New(fmt.Sprintf("While setting '%s'", name), err))
		}
	}
	return errs
}

// Shutdown writes the state file back to disk. Called exactly once when
// the session ends.
func (c *Config) Shutdown() error {
	return c.State.Save()
}
