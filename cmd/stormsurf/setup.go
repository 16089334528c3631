package main

import (
	"os"

	"github.com/dshills/stormsurf/internal/config"
	"github.com/dshills/stormsurf/internal/config/cfgerr"
)

// resolveDirs picks the config and data directories from flags or the
// platform defaults, creating them if needed.
func resolveDirs(opts options) (configDir, dataDir string, err error) {
	configDir = opts.configDir
	if configDir == "" {
		configDir, err = config.DefaultConfigDir()
		if err != nil {
			return "", "", err
		}
	}
	dataDir = opts.dataDir
	if dataDir == "" {
		dataDir, err = config.DefaultDataDir()
		if err != nil {
			return "", "", err
		}
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", "", err
	}
	return configDir, dataDir, nil
}

func initConfig(configDir, dataDir string) (*config.Config, []*cfgerr.Error, error) {
	return config.Init(configDir, dataDir)
}
