// Package main is the entry point for the Stormsurf browser.
//
// This binary loads and validates the configuration subsystem; the GUI,
// rendering and network stacks attach on top of the wired Config.
package main

import (
	"flag"
	"fmt"
	"os"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("stormsurf %s (%s)\n", version, commit)
		return 0
	}

	configDir, dataDir, err := resolveDirs(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, warnings, err := initConfig(configDir, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "config warning: %v\n", warning)
		if warning.Traceback != "" {
			fmt.Fprintln(os.Stderr, warning.Traceback)
		}
	}

	if opts.checkConfig {
		if len(warnings) > 0 {
			return 1
		}
		fmt.Println("configuration ok")
		return 0
	}

	defer func() {
		if err := cfg.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save state: %v\n", err)
		}
	}()

	// The browser shell starts here once the UI lands.
	return 0
}

type options struct {
	configDir   string
	dataDir     string
	checkConfig bool
	showVersion bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configDir, "config-dir", "", "directory holding config.lua and autoconfig.yml")
	flag.StringVar(&opts.dataDir, "data-dir", "", "directory holding the state file")
	flag.BoolVar(&opts.checkConfig, "check-config", false, "load the configuration, report problems and exit")
	flag.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flag.Parse()
	return opts
}
