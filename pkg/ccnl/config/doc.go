/*
Package config loads ccnl settings from YAML or JSON files.

# Overview

Config wraps a decoded map and provides typed accessors that return a
default when a key is missing or has the wrong type. Keys may be dotted
paths into nested maps, so "log.level" reads

	log:
	  level: debug

Settings is the typed view the CLI and service use. FromConfig fills it
from a Config, keeping Defaults for anything left unset.

# Basic Usage

	cfg, err := config.FromFile("ccnl.yaml")
	if err != nil {
	    return err
	}
	settings, err := config.FromConfig(cfg)
	if err != nil {
	    return err
	}
	logger := settings.NewLogger(os.Stderr)
	renderer := template.NewRenderer(settings.RendererOptions()...)

Load combines the two steps and falls back to the user's
$XDG_CONFIG_HOME/ccnl/config.yaml when no path is given.

# Environment

CCNL_DATA_DIR overrides the XDG data directory used for the default
catalog and database paths.
*/
package config
