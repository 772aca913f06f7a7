// Package config provides YAML configuration loading for marcval.
//
// Configuration is loaded in layers: defaults, then the YAML file, then
// MARCVAL_* environment variable overrides, with validation after each
// load. A process-wide singleton is available through Initialize and
// GetConfig for components that do not take an explicit Config.
package config
