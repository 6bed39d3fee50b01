// Package config loads and validates the .mallardrc configuration file,
// layering defaults, the rc file, and MALLARD_* environment variables.
package config
