// Package config loads process settings from the environment, optional run
// defaults from a YAML profile, and validates the options of a report run.
package config
