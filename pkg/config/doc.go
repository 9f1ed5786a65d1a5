// Package config defines the root configuration for the Minerva runtime
// and its loading pipeline: YAML file, then defaults, then MINERVA_*
// environment overrides, then validation.
//
// Section configs that belong to a single subsystem (guard thresholds,
// cost tracking, retention) are defined in the owning package and embedded
// here, so each subsystem documents and defaults its own knobs.
package config
