// Package config defines the format-agnostic component manifest and the
// Loader interface that reads it.
//
// A manifest says which modules the host loads at startup and where it looks
// for modules requested by name. Concrete formats live in separate packages:
// internal/hcl for HCL and internal/tomlconfig for TOML.
package config
