package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // .hcl and .toml files or directories
	SearchPaths   []string // extra directories for modules loaded by name

	List   bool   // print loaded libraries and their components
	Create string // qualified name or interface id to instantiate
	GUIDOf string // type expression to print the identifier of

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort))
	}
	if cfg.Create != "" && strings.TrimSpace(cfg.Create) == "" {
		errs = append(errs, errors.New("create target must not be blank"))
	}
	if cfg.GUIDOf != "" && strings.TrimSpace(cfg.GUIDOf) == "" {
		errs = append(errs, errors.New("type expression must not be blank"))
	}
	if len(cfg.ManifestPaths) == 0 && !cfg.List && cfg.Create == "" && cfg.GUIDOf == "" && cfg.HealthcheckPort == 0 {
		errs = append(errs, errors.New("nothing to do: provide a manifest or an action"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
