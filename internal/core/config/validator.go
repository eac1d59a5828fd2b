package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/gobwas/glob"

	"unusedargs/internal/core/errors"
)

// Validate checks a configuration after defaults have been applied.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateJobs,
		validateExclude,
		validateOutput,
		validateBaseline,
		validateMetrics,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateJobs(cfg *Config) error {
	if cfg.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", cfg.Jobs)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.dirs pattern %q: %w", pattern, err)
		}
	}
	for _, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("exclude.files pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatSARIF:
	default:
		return fmt.Errorf("output.format must be one of: text, json, sarif (got %q)", cfg.Output.Format)
	}
	switch cfg.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be one of: auto, always, never (got %q)", cfg.Output.Color)
	}
	return nil
}

func validateBaseline(cfg *Config) error {
	if cfg.Baseline.Enabled && strings.TrimSpace(cfg.Baseline.Path) == "" {
		return fmt.Errorf("baseline.path must not be empty when the baseline is enabled")
	}
	return nil
}

func validateMetrics(cfg *Config) error {
	addr := strings.TrimSpace(cfg.Metrics.Address)
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("metrics.address %q: %w", addr, err)
	}
	return nil
}
