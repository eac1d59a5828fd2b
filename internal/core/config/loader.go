package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"unusedargs/internal/core/errors"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "unknown config key "+undecoded[0].String()),
			errors.CtxPath, path,
		)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git", ".hg", ".svn", ".tox", ".nox", ".venv", "venv", "__pycache__", "node_modules", "build", "dist", "*.egg-info"}
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = FormatText
	}
	if strings.TrimSpace(cfg.Output.Color) == "" {
		cfg.Output.Color = ColorAuto
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	if strings.TrimSpace(cfg.Baseline.Path) == "" {
		cfg.Baseline.Path = ".unusedargs/baseline.db"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
}
