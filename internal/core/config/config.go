package config

import (
	"time"
)

const (
	DefaultFile = "unusedargs.toml"

	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Version  int      `toml:"version"`
	Paths    []string `toml:"paths"`
	Jobs     int      `toml:"jobs"`
	Exclude  Exclude  `toml:"exclude"`
	Rules    Rules    `toml:"rules"`
	Output   Output   `toml:"output"`
	Baseline Baseline `toml:"baseline"`
	Watch    Watch    `toml:"watch"`
	Metrics  Metrics  `toml:"metrics"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`  // matched against directory base names
	Files []string `toml:"files"` // matched against file base names and slash paths
}

// Rules mirrors the rule's suppression options field for field, so a
// Rules value converts directly to unusedargs.Options.
type Rules struct {
	IgnoreAbstract      bool `toml:"ignore_abstract_functions"`
	IgnoreOverload      bool `toml:"ignore_overload_functions"`
	IgnoreOverride      bool `toml:"ignore_override_functions"`
	IgnoreStubs         bool `toml:"ignore_stub_functions"`
	IgnoreVariadicNames bool `toml:"ignore_variadic_names"`
	IgnoreLambdas       bool `toml:"ignore_lambdas"`
	IgnoreNested        bool `toml:"ignore_nested_functions"`
	IgnoreDunder        bool `toml:"ignore_dunder_methods"`
}

type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"` // empty writes to stdout
	Color  string `toml:"color"`
}

type Baseline struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Metrics struct {
	Address string `toml:"address"`
}

// DefaultConfig is used when no configuration file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
