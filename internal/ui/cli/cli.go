package cli

import (
	"github.com/spf13/cobra"

	"unusedargs/internal/core/config"
	"unusedargs/internal/engine/unusedargs"
	"unusedargs/internal/shared/version"
)

const (
	exitClean    = 0
	exitFindings = 1
	exitError    = 2
)

type cliOptions struct {
	configPath    string
	format        string
	output        string
	color         string
	jobs          int
	baselinePath  string
	writeBaseline bool
	watch         bool
	metricsAddr   string
	verbose       bool
	rules         map[string]*bool
	args          []string
}

func newRootCommand(opts *cliOptions, run func(cmd *cobra.Command) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unusedargs [flags] [paths...]",
		Short:         "Report unused function, method and lambda arguments in Python code",
		Long:          `unusedargs finds parameters of Python functions, async functions and lambdas that are never read and reports them as U100, or U101 when the name starts with an underscore.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.args = args
			return run(cmd)
		},
	}
	cmd.SetVersionTemplate("unusedargs v{{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", config.DefaultFile, "path to config file")
	flags.StringVar(&opts.format, "format", config.FormatText, "output format (text|json|sarif)")
	flags.StringVar(&opts.output, "output", "", "write the report to this file instead of stdout")
	flags.StringVar(&opts.color, "color", config.ColorAuto, "colorize text output (auto|always|never)")
	flags.IntVar(&opts.jobs, "jobs", 0, "max parallel files (0=auto)")
	flags.StringVar(&opts.baselinePath, "baseline", "", "hide findings recorded in this baseline database")
	flags.BoolVar(&opts.writeBaseline, "write-baseline", false, "record current findings as the baseline and exit")
	flags.BoolVar(&opts.watch, "watch", false, "keep running and re-report when files change")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	opts.rules = make(map[string]*bool)
	for _, spec := range unusedargs.OptionSchema() {
		opts.rules[spec.Name] = flags.Bool(spec.Name, false, spec.Help)
	}
	return cmd
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, opts *cliOptions, cfg *config.Config) unusedargs.Options {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if flags.Changed("baseline") {
		cfg.Baseline.Enabled = true
		cfg.Baseline.Path = opts.baselinePath
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Address = opts.metricsAddr
	}

	ruleOpts := unusedargs.Options(cfg.Rules)
	for _, spec := range unusedargs.OptionSchema() {
		if flags.Changed(spec.Name) {
			*spec.Field(&ruleOpts) = *opts.rules[spec.Name]
		}
	}
	cfg.Rules = config.Rules(ruleOpts)
	return ruleOpts
}
