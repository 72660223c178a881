package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"swiftconcur/internal/classify"
	"swiftconcur/internal/config"
	"swiftconcur/internal/diagfmt"
	"swiftconcur/internal/driver"
	"swiftconcur/internal/extract"
	"swiftconcur/internal/observ"
	"swiftconcur/internal/threshold"
)

// parseOptions is the merged view of flags, project file and defaults.
type parseOptions struct {
	input        string
	format       diagfmt.Format
	render       diagfmt.Options
	kind         extract.Kind
	filter       classify.Filter
	contextLines int
	policy       threshold.Policy
	baseline     string
	dedup        bool
	jobs         int
	sourceRoot   string
	buildTime    *float64
	ui           uiMode
}

// pick returns the flag value when it was set on the command line, else the
// project file value, else the flag default.
func pick[T any](cmd *cobra.Command, name string, get func(string) (T, error), fromFile *T) (T, error) {
	if !cmd.Flags().Changed(name) && fromFile != nil {
		return *fromFile, nil
	}
	v, err := get(name)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}

// loadConfig honours --no-config and --config, otherwise walks up from the
// working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	noConfig, err := cmd.Flags().GetBool("no-config")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	if noConfig {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, driver.InvalidFormat(err)
		}
		return cfg, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil
	}
	cfg, _, err := config.Discover(wd)
	if err != nil {
		return nil, driver.InvalidFormat(err)
	}
	return cfg, nil
}

// resolveParseOptions validates every option before any input is read.
func resolveParseOptions(cmd *cobra.Command, args []string, s *config.Settings) (*parseOptions, error) {
	if s == nil {
		s = &config.Settings{}
	}
	flags := cmd.Flags()
	opts := &parseOptions{}

	file, err := flags.GetString("file")
	if err != nil {
		return nil, fmt.Errorf("failed to get file flag: %w", err)
	}
	switch {
	case len(args) > 1:
		return nil, driver.InvalidFormat(fmt.Errorf("expected at most one input, got %d", len(args)))
	case len(args) == 1 && flags.Changed("file") && args[0] != file:
		return nil, driver.InvalidFormat(fmt.Errorf("input given both as argument %q and --file %q", args[0], file))
	case len(args) == 1:
		opts.input = args[0]
	default:
		opts.input = file
	}

	formatName, err := pick(cmd, "format", flags.GetString, s.Format)
	if err != nil {
		return nil, err
	}
	if opts.format, err = diagfmt.ParseFormat(formatName); err != nil {
		return nil, driver.InvalidFormat(err)
	}

	kindName, err := pick(cmd, "input-kind", flags.GetString, s.InputKind)
	if err != nil {
		return nil, err
	}
	if opts.kind, err = extract.ParseKind(kindName); err != nil {
		return nil, driver.InvalidFormat(err)
	}

	only, err := pick(cmd, "filter", flags.GetString, s.Filter)
	if err != nil {
		return nil, err
	}
	includeUnknown, err := pick(cmd, "include-unknown", flags.GetBool, s.IncludeUnknown)
	if err != nil {
		return nil, err
	}
	if opts.filter, err = classify.ParseFilter(only, includeUnknown); err != nil {
		return nil, driver.InvalidFormat(fmt.Errorf("invalid --filter: %w", err))
	}

	if opts.contextLines, err = pick(cmd, "context", flags.GetInt, s.Context); err != nil {
		return nil, err
	}
	if opts.contextLines < 0 {
		return nil, driver.InvalidFormat(fmt.Errorf("--context must not be negative (got %d)", opts.contextLines))
	}

	switch {
	case flags.Changed("threshold"):
		n, err := flags.GetInt("threshold")
		if err != nil {
			return nil, fmt.Errorf("failed to get threshold flag: %w", err)
		}
		if n < 0 {
			return nil, driver.InvalidFormat(fmt.Errorf("--threshold must not be negative (got %d)", n))
		}
		opts.policy.Limit = &n
	case s.Threshold != nil:
		n := *s.Threshold
		opts.policy.Limit = &n
	}
	modeName, err := pick(cmd, "threshold-mode", flags.GetString, s.ThresholdMode)
	if err != nil {
		return nil, err
	}
	if opts.policy.Mode, err = threshold.ParseMode(modeName); err != nil {
		return nil, driver.InvalidFormat(err)
	}

	if opts.baseline, err = pick(cmd, "baseline", flags.GetString, s.Baseline); err != nil {
		return nil, err
	}
	if opts.dedup, err = pick(cmd, "dedup", flags.GetBool, s.Dedup); err != nil {
		return nil, err
	}
	if opts.jobs, err = pick(cmd, "jobs", flags.GetInt, s.Jobs); err != nil {
		return nil, err
	}
	if opts.jobs < 0 {
		return nil, driver.InvalidFormat(fmt.Errorf("--jobs must not be negative (got %d)", opts.jobs))
	}
	if opts.sourceRoot, err = pick(cmd, "source-root", flags.GetString, s.SourceRoot); err != nil {
		return nil, err
	}

	if flags.Changed("build-time") {
		bt, err := flags.GetFloat64("build-time")
		if err != nil {
			return nil, fmt.Errorf("failed to get build-time flag: %w", err)
		}
		if bt < 0 {
			return nil, driver.InvalidFormat(fmt.Errorf("--build-time must not be negative (got %g)", bt))
		}
		opts.buildTime = &bt
	}

	if opts.render.Slack.MaxEntries, err = pick(cmd, "slack-max-entries", flags.GetInt, s.Slack.MaxEntries); err != nil {
		return nil, err
	}
	if opts.render.Slack.MaxBytes, err = pick(cmd, "slack-max-bytes", flags.GetInt, s.Slack.MaxBytes); err != nil {
		return nil, err
	}
	if opts.render.Slack.MaxEntries < 0 || opts.render.Slack.MaxBytes < 0 {
		return nil, driver.InvalidFormat(fmt.Errorf("slack limits must not be negative"))
	}
	if b := opts.render.Slack.MaxBytes; b > 0 && b < diagfmt.MinSlackBytes {
		return nil, driver.InvalidFormat(fmt.Errorf("--slack-max-bytes must be at least %d (got %d)", diagfmt.MinSlackBytes, b))
	}
	if s.Slack.Title != nil {
		opts.render.Slack.Title = *s.Slack.Title
	}
	if s.Markdown.Title != nil {
		opts.render.Markdown.Title = *s.Markdown.Title
	}
	if s.Markdown.MaxFixChars != nil {
		opts.render.Markdown.MaxFixChars = *s.Markdown.MaxFixChars
	}

	uiName, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiName); err != nil {
		return nil, driver.InvalidFormat(err)
	}
	return opts, nil
}

func (o *parseOptions) request(in io.Reader, name string, timer *observ.Timer) *driver.Request {
	return &driver.Request{
		Input:        in,
		InputName:    name,
		Kind:         o.kind,
		Filter:       o.filter,
		ContextLines: o.contextLines,
		SourceRoot:   o.sourceRoot,
		Jobs:         o.jobs,
		Dedup:        o.dedup,
		BaselinePath: o.baseline,
		Threshold:    o.policy,
		BuildTime:    o.buildTime,
		Timer:        timer,
	}
}
