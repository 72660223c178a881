package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"swiftconcur/internal/diag"
	"swiftconcur/internal/diagfmt"
	"swiftconcur/internal/driver"
	"swiftconcur/internal/extract"
	"swiftconcur/internal/observ"
	"swiftconcur/internal/source"
	"swiftconcur/internal/trace"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [FILE|-]",
		Short: "Analyze Swift concurrency warnings in a build log or JSON report",
		Long: `Reads an xcodebuild log, xcodebuild JSON records or xcresult JSON from FILE
or stdin and writes a report to stdout.

Exit status: 0 success, 1 threshold exceeded, 2 unusable input or options.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	f := cmd.Flags()
	f.StringP("file", "f", driver.StdinName, "input file (- for stdin)")
	f.String("format", "json", "report format (json|markdown|slack)")
	f.String("input-kind", "auto", "input kind (auto|xcresult-json|xcodebuild-json|build-log-text)")
	f.StringP("baseline", "b", "", "baseline report or snapshot to compare against")
	f.IntP("threshold", "t", 0, "fail (exit 1) when more warnings than this are counted")
	f.String("threshold-mode", "total", "what --threshold counts (total|new)")
	f.StringP("filter", "F", "", "keep one warning type (actor-isolation|sendable|data-race|performance)")
	f.Bool("include-unknown", false, "keep warnings no concurrency rule matched")
	f.IntP("context", "c", source.DefaultContextLines, "source lines of context on each side")
	f.Bool("dedup", false, "drop warnings with identical ids")
	f.Int("jobs", 0, "analysis workers (0 = GOMAXPROCS)")
	f.String("source-root", "", "directory relative source paths are resolved against")
	f.Float64("build-time", 0, "build duration in seconds to record in the report")
	f.Int("slack-max-entries", diagfmt.DefaultSlackEntries, "warnings listed in a Slack payload")
	f.Int("slack-max-bytes", diagfmt.DefaultSlackBytes, "size limit of a Slack payload")
	f.String("config", "", "project config file (default: discover .swiftconcur.toml/.yaml)")
	f.Bool("no-config", false, "ignore project config files")
	f.String("ui", "off", "progress view on stderr (auto|on|off)")
	return cmd
}

type renderFunc func(io.Writer, *diag.Report) error

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var opts *parseOptions
	if cfg != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeRun, "config", cfg.Path, 0)
		opts, err = resolveParseOptions(cmd, args, &cfg.Settings)
	} else {
		opts, err = resolveParseOptions(cmd, args, nil)
	}
	if err != nil {
		return err
	}

	in, name, err := driver.OpenInput(opts.input)
	if err != nil {
		return err
	}
	defer in.Close()

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}

	req := opts.request(in, name, timer)
	render := func(w io.Writer, r *diag.Report) error {
		return diagfmt.Render(w, r, opts.format, opts.render)
	}
	out := bufio.NewWriterSize(cmd.OutOrStdout(), 64<<10)

	var res *driver.Result
	if shouldUseTUI(opts.ui, quiet(cmd)) {
		res, err = runWithUI(ctx, "swiftconcur "+name, req, render, out)
	} else {
		res, err = runPipeline(ctx, req, render, out)
	}
	if flushErr := out.Flush(); flushErr != nil && err == nil {
		err = &driver.Error{Kind: driver.KindIO, Err: fmt.Errorf("failed to write report: %w", flushErr)}
	}
	if err != nil {
		return err
	}

	reportRun(stderr, res, quiet(cmd))
	if timer != nil {
		printTimings(stderr, timer)
	}
	if res.Outcome.Exceeded {
		return &exitCodeError{code: res.ExitCode()}
	}
	return nil
}

func runPipeline(ctx context.Context, req *driver.Request, render renderFunc, out io.Writer) (*driver.Result, error) {
	res, err := driver.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := driver.Render(ctx, req, func() error { return render(out, res.Report) }); err != nil {
		return res, err
	}
	return res, nil
}

// reportRun prints the stderr side of a finished run. Baseline problems and
// a failed threshold are shown even when quiet.
func reportRun(w io.Writer, res *driver.Result, quiet bool) {
	if res.BaselineErr != nil {
		printWarning(w, "baseline comparison skipped: %v", res.BaselineErr.Err)
	}
	if res.Outcome.Exceeded {
		errorPrefix.Fprint(w, "threshold:")
		fmt.Fprintf(w, " %s\n", res.Outcome)
	}
	if quiet {
		return
	}
	if res.Stats.LongLines > 0 {
		printWarning(w, "skipped %d log lines longer than %d bytes", res.Stats.LongLines, extract.MaxLineBytes)
	}
	if res.Stats.Skipped > 0 {
		printWarning(w, "skipped %d records without message, file or line", res.Stats.Skipped)
	}
	if res.Deduped > 0 {
		printNote(w, "dropped %d duplicate warnings", res.Deduped)
	}
	r := res.Report
	printNote(w, "%d warnings (%d critical, %d high, %d medium, %d low) from %s input",
		r.TotalCount, r.Summary.Critical, r.Summary.High, r.Summary.Medium, r.Summary.Low, res.Kind)
	if r.BaselineCompared {
		printNote(w, "baseline: %d new, %d fixed, %d unchanged", len(r.NewWarnings), len(r.FixedWarnings), *r.UnchangedCount)
	}
}
