// Package driver runs the warning pipeline: extract, analyze (classify,
// resolve context, identify), report, baseline diff and threshold.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"swiftconcur/internal/baseline"
	"swiftconcur/internal/classify"
	"swiftconcur/internal/diag"
	"swiftconcur/internal/extract"
	"swiftconcur/internal/observ"
	"swiftconcur/internal/source"
	"swiftconcur/internal/threshold"
	"swiftconcur/internal/trace"
)

// StdinName is the input path meaning standard input.
const StdinName = "-"

// Request describes one pipeline run.
type Request struct {
	// Input is read once. InputName labels it in errors.
	Input     io.Reader
	InputName string
	Kind      extract.Kind

	Filter       classify.Filter
	ContextLines int
	SourceRoot   string
	Jobs         int
	Dedup        bool

	// BaselinePath is loaded when Baseline is nil and the path is set.
	BaselinePath string
	Baseline     *baseline.Set

	Threshold threshold.Policy
	// BuildTime overrides a duration found in the input.
	BuildTime *float64

	Progress ProgressSink
	Timer    *observ.Timer
}

// Result is the outcome of a successful run.
type Result struct {
	Report  *diag.Report
	Outcome threshold.Outcome
	Kind    extract.Kind
	Stats   extract.Stats
	// Filtered counts diagnostics dropped by the type filter.
	Filtered int
	Deduped  int
	// BaselineErr is set when a baseline was requested but unusable.
	BaselineErr *Error
}

// ExitCode is the process status for a finished run.
func (r *Result) ExitCode() int { return r.Outcome.ExitCode() }

// OpenInput opens path, or stdin for "-" or "". The returned closer is
// a no-op for stdin.
func OpenInput(path string) (io.ReadCloser, string, error) {
	if path == "" || path == StdinName {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	// #nosec G304 -- input path is supplied by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, path, &Error{Kind: KindIO, Err: fmt.Errorf("failed to open input: %w", err)}
	}
	return f, path, nil
}

// Run executes the pipeline. Returned errors are *Error.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Input == nil {
		return nil, Errorf(KindIO, "no input")
	}
	name := req.InputName
	if name == "" {
		name = "<input>"
	}
	tracer := trace.FromContext(ctx)
	ctx, runSpan := trace.StartSpan(ctx, trace.ScopeRun, "pipeline")
	defer runSpan.End("")
	emitQueued(req.Progress)

	res := &Result{}

	// extract
	raws, ex, err := stage(ctx, req, StageExtract, func(ctx context.Context) ([]diag.RawDiagnostic, *extract.Extractor, int, error) {
		ex, err := extract.New(req.Input, req.Kind)
		if err != nil {
			return nil, nil, 0, &Error{Kind: KindIO, Err: fmt.Errorf("%s: %w", name, err)}
		}
		raws := make([]diag.RawDiagnostic, 0, 64)
		for raw := range ex.All() {
			raws = append(raws, raw)
			if len(raws)%4096 == 0 {
				emit(req.Progress, Event{Stage: StageExtract, Status: StatusWorking, Done: len(raws)})
			}
		}
		if err := ex.Err(); err != nil {
			return nil, ex, 0, extractError(name, err)
		}
		return raws, ex, len(raws), nil
	})
	if err != nil {
		return nil, err
	}
	res.Kind = ex.Kind()
	res.Stats = ex.Stats()

	// analyze
	warnings, _, err := stage(ctx, req, StageAnalyze, func(ctx context.Context) ([]diag.Warning, struct{}, int, error) {
		a := &analyzer{
			filter:   req.Filter,
			resolver: source.NewResolver(req.SourceRoot, req.ContextLines),
			tracer:   tracer,
			progress: req.Progress,
			jobs:     req.Jobs,
		}
		ws, err := a.analyze(ctx, raws)
		if err != nil {
			return nil, struct{}{}, 0, &Error{Kind: KindIO, Err: fmt.Errorf("analyze: %w", err)}
		}
		return ws, struct{}{}, len(ws), nil
	})
	if err != nil {
		return nil, err
	}
	res.Filtered = len(raws) - len(warnings)
	raws = nil

	report := diag.NewReport(warnings)
	if req.Dedup {
		res.Deduped = report.Dedup()
	}
	if req.BuildTime != nil {
		bt := *req.BuildTime
		report.BuildTimeSeconds = &bt
	} else if bt, ok := ex.BuildTime(); ok {
		report.BuildTimeSeconds = &bt
	}
	res.Report = report

	// baseline
	_, _, err = stage(ctx, req, StageBaseline, func(ctx context.Context) (struct{}, struct{}, int, error) {
		set := req.Baseline
		if set == nil && req.BaselinePath != "" {
			loaded, err := baseline.Load(req.BaselinePath)
			if err != nil {
				res.BaselineErr = baselineError(err)
				trace.Point(tracer, trace.ScopeStage, "baseline_skipped", err.Error(), trace.CurrentSpan(ctx))
				return struct{}{}, struct{}{}, 0, nil
			}
			set = loaded
		}
		if set == nil {
			return struct{}{}, struct{}{}, 0, errSkipped
		}
		d := baseline.Compare(report.IDs(), set)
		report.SetDiff(d.New, d.Fixed, d.Unchanged)
		return struct{}{}, struct{}{}, set.Len(), nil
	})
	if err != nil {
		return nil, err
	}

	// threshold
	in := threshold.Input{Total: report.TotalCount, Compared: report.BaselineCompared}
	if report.BaselineCompared {
		in.New = len(report.NewWarnings)
	}
	res.Outcome = req.Threshold.Evaluate(in)
	trace.Point(tracer, trace.ScopeStage, "threshold", res.Outcome.String(), runSpan.ID())
	return res, nil
}

// Render runs the report stage; write produces the formatted output.
func Render(ctx context.Context, req *Request, write func() error) error {
	_, _, err := stage(ctx, req, StageReport, func(context.Context) (struct{}, struct{}, int, error) {
		if err := write(); err != nil {
			return struct{}{}, struct{}{}, 0, &Error{Kind: KindIO, Err: fmt.Errorf("failed to write report: %w", err)}
		}
		return struct{}{}, struct{}{}, 0, nil
	})
	return err
}

// errSkipped marks a stage with nothing to do; it is not reported as failure.
var errSkipped = errors.New("stage skipped")

// stage runs fn with a trace span, a timer phase and progress events.
func stage[A, B any](ctx context.Context, req *Request, st Stage, fn func(context.Context) (A, B, int, error)) (A, B, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeStage, string(st))
	idx := req.Timer.Begin(string(st))
	emit(req.Progress, Event{Stage: st, Status: StatusWorking})
	start := time.Now()

	a, b, items, err := fn(ctx)
	elapsed := time.Since(start)
	switch {
	case errors.Is(err, errSkipped):
		req.Timer.End(idx, 0, "skipped")
		span.End("skipped")
		emit(req.Progress, Event{Stage: st, Status: StatusSkipped, Elapsed: elapsed})
		return a, b, nil
	case err != nil:
		req.Timer.End(idx, items, "error")
		span.End(err.Error())
		emit(req.Progress, Event{Stage: st, Status: StatusError, Err: err, Elapsed: elapsed})
		return a, b, err
	}
	req.Timer.End(idx, items, "")
	span.End("")
	emit(req.Progress, Event{Stage: st, Status: StatusDone, Done: items, Total: items, Elapsed: elapsed})
	return a, b, nil
}
