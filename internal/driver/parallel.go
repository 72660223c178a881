package driver

import (
	"context"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"swiftconcur/internal/classify"
	"swiftconcur/internal/diag"
	"swiftconcur/internal/ident"
	"swiftconcur/internal/source"
	"swiftconcur/internal/trace"
)

// minChunk keeps tiny inputs on one worker.
const minChunk = 256

type chunk struct{ lo, hi int }

// chunkBounds splits n items into at most jobs contiguous ranges.
func chunkBounds(n, jobs int) []chunk {
	if n == 0 {
		return nil
	}
	size := (n + jobs - 1) / jobs
	size = max(size, minChunk)
	out := make([]chunk, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		out = append(out, chunk{lo: lo, hi: min(lo+size, n)})
	}
	return out
}

// analyzer turns raw diagnostics into warnings. It holds no mutable state
// other than the resolver's miss cache, which is concurrency safe.
type analyzer struct {
	filter   classify.Filter
	resolver *source.Resolver
	tracer   trace.Tracer
	progress ProgressSink
	jobs     int
}

// slot is one result; keep is false when the filter dropped it.
type slot struct {
	w    diag.Warning
	keep bool
}

// analyze runs classification, filtering, context resolution and identity
// on a fixed pool of workers, each owning a disjoint range of raws. Results
// are written by index, so input order is preserved before sorting.
func (a *analyzer) analyze(ctx context.Context, raws []diag.RawDiagnostic) ([]diag.Warning, error) {
	if len(raws) == 0 {
		return []diag.Warning{}, nil
	}
	jobs := a.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	chunks := chunkBounds(len(raws), jobs)

	// indices are unique per goroutine, no mutex needed
	slots := make([]slot, len(raws))
	var done atomic.Int64
	parent := trace.CurrentSpan(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(chunks)))
	for n, c := range chunks {
		g.Go(func() error {
			span := trace.Begin(a.tracer, trace.ScopeBatch, "analyze_batch", parent).
				WithExtra("batch", strconv.Itoa(n)).
				WithExtra("items", strconv.Itoa(c.hi-c.lo))
			defer span.End("")
			for i := c.lo; i < c.hi; i++ {
				if (i-c.lo)%64 == 0 {
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}
				}
				slots[i] = a.one(&raws[i], span.ID())
			}
			total := done.Add(int64(c.hi - c.lo))
			emit(a.progress, Event{Stage: StageAnalyze, Status: StatusWorking, Done: int(total), Total: len(raws)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]diag.Warning, 0, len(raws))
	for i := range slots {
		if slots[i].keep {
			out = append(out, slots[i].w)
		}
	}
	return out, nil
}

func (a *analyzer) one(raw *diag.RawDiagnostic, parent uint64) slot {
	cls := classify.Classify(raw.Message)
	if !a.filter.Keep(cls.Type) {
		trace.Point(a.tracer, trace.ScopeRecord, "filtered", cls.Type.String(), parent,
			"file", raw.FilePath, "line", strconv.Itoa(raw.Line))
		return slot{}
	}
	codeCtx, found := a.resolver.Resolve(raw)
	w := diag.Warning{
		ID:           ident.Of(raw.FilePath, raw.Line, raw.Message),
		Type:         cls.Type,
		Severity:     cls.Severity,
		FilePath:     raw.FilePath,
		Line:         raw.Line,
		Message:      raw.Message,
		CodeContext:  codeCtx,
		SuggestedFix: classify.SuggestedFix(cls.Type, raw.Message),
	}
	if raw.Column > 0 {
		col := raw.Column
		w.Column = &col
	}
	trace.Point(a.tracer, trace.ScopeRecord, "warning", cls.Rule, parent,
		"id", w.ID, "context", strconv.FormatBool(found))
	return slot{w: w, keep: true}
}
