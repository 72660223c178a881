package extract

import (
	"bufio"
	"io"
	"iter"

	"swiftconcur/internal/diag"
	"swiftconcur/internal/source"
)

const readerSize = 64 << 10

// Stats counts what the reader saw.
type Stats struct {
	Records     int // text lines or JSON objects examined
	Diagnostics int // diagnostics yielded
	Skipped     int // candidate records dropped for missing fields
	LongLines   int // text lines over MaxLineBytes
}

// Extractor reads diagnostics from one input. It is single-use.
type Extractor struct {
	br        *bufio.Reader
	kind      Kind
	paths     *source.PathTable
	stats     Stats
	buildTime *float64
	err       error
	used      bool
}

// New prepares an extractor over r. KindAuto is resolved here by peeking at
// the start of the input.
func New(r io.Reader, kind Kind) (*Extractor, error) {
	br := bufio.NewReaderSize(r, readerSize)
	if kind == KindAuto {
		k, err := sniff(br)
		if err != nil {
			return nil, err
		}
		kind = k
	} else if _, err := sniff(br); err != nil {
		// still strip a BOM; the guess itself is ignored
		return nil, err
	}
	return &Extractor{br: br, kind: kind, paths: source.NewPathTable()}, nil
}

// Kind returns the resolved input kind.
func (e *Extractor) Kind() Kind { return e.kind }

// All yields diagnostics in input order. A second call yields nothing.
func (e *Extractor) All() iter.Seq[diag.RawDiagnostic] {
	return func(yield func(diag.RawDiagnostic) bool) {
		if e.used {
			return
		}
		e.used = true
		if e.kind.IsJSON() {
			e.err = e.walkJSON(yield)
		} else {
			e.err = e.scanText(yield)
		}
	}
}

// Err returns the error that ended iteration, if any.
func (e *Extractor) Err() error { return e.err }

// Stats returns counters for the finished iteration.
func (e *Extractor) Stats() Stats { return e.stats }

// BuildTime returns the build duration found in the input, if any.
func (e *Extractor) BuildTime() (float64, bool) {
	if e.buildTime == nil {
		return 0, false
	}
	return *e.buildTime, true
}
