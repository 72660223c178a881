package extract

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"fortio.org/safecast"

	"swiftconcur/internal/diag"
)

// MaxLineBytes is the longest build-log line that is examined. Longer lines
// are skipped without being held in memory.
const MaxLineBytes = 1 << 20

var (
	warningLine = regexp.MustCompile(`^([^:]+\.swift):(\d+):(?:(\d+):)?\s*warning:\s*(.+)$`)
	buildTimeRe = regexp.MustCompile(`\*\* BUILD (?:SUCCEEDED|FAILED) \*\* \[(\d+(?:\.\d+)?) sec\]`)

	warningTag = []byte("warning:")
	buildTag   = []byte("** BUILD ")
)

func (e *Extractor) scanText(yield func(diag.RawDiagnostic) bool) error {
	buf := make([]byte, 0, 4096)
	for lineNo := 1; ; lineNo++ {
		line, long, err := readLine(e.br, buf[:0])
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read line %d: %w", lineNo, err)
		}
		buf = line[:0]
		if len(line) > 0 || long {
			e.stats.Records++
		}
		switch {
		case long:
			e.stats.LongLines++
		case bytes.Contains(line, warningTag):
			if d, ok := e.parseWarningLine(line); ok {
				e.stats.Diagnostics++
				if !yield(d) {
					return nil
				}
			}
		case bytes.Contains(line, buildTag):
			e.parseBuildTime(line)
		}
		if err != nil {
			return nil
		}
	}
}

func (e *Extractor) parseWarningLine(line []byte) (diag.RawDiagnostic, bool) {
	m := warningLine.FindSubmatch(bytes.TrimSpace(line))
	if m == nil {
		return diag.RawDiagnostic{}, false
	}
	ln, ok := atoi(m[2])
	if !ok {
		e.stats.Skipped++
		return diag.RawDiagnostic{}, false
	}
	col := 0
	if len(m[3]) > 0 {
		col, _ = atoi(m[3])
	}
	msg := bytes.TrimSpace(m[4])
	if len(msg) == 0 {
		e.stats.Skipped++
		return diag.RawDiagnostic{}, false
	}
	return diag.RawDiagnostic{
		FilePath: e.paths.Intern(m[1]),
		Line:     ln,
		Column:   col,
		Message:  string(msg),
	}, true
}

func (e *Extractor) parseBuildTime(line []byte) {
	m := buildTimeRe.FindSubmatch(line)
	if m == nil {
		return
	}
	if secs, err := strconv.ParseFloat(string(m[1]), 64); err == nil {
		e.buildTime = &secs
	}
}

func atoi(b []byte) (int, bool) {
	n, err := strconv.ParseUint(string(b), 10, 63)
	if err != nil {
		return 0, false
	}
	v, err := safecast.Conv[int](n)
	return v, err == nil
}

// readLine reads one line into buf without its line ending. When the line
// exceeds MaxLineBytes the rest of it is discarded and long is true.
func readLine(br *bufio.Reader, buf []byte) ([]byte, bool, error) {
	long := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !long {
			if len(buf)+len(chunk) > MaxLineBytes {
				long = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		buf = bytes.TrimSuffix(buf, []byte{'\n'})
		buf = bytes.TrimSuffix(buf, []byte{'\r'})
		return buf, long, err
	}
}
