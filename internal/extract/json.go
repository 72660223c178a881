package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"swiftconcur/internal/diag"
)

// MaxDepth bounds the nesting of JSON input.
const MaxDepth = 128

// maxKeptStrings caps string arrays kept for context fields.
const maxKeptStrings = 256

// SyntaxError reports JSON input that cannot be parsed, with the byte offset
// where parsing stopped.
type SyntaxError struct {
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON at byte %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

var errStop = errors.New("extract: iteration stopped")

type valueKind uint8

const (
	vOther valueKind = iota
	vString
	vNumber
	vObject
	vArray
)

// value is the part of a JSON value the walker keeps. Objects and arrays are
// only materialised for keys listed in fieldKeys.
type value struct {
	kind valueKind
	str  string
	obj  record
	strs []string
}

// record holds the interesting fields of one JSON object.
type record map[string]value

var fieldKeys = map[string]struct{}{
	"_value":    {},
	"message":   {},
	"issueType": {},
	"type":      {},

	"file":      {},
	"filePath":  {},
	"file_path": {},

	"line":        {},
	"lineNumber":  {},
	"line_number": {},

	"column":        {},
	"columnNumber":  {},
	"column_number": {},

	"url":                                 {},
	"sourceURL":                           {},
	"documentLocationInCreatingWorkspace": {},

	"code_context":  {},
	"context":       {},
	"sourceContext": {},
	"before":        {},
	"after":         {},

	"build_time_seconds": {},
}

// unwrap follows xcresult {"_type": ..., "_value": X} wrappers down to X.
func (v value) unwrap() value {
	for range 8 {
		if v.kind != vObject || v.obj == nil {
			break
		}
		inner, ok := v.obj["_value"]
		if !ok {
			break
		}
		v = inner
	}
	return v
}

func (r record) str(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if v = v.unwrap(); v.kind == vString {
				return v.str, true
			}
		}
	}
	return "", false
}

func (r record) num(keys ...string) (int, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if v = v.unwrap(); v.kind == vString || v.kind == vNumber {
				if n, ok := atoiString(v.str); ok {
					return n, true
				}
			}
		}
	}
	return 0, false
}

func (r record) object(keys ...string) record {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if v = v.unwrap(); v.kind == vObject && v.obj != nil {
				return v.obj
			}
		}
	}
	return nil
}

func (r record) list(key string) []string {
	v, ok := r[key]
	if !ok {
		return nil
	}
	if v = v.unwrap(); v.kind != vArray {
		return nil
	}
	return v.strs
}

type walker struct {
	e     *Extractor
	dec   *json.Decoder
	yield func(diag.RawDiagnostic) bool
}

func (e *Extractor) walkJSON(yield func(diag.RawDiagnostic) bool) error {
	dec := json.NewDecoder(e.br)
	dec.UseNumber()
	w := &walker{e: e, dec: dec, yield: yield}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return w.wrap(err)
		}
		if _, err := w.value(tok, 1, false); err != nil {
			if errors.Is(err, errStop) {
				return nil
			}
			return err
		}
	}
}

// next reads a token inside an open value, where EOF is an error.
func (w *walker) next() (json.Token, error) {
	tok, err := w.dec.Token()
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, w.wrap(err)
	}
	return tok, nil
}

func (w *walker) wrap(err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Offset: se.Offset, Err: err}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Offset: w.dec.InputOffset(), Err: err}
	}
	return fmt.Errorf("read input at byte %d: %w", w.dec.InputOffset(), err)
}

func (w *walker) value(tok json.Token, depth int, keep bool) (value, error) {
	switch t := tok.(type) {
	case json.Delim:
		if depth > MaxDepth {
			return value{}, &SyntaxError{
				Offset: w.dec.InputOffset(),
				Err:    fmt.Errorf("nesting deeper than %d levels", MaxDepth),
			}
		}
		if t == '{' {
			return w.object(depth, keep)
		}
		return w.array(depth, keep)
	case string:
		return value{kind: vString, str: t}, nil
	case json.Number:
		return value{kind: vNumber, str: string(t)}, nil
	default:
		return value{}, nil
	}
}

func (w *walker) object(depth int, keep bool) (value, error) {
	var rec record
	for {
		tok, err := w.next()
		if err != nil {
			return value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			break
		}
		key, _ := tok.(string)
		vt, err := w.next()
		if err != nil {
			return value{}, err
		}
		_, want := fieldKeys[key]
		v, err := w.value(vt, depth+1, want)
		if err != nil {
			return value{}, err
		}
		if want {
			if rec == nil {
				rec = make(record, 4)
			}
			rec[key] = v
		}
	}
	w.e.stats.Records++
	if err := w.emit(rec); err != nil {
		return value{}, err
	}
	if !keep {
		return value{kind: vObject}, nil
	}
	return value{kind: vObject, obj: rec}, nil
}

func (w *walker) array(depth int, keep bool) (value, error) {
	var strs []string
	for {
		tok, err := w.next()
		if err != nil {
			return value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			break
		}
		v, err := w.value(tok, depth+1, false)
		if err != nil {
			return value{}, err
		}
		if keep && v.kind == vString && len(strs) < maxKeptStrings {
			strs = append(strs, v.str)
		}
	}
	return value{kind: vArray, strs: strs}, nil
}

// emit yields rec when it describes a warning.
func (w *walker) emit(rec record) error {
	if rec == nil {
		return nil
	}
	if v, ok := rec["build_time_seconds"]; ok && v.kind == vNumber {
		if secs, err := strconv.ParseFloat(v.str, 64); err == nil {
			w.e.buildTime = &secs
		}
	}
	d, ok := w.e.diagnostic(rec)
	if !ok {
		return nil
	}
	w.e.stats.Diagnostics++
	if !w.yield(d) {
		return errStop
	}
	return nil
}

func (e *Extractor) diagnostic(rec record) (diag.RawDiagnostic, bool) {
	msg, ok := rec.str("message")
	if !ok {
		return diag.RawDiagnostic{}, false
	}
	if t, ok := rec.str("issueType"); ok && !strings.Contains(strings.ToLower(t), "warning") {
		return diag.RawDiagnostic{}, false
	}
	if t, ok := rec.str("type"); ok && !strings.EqualFold(t, "warning") {
		return diag.RawDiagnostic{}, false
	}
	msg = strings.TrimSpace(msg)

	path, _ := rec.str("file", "filePath", "file_path")
	line, _ := rec.num("line", "lineNumber", "line_number")
	col, _ := rec.num("column", "columnNumber", "column_number")
	if path == "" {
		raw, _ := rec.str("sourceURL", "url")
		if loc := rec.object("documentLocationInCreatingWorkspace"); loc != nil && raw == "" {
			raw, _ = loc.str("url")
		}
		if p, l, c, ok := parseLocationURL(raw); ok {
			path, line, col = p, l, c
		}
	}
	if msg == "" || path == "" {
		e.stats.Skipped++
		return diag.RawDiagnostic{}, false
	}
	// a record without a line keeps line 0 and gets no source context
	line = max(line, 0)

	d := diag.RawDiagnostic{
		FilePath: e.paths.InternString(path),
		Line:     line,
		Column:   col,
		Message:  msg,
	}
	if c := rec.object("code_context", "context", "sourceContext"); c != nil {
		text, _ := c.str("line")
		ctx := diag.CodeContext{Before: c.list("before"), Line: text, After: c.list("after")}
		if !ctx.IsEmpty() {
			d.Context = &ctx
		}
	}
	return d, true
}

func atoiString(s string) (int, bool) {
	return atoi([]byte(strings.TrimSpace(s)))
}
