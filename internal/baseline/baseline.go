// Package baseline loads a previous run's warning ids and diffs the current
// run against them.
package baseline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Encoding names the on-disk form a baseline was read from.
type Encoding uint8

const (
	EncodingReport Encoding = iota
	EncodingIDList
	EncodingSnapshot
)

func (e Encoding) String() string {
	switch e {
	case EncodingReport:
		return "report"
	case EncodingIDList:
		return "ids"
	case EncodingSnapshot:
		return "snapshot"
	}
	return "unknown"
}

// Error marks a baseline that exists but cannot be used. It never aborts a
// run; callers report it and skip the comparison.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("baseline %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Set is the id projection of a baseline, in file order without repeats.
type Set struct {
	Path     string
	Encoding Encoding
	ids      []string
	index    map[string]struct{}
}

func newSet(path string, enc Encoding, ids []string) *Set {
	s := &Set{Path: path, Encoding: enc, index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// FromIDs builds a Set in memory.
func FromIDs(ids []string) *Set {
	return newSet("", EncodingIDList, ids)
}

// Len returns the number of distinct ids.
func (s *Set) Len() int { return len(s.ids) }

// Has reports whether id is in the baseline.
func (s *Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the ids in file order.
func (s *Set) IDs() []string { return s.ids }

// Load reads a baseline file. Every failure is returned as *Error.
func Load(path string) (*Set, error) {
	// #nosec G304 -- baseline path is supplied by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	s, err := Decode(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	s.Path = path
	return s, nil
}

// Decode recognises a swiftconcur JSON report, an id list or a msgpack
// snapshot.
func Decode(data []byte) (*Set, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}
	switch trimmed[0] {
	case '{':
		return decodeObject(trimmed)
	case '[':
		return decodeArray(trimmed)
	}
	return decodeSnapshot(data)
}

type idRecord struct {
	ID string `json:"id"`
}

func decodeObject(data []byte) (*Set, error) {
	var doc struct {
		Warnings *[]idRecord `json:"warnings"`
		IDs      *[]string   `json:"ids"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	switch {
	case doc.Warnings != nil:
		ids := make([]string, 0, len(*doc.Warnings))
		for i, w := range *doc.Warnings {
			if w.ID == "" {
				return nil, fmt.Errorf("warnings[%d] has no id", i)
			}
			ids = append(ids, w.ID)
		}
		return newSet("", EncodingReport, ids), nil
	case doc.IDs != nil:
		return newSet("", EncodingIDList, *doc.IDs), nil
	}
	return nil, errors.New(`JSON object has neither "warnings" nor "ids"`)
}

func decodeArray(data []byte) (*Set, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	ids := make([]string, 0, len(items))
	for i, raw := range items {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			ids = append(ids, id)
			continue
		}
		var rec idRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" {
			return nil, fmt.Errorf("element %d is neither an id nor an object with an id", i)
		}
		ids = append(ids, rec.ID)
	}
	return newSet("", EncodingIDList, ids), nil
}
