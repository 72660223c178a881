package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareAgainstItself(t *testing.T) {
	ids := []string{"a", "b", "c"}
	d := Compare(ids, FromIDs(ids))
	assert.Empty(t, d.New)
	assert.Empty(t, d.Fixed)
	assert.Equal(t, 3, d.Unchanged)
}

func TestCompareNewAndFixed(t *testing.T) {
	d := Compare([]string{"y", "keep"}, FromIDs([]string{"x", "keep"}))
	assert.Equal(t, []string{"y"}, d.New)
	assert.Equal(t, []string{"x"}, d.Fixed)
	assert.Equal(t, 1, d.Unchanged)
}

func TestCompareWithoutBaseline(t *testing.T) {
	d := Compare([]string{"a"}, nil)
	assert.NotNil(t, d.New)
	assert.Empty(t, d.New)
	assert.Empty(t, d.Fixed)
	assert.Zero(t, d.Unchanged)
}

func TestCompareIgnoresRepeats(t *testing.T) {
	d := Compare([]string{"a", "a", "b"}, FromIDs([]string{"b", "b"}))
	assert.Equal(t, []string{"a"}, d.New)
	assert.Equal(t, 1, d.Unchanged)
}

func TestDecodeEncodings(t *testing.T) {
	cases := []struct {
		name string
		data string
		enc  Encoding
	}{
		{"report", `{"warnings":[{"id":"a","message":"m"},{"id":"b"}],"total_count":2}`, EncodingReport},
		{"ids object", `{"ids":["a","b"]}`, EncodingIDList},
		{"id objects", `[{"id":"a"},{"id":"b"}]`, EncodingIDList},
		{"id strings", ` ["a","b","a"] `, EncodingIDList},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Decode([]byte(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.enc, s.Encoding)
			assert.Equal(t, []string{"a", "b"}, s.IDs())
		})
	}
}

func TestDecodeEmptyReport(t *testing.T) {
	s, err := Decode([]byte(`{"warnings":[],"total_count":0}`))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestDecodeRejects(t *testing.T) {
	for name, data := range map[string]string{
		"empty":       "   ",
		"no fields":   `{"total_count":1}`,
		"missing id":  `{"warnings":[{"message":"m"}]}`,
		"bad element": `[1, 2]`,
		"garbage":     "not a baseline",
		"broken json": `{"warnings": [`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadWrapsErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Error(), "missing.json")
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "baseline.mp")
	secs := 3.5
	require.NoError(t, WriteSnapshot(path, &Snapshot{IDs: []string{"a", "b"}, BuildTime: &secs}))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EncodingSnapshot, s.Encoding)
	assert.Equal(t, []string{"a", "b"}, s.IDs())
	assert.Equal(t, path, s.Path)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSnapshotSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.mp")
	require.NoError(t, WriteSnapshot(path, &Snapshot{IDs: []string{"a"}}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	s, err := decodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = decodeSnapshotSchema(data, SnapshotSchema+1)
	assert.Error(t, err)
}
