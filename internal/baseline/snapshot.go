package baseline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotSchema is bumped whenever Snapshot changes shape.
const SnapshotSchema uint16 = 1

// Snapshot is the compact msgpack form of a baseline.
type Snapshot struct {
	Schema    uint16   `msgpack:"schema"`
	BuildTime *float64 `msgpack:"build_time,omitempty"`
	IDs       []string `msgpack:"ids"`
}

func decodeSnapshot(data []byte) (*Set, error) {
	return decodeSnapshotSchema(data, SnapshotSchema)
}

func decodeSnapshotSchema(data []byte, want uint16) (*Set, error) {
	var snap Snapshot
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("not a JSON report or snapshot: %w", err)
	}
	if snap.Schema != want {
		return nil, fmt.Errorf("unsupported snapshot schema %d (want %d)", snap.Schema, want)
	}
	return newSet("", EncodingSnapshot, snap.IDs), nil
}

// WriteSnapshot stores ids at path through a temp file and rename, so a
// reader never sees a partial snapshot.
func WriteSnapshot(path string, snap *Snapshot) (err error) {
	snap.Schema = SnapshotSchema
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(snap); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
