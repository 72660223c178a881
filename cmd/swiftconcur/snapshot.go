package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"swiftconcur/internal/baseline"
	"swiftconcur/internal/driver"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <report.json>",
		Short: "Write a compact msgpack baseline from a JSON report",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
	cmd.Flags().StringP("output", "o", "", "snapshot file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	snap, err := snapshotFromFile(args[0])
	if err != nil {
		return err
	}
	if err := baseline.WriteSnapshot(out, snap); err != nil {
		return &driver.Error{Kind: driver.KindIO, Err: fmt.Errorf("failed to write snapshot: %w", err)}
	}
	if !quiet(cmd) {
		printNote(cmd.ErrOrStderr(), "wrote %d ids to %s", len(snap.IDs), out)
	}
	return nil
}

// snapshotFromFile projects any accepted baseline encoding to a Snapshot,
// keeping the build time of a JSON report.
func snapshotFromFile(path string) (*baseline.Snapshot, error) {
	set, err := baseline.Load(path)
	if err != nil {
		kind := driver.KindJSON
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			kind = driver.KindIO
		}
		return nil, &driver.Error{Kind: kind, Err: err}
	}
	snap := &baseline.Snapshot{Schema: baseline.SnapshotSchema, IDs: set.IDs()}
	if snap.IDs == nil {
		snap.IDs = []string{}
	}
	if set.Encoding == baseline.EncodingReport {
		// #nosec G304 -- same user supplied path as above
		data, err := os.ReadFile(path)
		if err == nil {
			var meta struct {
				BuildTimeSeconds *float64 `json:"build_time_seconds"`
			}
			if json.Unmarshal(data, &meta) == nil {
				snap.BuildTime = meta.BuildTimeSeconds
			}
		}
	}
	return snap, nil
}
