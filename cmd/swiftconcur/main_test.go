package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"swiftconcur/internal/baseline"
)

const sampleLog = `CompileSwift normal arm64 Sources/App/Model.swift
Sources/App/Model.swift:10:5: warning: actor-isolated property 'x' can not be referenced from a non-isolated context
Sources/App/Model.swift:22: warning: data race detected on 'cache'
Sources/App/View.swift:3:1: warning: variable 'y' was never mutated
** BUILD SUCCEEDED ** [4.2 sec]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

type jsonReport struct {
	Warnings []struct {
		ID string `json:"id"`
	} `json:"warnings"`
	TotalCount       int      `json:"total_count"`
	BaselineCompared bool     `json:"baseline_compared"`
	NewWarnings      []string `json:"new_warnings"`
	FixedWarnings    []string `json:"fixed_warnings"`
	BuildTimeSeconds *float64 `json:"build_time_seconds"`
}

func TestParseJSON(t *testing.T) {
	dir := t.TempDir()
	log := writeFile(t, dir, "build.log", sampleLog)

	code, out, errOut := runCLI(t, "parse", "--no-config", "--source-root", dir, log)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
	var r jsonReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if r.TotalCount != 2 || len(r.Warnings) != 2 {
		t.Fatalf("expected 2 concurrency warnings, got %d", r.TotalCount)
	}
	if r.BaselineCompared || r.NewWarnings != nil {
		t.Fatal("diff fields must be absent without a baseline")
	}
	if r.BuildTimeSeconds == nil || *r.BuildTimeSeconds != 4.2 {
		t.Fatalf("build time not carried: %v", r.BuildTimeSeconds)
	}
	if !strings.Contains(errOut, "2 warnings") {
		t.Fatalf("missing summary note on stderr:\n%s", errOut)
	}
}

func TestParseThresholdExitCodes(t *testing.T) {
	dir := t.TempDir()
	log := writeFile(t, dir, "build.log", sampleLog)

	if code, _, errOut := runCLI(t, "parse", "--no-config", "-t", "2", log); code != 0 {
		t.Fatalf("threshold equal to count must pass, got %d\n%s", code, errOut)
	}
	code, out, errOut := runCLI(t, "parse", "--no-config", "--quiet", "-t", "1", log)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d\n%s", code, errOut)
	}
	if out == "" {
		t.Fatal("report must still be written when the threshold fails")
	}
	if !strings.Contains(errOut, "exceeds threshold 1") {
		t.Fatalf("missing threshold message:\n%s", errOut)
	}
}

func TestParseInvalidOptions(t *testing.T) {
	log := writeFile(t, t.TempDir(), "build.log", sampleLog)
	cases := [][]string{
		{"parse", "--no-config", "--format", "xml", log},
		{"parse", "--no-config", "--input-kind", "yaml", log},
		{"parse", "--no-config", "--filter", "deadlock", log},
		{"parse", "--no-config", "--threshold-mode", "delta", log},
		{"parse", "--no-config", "--context", "-1", log},
		{"parse", "--no-config", "--format", "slack", "--slack-max-bytes", "8", log},
		{"parse", "--no-config", "--bogus", log},
		{"--color", "purple", "version"},
	}
	for _, args := range cases {
		code, out, _ := runCLI(t, args...)
		if code != 2 {
			t.Fatalf("%v: expected exit 2, got %d", args, code)
		}
		if out != "" {
			t.Fatalf("%v: nothing may reach stdout, got %q", args, out)
		}
	}
}

func TestParseMissingInput(t *testing.T) {
	code, _, errOut := runCLI(t, "parse", "--no-config", filepath.Join(t.TempDir(), "missing.log"))
	if code != 2 || !strings.Contains(errOut, "error:") {
		t.Fatalf("expected IO failure, got %d\n%s", code, errOut)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.json", `[{"type":"warning","message":"data race"`)
	code, _, errOut := runCLI(t, "parse", "--no-config", p)
	if code != 2 || !strings.Contains(errOut, "byte") {
		t.Fatalf("expected JSON failure with offset, got %d\n%s", code, errOut)
	}
}

func TestBaselineFlowAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	log := writeFile(t, dir, "build.log", sampleLog)

	code, report, _ := runCLI(t, "parse", "--no-config", log)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	base := writeFile(t, dir, "baseline.json", report)

	code, out, _ := runCLI(t, "parse", "--no-config", "-b", base, "--threshold-mode", "new", "-t", "0", log)
	if code != 0 {
		t.Fatalf("no new warnings must pass, got %d", code)
	}
	var r jsonReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}
	if !r.BaselineCompared || len(r.NewWarnings) != 0 || len(r.FixedWarnings) != 0 {
		t.Fatalf("unexpected diff: %+v", r)
	}

	snap := filepath.Join(dir, "ci", "baseline.snap")
	if code, _, errOut := runCLI(t, "snapshot", base, "-o", snap); code != 0 {
		t.Fatalf("snapshot exit %d\n%s", code, errOut)
	}
	set, err := baseline.Load(snap)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if set.Len() != 2 || set.Encoding != baseline.EncodingSnapshot {
		t.Fatalf("unexpected snapshot %d ids, %v", set.Len(), set.Encoding)
	}

	// a broken baseline is only a warning
	broken := writeFile(t, dir, "broken.json", "not a baseline")
	code, _, errOut := runCLI(t, "parse", "--no-config", "-b", broken, log)
	if code != 0 || !strings.Contains(errOut, "baseline comparison skipped") {
		t.Fatalf("expected warning and exit 0, got %d\n%s", code, errOut)
	}
}

func TestParseConfigFile(t *testing.T) {
	dir := t.TempDir()
	log := writeFile(t, dir, "build.log", sampleLog)
	cfg := writeFile(t, dir, "ci.toml", "format = \"markdown\"\nthreshold = 0\n\n[markdown]\ntitle = \"Nightly\"\n")

	code, out, _ := runCLI(t, "parse", "--config", cfg, log)
	if code != 1 {
		t.Fatalf("config threshold must apply, got exit %d", code)
	}
	if !strings.HasPrefix(out, "# Nightly") {
		t.Fatalf("config format and title must apply:\n%s", out)
	}

	// flags win over the file
	code, out, _ = runCLI(t, "parse", "--config", cfg, "--format", "json", "-t", "5", log)
	if code != 0 || !strings.HasPrefix(out, "{") {
		t.Fatalf("flags must override config, got %d\n%s", code, out)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version", "--format", "json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version json: %v", err)
	}
	if info["version"] == "" {
		t.Fatal("empty version")
	}
}
