// Package config discovers and decodes the optional project file
// (.swiftconcur.toml, .swiftconcur.yaml or .swiftconcur.yml).
//
// Every field is a pointer: nil means "not set in the file" so that the CLI
// can apply flag > file > default precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"swiftconcur/internal/classify"
	"swiftconcur/internal/diagfmt"
	"swiftconcur/internal/extract"
	"swiftconcur/internal/threshold"
)

// FileNames are tried in order in every directory.
var FileNames = []string{".swiftconcur.toml", ".swiftconcur.yaml", ".swiftconcur.yml"}

// Settings mirrors the keys of the project file.
type Settings struct {
	Format         *string `toml:"format" yaml:"format"`
	Context        *int    `toml:"context" yaml:"context"`
	Threshold      *int    `toml:"threshold" yaml:"threshold"`
	ThresholdMode  *string `toml:"threshold_mode" yaml:"threshold_mode"`
	Filter         *string `toml:"filter" yaml:"filter"`
	Baseline       *string `toml:"baseline" yaml:"baseline"`
	InputKind      *string `toml:"input_kind" yaml:"input_kind"`
	IncludeUnknown *bool   `toml:"include_unknown" yaml:"include_unknown"`
	Dedup          *bool   `toml:"dedup" yaml:"dedup"`
	Jobs           *int    `toml:"jobs" yaml:"jobs"`
	SourceRoot     *string `toml:"source_root" yaml:"source_root"`

	Slack    SlackSettings    `toml:"slack" yaml:"slack"`
	Markdown MarkdownSettings `toml:"markdown" yaml:"markdown"`
}

type SlackSettings struct {
	MaxEntries *int    `toml:"max_entries" yaml:"max_entries"`
	MaxBytes   *int    `toml:"max_bytes" yaml:"max_bytes"`
	Title      *string `toml:"title" yaml:"title"`
}

type MarkdownSettings struct {
	MaxFixChars *int    `toml:"max_fix_chars" yaml:"max_fix_chars"`
	Title       *string `toml:"title" yaml:"title"`
}

// Config is a loaded project file.
type Config struct {
	Path string
	Dir  string
	Settings
}

// Find walks up from startDir looking for a project file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the project file above startDir, if any.
func Discover(startDir string) (*Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Load decodes path by extension and validates it. Relative baseline and
// source_root paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	var (
		s   Settings
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		s, err = decodeTOML(path)
	case ".yaml", ".yml":
		s, err = decodeYAML(path)
	default:
		return nil, fmt.Errorf("%s: unsupported config format (expected .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg := &Config{Path: path, Dir: filepath.Dir(path), Settings: s}
	cfg.Baseline = cfg.resolve(cfg.Baseline)
	cfg.SourceRoot = cfg.resolve(cfg.SourceRoot)
	return cfg, nil
}

func (c *Config) resolve(p *string) *string {
	if p == nil || *p == "" || filepath.IsAbs(*p) {
		return p
	}
	abs := filepath.Join(c.Dir, filepath.FromSlash(*p))
	return &abs
}

// Validate checks value ranges and enumerations.
func (s *Settings) Validate() error {
	nonNegative := map[string]*int{
		"context":                s.Context,
		"threshold":              s.Threshold,
		"jobs":                   s.Jobs,
		"slack.max_entries":      s.Slack.MaxEntries,
		"slack.max_bytes":        s.Slack.MaxBytes,
		"markdown.max_fix_chars": s.Markdown.MaxFixChars,
	}
	for _, key := range []string{"context", "threshold", "jobs", "slack.max_entries", "slack.max_bytes", "markdown.max_fix_chars"} {
		if v := nonNegative[key]; v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative (got %d)", key, *v)
		}
	}
	if b := s.Slack.MaxBytes; b != nil && *b > 0 && *b < diagfmt.MinSlackBytes {
		return fmt.Errorf("slack.max_bytes must be at least %d (got %d)", diagfmt.MinSlackBytes, *b)
	}
	if s.Format != nil {
		if _, err := diagfmt.ParseFormat(*s.Format); err != nil {
			return err
		}
	}
	if s.ThresholdMode != nil {
		if _, err := threshold.ParseMode(*s.ThresholdMode); err != nil {
			return err
		}
	}
	if s.Filter != nil && *s.Filter != "" {
		if _, err := classify.ParseFilter(*s.Filter, false); err != nil {
			return err
		}
	}
	if s.InputKind != nil {
		if _, err := extract.ParseKind(*s.InputKind); err != nil {
			return err
		}
	}
	return nil
}
