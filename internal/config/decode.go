package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func decodeTOML(path string) (Settings, error) {
	var s Settings
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Settings{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, key := range []string{"baseline", "source_root"} {
		if meta.IsDefined(key) && emptyPath(&s, key) {
			return Settings{}, fmt.Errorf("%s: %s must not be empty", path, key)
		}
	}
	return s, nil
}

func decodeYAML(path string) (Settings, error) {
	// #nosec G304 -- config path is discovered or supplied by the user
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	for _, key := range []string{"baseline", "source_root"} {
		if emptyPath(&s, key) {
			return Settings{}, fmt.Errorf("%s: %s must not be empty", path, key)
		}
	}
	return s, nil
}

// emptyPath reports whether a path key is present with an empty value.
func emptyPath(s *Settings, key string) bool {
	var v *string
	switch key {
	case "baseline":
		v = s.Baseline
	case "source_root":
		v = s.SourceRoot
	}
	return v != nil && *v == ""
}
