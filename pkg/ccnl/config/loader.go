package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a settings or values file, choosing the format by extension.
// Supported extensions: .yaml, .yml, .json
//
// Parse errors carry the path and wrap ErrInvalidSetting. Read errors carry
// the path and wrap the underlying error, so fs.ErrNotExist can be checked.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var c Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		c, err = FromYAML(data)
	case ".json":
		c, err = FromJSON(data)
	default:
		return Config{}, fmt.Errorf("%w: %s: unsupported config file extension %q", ErrInvalidSetting, path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FromYAML parses a YAML document whose top level is a mapping.
// An empty document yields an empty Config.
func FromYAML(data []byte) (Config, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Config{}, fmt.Errorf("%w: parse yaml: %w", ErrInvalidSetting, err)
	}
	return fromDocument(v)
}

// FromJSON parses a JSON document whose top level is an object.
// A literal null yields an empty Config.
func FromJSON(data []byte) (Config, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Config{}, fmt.Errorf("%w: parse json: %w", ErrInvalidSetting, err)
	}
	return fromDocument(v)
}

func fromDocument(v any) (Config, error) {
	switch doc := v.(type) {
	case nil:
		return New(nil), nil
	case map[string]any:
		return New(doc), nil
	case map[any]any:
		return Config{}, fmt.Errorf("%w: top-level mapping keys must be strings", ErrInvalidSetting)
	case []any:
		return Config{}, fmt.Errorf("%w: top-level value must be a mapping, got a list", ErrInvalidSetting)
	default:
		return Config{}, fmt.Errorf("%w: top-level value must be a mapping, got %v", ErrInvalidSetting, doc)
	}
}
