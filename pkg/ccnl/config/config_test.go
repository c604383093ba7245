package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/config"
)

// TestNew verifies Config creation from maps.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

// TestString verifies string extraction with defaults and dotted paths.
func TestString(t *testing.T) {
	nested := map[string]any{
		"catalog":    map[string]any{"path": "/srv/ccnl"},
		"log.format": "json",
	}

	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"name": "commercio"}, "name", "default", "commercio"},
		{"key missing", map[string]any{"other": "value"}, "name", "default", "default"},
		{"empty string", map[string]any{"name": ""}, "name", "default", ""},
		{"wrong type int", map[string]any{"name": 123}, "name", "default", "default"},
		{"nil map", nil, "name", "default", "default"},
		{"dotted path", nested, "catalog.path", "", "/srv/ccnl"},
		{"literal dotted key wins", nested, "log.format", "", "json"},
		{"path through scalar", map[string]any{"catalog": "x"}, "catalog.path", "default", "default"},
		{"missing leaf", nested, "catalog.dir", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.String(tt.key, tt.defaultVal))
		})
	}
}

// TestBool verifies boolean extraction.
func TestBool(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal bool
		want       bool
	}{
		{"true", map[string]any{"on": true}, "on", false, true},
		{"false", map[string]any{"on": false}, "on", true, false},
		{"missing", nil, "on", true, true},
		{"string is not bool", map[string]any{"on": "true"}, "on", false, false},
		{"nested", map[string]any{"render": map[string]any{"blank_as_missing": false}}, "render.blank_as_missing", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.New(tt.data).Bool(tt.key, tt.defaultVal))
		})
	}
}

// TestInt verifies integer extraction and numeric coercion.
func TestInt(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal int
		want       int
	}{
		{"int", map[string]any{"n": 2}, "n", 0, 2},
		{"int64", map[string]any{"n": int64(3)}, "n", 0, 3},
		{"whole float", map[string]any{"n": 4.0}, "n", 0, 4},
		{"fractional float", map[string]any{"n": 4.5}, "n", 9, 9},
		{"string", map[string]any{"n": "4"}, "n", 9, 9},
		{"missing", nil, "n", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.New(tt.data).Int(tt.key, tt.defaultVal))
		})
	}
}

// TestSection verifies nested map extraction.
func TestSection(t *testing.T) {
	cfg := config.New(map[string]any{
		"log":  map[string]any{"level": "debug"},
		"name": "x",
	})

	assert.Equal(t, "debug", cfg.Section("log").String("level", ""))
	assert.False(t, cfg.Section("name").Has("level"))
	assert.False(t, cfg.Section("missing").Has("level"))
}

// TestHas verifies key presence with dotted paths.
func TestHas(t *testing.T) {
	cfg := config.New(map[string]any{
		"storage": map[string]any{"path": nil},
	})
	assert.True(t, cfg.Has("storage"))
	assert.True(t, cfg.Has("storage.path"))
	assert.False(t, cfg.Has("storage.driver"))
	assert.False(t, cfg.Has("catalog"))
}

// TestFromYAML verifies YAML parsing.
func TestFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(*testing.T, config.Config)
	}{
		{
			"nested structure",
			`log:
  level: info
render:
  float_precision: 2`,
			false,
			func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "info", cfg.String("log.level", ""))
				assert.Equal(t, 2, cfg.Int("render.float_precision", -1))
			},
		},
		{
			"empty yaml",
			``,
			false,
			func(t *testing.T, cfg config.Config) {
				assert.False(t, cfg.Has("anything"))
			},
		},
		{
			"invalid yaml",
			`invalid: yaml: content:`,
			true,
			nil,
		},
		{
			"top-level list",
			"- a\n- b\n",
			true,
			nil,
		},
		{
			"top-level scalar",
			`just a string`,
			true,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.FromYAML([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, config.ErrInvalidSetting)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestFromJSON verifies JSON parsing.
func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"render": {"float_precision": 2, "blank_as_missing": false}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Int("render.float_precision", -1))
	assert.False(t, cfg.Bool("render.blank_as_missing", true))

	_, err = config.FromJSON([]byte(`{not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidSetting)
	assert.Contains(t, err.Error(), "parse json")

	_, err = config.FromJSON([]byte(`[1, 2]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidSetting)
	assert.Contains(t, err.Error(), "must be a mapping")

	cfg, err = config.FromJSON([]byte(`null`))
	require.NoError(t, err)
	assert.False(t, cfg.Has("render"))
}

// TestFromFile verifies extension detection.
func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "config.YML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: fromyaml\n"), 0o644))

	jsonPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "fromjson"}`), 0o644))

	txtPath := filepath.Join(tmpDir, "config.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("content"), 0o644))

	badPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("name: [unclosed\n"), 0o644))

	listPath := filepath.Join(tmpDir, "list.yaml")
	require.NoError(t, os.WriteFile(listPath, []byte("- name\n"), 0o644))

	missingPath := filepath.Join(tmpDir, "nonexistent.yaml")

	tests := []struct {
		name       string
		path       string
		want       string
		errMsg     string
		errInvalid bool
		errMissing bool
	}{
		{name: "yaml file upper-case extension", path: yamlPath, want: "fromyaml"},
		{name: "json file", path: jsonPath, want: "fromjson"},
		{name: "unsupported extension", path: txtPath, errMsg: "unsupported config file extension", errInvalid: true},
		{name: "parse error names the file", path: badPath, errMsg: badPath + ": invalid setting: parse yaml", errInvalid: true},
		{name: "top-level list", path: listPath, errMsg: "list.yaml", errInvalid: true},
		{name: "file not found", path: missingPath, errMsg: "read config file " + missingPath, errMissing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.FromFile(tt.path)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Equal(t, tt.errInvalid, errors.Is(err, config.ErrInvalidSetting))
				assert.Equal(t, tt.errMissing, errors.Is(err, fs.ErrNotExist))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.String("name", ""))
		})
	}
}
