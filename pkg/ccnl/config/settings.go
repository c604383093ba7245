package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/randalmurphal/ccnlkit/pkg/ccnl/template"
)

const (
	// AppDirName is the directory name used under the XDG base directories.
	AppDirName = "ccnl"

	// EnvDataDir overrides the data directory.
	EnvDataDir = "CCNL_DATA_DIR"

	// LogFormatText and LogFormatJSON select the slog handler.
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ErrInvalidSetting indicates a configuration file or value was present but
// unusable.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the resolved configuration for the CLI and service.
type Settings struct {
	// CatalogPath is a YAML file or a directory of YAML files.
	CatalogPath string

	// DatabasePath is the SQLite file holding drafts. ":memory:" keeps
	// drafts for the life of the process.
	DatabasePath string

	LogLevel  slog.Level
	LogFormat string

	// Render options.
	DateLayout     string
	BlankAsMissing bool
	FloatPrecision int

	// Observability toggles.
	Metrics bool
	Tracing bool
}

// DataDir returns the directory holding the default catalog and database.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	dir := DataDir()
	return Settings{
		CatalogPath:    filepath.Join(dir, "catalog"),
		DatabasePath:   filepath.Join(dir, "drafts.db"),
		LogLevel:       slog.LevelWarn,
		LogFormat:      LogFormatText,
		DateLayout:     template.DefaultDateLayout,
		BlankAsMissing: true,
		FloatPrecision: -1,
	}
}

// FromConfig builds Settings from c. Keys that are absent keep their
// default. Recognized keys:
//
//	catalog.path                 string
//	storage.path                 string
//	log.level                    debug | info | warn | error
//	log.format                   text | json
//	render.date_layout           Go time layout
//	render.blank_as_missing      bool
//	render.float_precision       int, -1 for shortest
//	observability.metrics        bool
//	observability.tracing        bool
func FromConfig(c Config) (Settings, error) {
	s := Defaults()

	s.CatalogPath = c.String("catalog.path", s.CatalogPath)
	s.DatabasePath = c.String("storage.path", s.DatabasePath)

	if level, ok := c.stringValue("log.level"); ok {
		if err := s.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Settings{}, fmt.Errorf("%w: log.level %q", ErrInvalidSetting, level)
		}
	}
	s.LogFormat = strings.ToLower(c.String("log.format", s.LogFormat))
	if s.LogFormat != LogFormatText && s.LogFormat != LogFormatJSON {
		return Settings{}, fmt.Errorf("%w: log.format %q", ErrInvalidSetting, s.LogFormat)
	}

	s.DateLayout = c.String("render.date_layout", s.DateLayout)
	s.BlankAsMissing = c.Bool("render.blank_as_missing", s.BlankAsMissing)
	s.FloatPrecision = c.Int("render.float_precision", s.FloatPrecision)
	if s.FloatPrecision < -1 {
		return Settings{}, fmt.Errorf("%w: render.float_precision %d", ErrInvalidSetting, s.FloatPrecision)
	}

	s.Metrics = c.Bool("observability.metrics", s.Metrics)
	s.Tracing = c.Bool("observability.tracing", s.Tracing)
	return s, nil
}

// Load reads settings from path. With an empty path it looks for
// $XDG_CONFIG_HOME/ccnl/config.yaml and returns Defaults if none exists.
func Load(path string) (Settings, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(filepath.Join(AppDirName, "config.yaml"))
		if err != nil {
			return Defaults(), nil
		}
		path = found
	}
	c, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	s, err := FromConfig(c)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// NewLogger returns a slog logger writing to w in the configured format.
func (s Settings) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RendererOptions converts the render settings to template options.
func (s Settings) RendererOptions() []template.Option {
	return []template.Option{
		template.WithDateLayout(s.DateLayout),
		template.WithBlankAsMissing(s.BlankAsMissing),
		template.WithFloatPrecision(s.FloatPrecision),
	}
}
