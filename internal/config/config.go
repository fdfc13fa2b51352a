// Package config loads docket settings with Viper from .docket.yml, DOCKET_*
// environment variables and command-line flags.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/docket/internal/binding"
	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. DOCKET_SERVER_PORT.
const EnvPrefix = "DOCKET"

// Mock data modes.
const (
	MockDataAuto = "auto"
	MockDataNone = "none"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Document  DocumentConfig  `mapstructure:"document" yaml:"document"`
	Preview   PreviewConfig   `mapstructure:"preview" yaml:"preview"`
	Editor    EditorConfig    `mapstructure:"editor" yaml:"editor"`
	Templates TemplatesConfig `mapstructure:"templates" yaml:"templates"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	Open           bool     `mapstructure:"open" yaml:"open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type DocumentConfig struct {
	Type     string `mapstructure:"type" yaml:"type"`
	Layout   string `mapstructure:"layout" yaml:"layout"`
	Data     string `mapstructure:"data" yaml:"data"`
	Locale   string `mapstructure:"locale" yaml:"locale"`
	Currency string `mapstructure:"currency" yaml:"currency"`
}

type PreviewConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	MockData string        `mapstructure:"mock_data" yaml:"mock_data"`
}

type EditorConfig struct {
	MaxHistory int     `mapstructure:"max_history" yaml:"max_history"`
	GridSize   float64 `mapstructure:"grid_size" yaml:"grid_size"`
	SnapToGrid bool    `mapstructure:"snap_to_grid" yaml:"snap_to_grid"`
	Zoom       float64 `mapstructure:"zoom" yaml:"zoom"`
}

type TemplatesConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers every key with its default, which also makes each
// key reachable through AutomaticEnv.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.open", false)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("document.type", string(layout.Invoice))
	v.SetDefault("document.layout", "")
	v.SetDefault("document.data", "")
	v.SetDefault("document.locale", "de-DE")
	v.SetDefault("document.currency", "EUR")

	v.SetDefault("preview.debounce", "300ms")
	v.SetDefault("preview.mock_data", MockDataAuto)

	v.SetDefault("editor.max_history", 50)
	v.SetDefault("editor.grid_size", 5.0)
	v.SetDefault("editor.snap_to_grid", true)
	v.SetDefault("editor.zoom", 1.0)

	v.SetDefault("templates.dir", ".docket/templates")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the global Viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes and validates the settings held by v. The document type
// is normalized to its canonical name.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfig(err, "cannot decode configuration")
	}

	// Comma-separated lists arrive from the environment as one string.
	cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	if t, err := layout.ParseDocumentType(cfg.Document.Type); err == nil {
		cfg.Document.Type = string(t)
	}
	return &cfg, nil
}

// DocumentType returns the configured document type.
func (c *Config) DocumentType() layout.DocumentType {
	t, err := layout.ParseDocumentType(c.Document.Type)
	if err != nil {
		return layout.Invoice
	}
	return t
}

// Formatter returns the value formatter for the configured locale.
func (c *Config) Formatter() (*binding.Formatter, error) {
	return binding.NewFormatter(c.Document.Locale, c.Document.Currency)
}

// MockDataEnabled reports whether previews fill unresolved paths.
func (c *Config) MockDataEnabled() bool {
	return c.Preview.MockData == MockDataAuto
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	lc.Format = c.Log.Format
	return lc
}
