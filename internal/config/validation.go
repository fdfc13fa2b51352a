package config

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/logging"
	"github.com/conneroisu/docket/internal/validation"
)

// Validate checks every setting and reports all problems at once.
func Validate(cfg *Config) error {
	var vec errors.ValidationErrorCollection

	validateServer(&vec, &cfg.Server)
	validateDocument(&vec, &cfg.Document)
	validatePreview(&vec, &cfg.Preview)
	validateEditor(&vec, &cfg.Editor)

	if cfg.Templates.Dir != "" {
		if err := validation.ValidatePath(cfg.Templates.Dir); err != nil {
			vec.AddField("templates.dir", cfg.Templates.Dir, err.Error())
		}
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		vec.AddField("log.level", cfg.Log.Level, err.Error(), "use debug, info, warn or error")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		vec.AddField("log.format", cfg.Log.Format, "unknown log format", "use text or json")
	}

	if !vec.HasErrors() {
		return nil
	}
	de := vec.ToDocketError()
	de.Type = errors.ErrorTypeConfig
	de.Code = errors.ErrCodeConfigInvalid
	return de
}

func validateServer(vec *errors.ValidationErrorCollection, s *ServerConfig) {
	if s.Port < 1 || s.Port > 65535 {
		vec.AddField("server.port", s.Port, "port must be between 1 and 65535")
	}
	if strings.TrimSpace(s.Host) == "" {
		vec.AddField("server.host", s.Host, "host cannot be empty")
	} else if strings.ContainsAny(s.Host, ";&|`$<> /") {
		vec.AddField("server.host", s.Host, "host contains invalid characters")
	}
	for i, origin := range s.AllowedOrigins {
		if strings.Contains(origin, "://") {
			u, err := url.Parse(origin)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				vec.AddField(fmt.Sprintf("server.allowed_origins[%d]", i), origin, "origin must be an http or https URL or a host")
			}
		}
	}
}

func validateDocument(vec *errors.ValidationErrorCollection, d *DocumentConfig) {
	if _, err := layout.ParseDocumentType(d.Type); err != nil {
		names := make([]string, 0, len(layout.DocumentTypes()))
		for _, t := range layout.DocumentTypes() {
			names = append(names, string(t))
		}
		vec.AddField("document.type", d.Type, "unknown document type", "use one of: "+strings.Join(names, ", "))
	}
	if _, err := language.Parse(d.Locale); err != nil {
		vec.AddField("document.locale", d.Locale, "invalid locale: "+err.Error(), "use a BCP 47 tag such as de-DE")
	}
	if _, err := currency.ParseISO(d.Currency); err != nil {
		vec.AddField("document.currency", d.Currency, "invalid currency: "+err.Error(), "use an ISO 4217 code such as EUR")
	}
	for _, p := range []struct{ field, path string }{{"document.layout", d.Layout}, {"document.data", d.Data}} {
		if p.path == "" {
			continue
		}
		if err := validation.ValidatePath(p.path); err != nil {
			vec.AddField(p.field, p.path, err.Error())
		}
	}
}

func validatePreview(vec *errors.ValidationErrorCollection, p *PreviewConfig) {
	if p.Debounce <= 0 {
		vec.AddField("preview.debounce", p.Debounce, "debounce must be positive")
	}
	switch p.MockData {
	case MockDataAuto, MockDataNone:
	default:
		vec.AddField("preview.mock_data", p.MockData, "unknown mock data mode", "use auto or none")
	}
}

func validateEditor(vec *errors.ValidationErrorCollection, e *EditorConfig) {
	if e.MaxHistory <= 0 {
		vec.AddField("editor.max_history", e.MaxHistory, "max history must be positive")
	}
	if e.GridSize <= 0 {
		vec.AddField("editor.grid_size", e.GridSize, "grid size must be positive")
	}
	if e.Zoom <= 0 {
		vec.AddField("editor.zoom", e.Zoom, "zoom must be positive")
	}
}
