package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL validates URLs handed to the system browser by `serve --open`.
// It rejects anything that could smuggle shell syntax into the opener.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}

	dangerous := []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r"}
	for _, char := range dangerous {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %s", char)
		}
	}

	if strings.Contains(rawURL, " ") {
		return fmt.Errorf("URL contains spaces")
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// ImageSchemes are the URL schemes an image component may reference.
var ImageSchemes = []string{"http", "https", "data"}

// ValidateImageURL checks an image component's URL. Remote images need a
// host; data URLs must carry an image media type.
func ValidateImageURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return fmt.Errorf("image URL is empty")
	}

	if strings.HasPrefix(strings.ToLower(trimmed), "data:") {
		if !strings.HasPrefix(strings.ToLower(trimmed), "data:image/") {
			return fmt.Errorf("data URL must have an image media type")
		}
		return nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid image URL: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("invalid image URL scheme %q (allowed: %s)", parsed.Scheme, strings.Join(ImageSchemes, ", "))
	}
	if parsed.Host == "" {
		return fmt.Errorf("image URL must have a hostname")
	}
	for _, char := range []string{"<", ">", "\"", "`", "\n", "\r"} {
		if strings.Contains(trimmed, char) {
			return fmt.Errorf("image URL contains dangerous character: %q", char)
		}
	}
	return nil
}
