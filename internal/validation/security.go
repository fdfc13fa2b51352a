package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ValidateArgument validates a command line argument passed to the browser
// opener.
func ValidateArgument(arg string) error {
	dangerous := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\\", "\"", "'"}
	for _, char := range dangerous {
		if strings.Contains(arg, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	if strings.Contains(arg, "..") {
		return fmt.Errorf("contains path traversal: %s", arg)
	}

	return nil
}

// ValidateCommand validates a command name against an allowlist.
func ValidateCommand(command string, allowedCommands map[string]bool) error {
	if command == "" {
		return fmt.Errorf("command cannot be empty")
	}

	if !allowedCommands[command] {
		return fmt.Errorf("command '%s' is not allowed", command)
	}

	if err := ValidateArgument(command); err != nil {
		return fmt.Errorf("invalid command '%s': %w", command, err)
	}

	return nil
}

// ValidatePath validates a layout or data file path.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	parts := strings.FieldsFunc(cleanPath, func(r rune) bool { return r == '/' || r == '\\' })
	for _, part := range parts {
		if part == ".." {
			return fmt.Errorf("path traversal detected: %s", path)
		}
	}

	restrictedPaths := []string{
		"/etc/",
		"/proc/",
		"/sys/",
		"/dev/",
		"/boot/",
	}

	cleanPathLower := strings.ToLower(filepath.ToSlash(cleanPath))
	for _, restricted := range restrictedPaths {
		if strings.HasPrefix(cleanPathLower, restricted) {
			return fmt.Errorf("access to restricted path denied: %s", path)
		}
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\x00"}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %q", char)
		}
	}

	return nil
}

// ValidateTemplateName checks a stored template name. Names are single path
// elements without an extension.
func ValidateTemplateName(name string) error {
	if name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("template name %q must be a single path element", name)
	}
	return ValidatePath(name)
}

// ValidateOrigin validates a WebSocket origin for CSRF protection.
func ValidateOrigin(origin string, allowedOrigins []string) error {
	if origin == "" {
		return fmt.Errorf("origin header is required")
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin format: %w", err)
	}

	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return fmt.Errorf("invalid origin scheme '%s': only http and https are allowed", originURL.Scheme)
	}

	for _, allowed := range allowedOrigins {
		if origin == allowed || originURL.Host == allowed {
			return nil
		}
	}

	return fmt.Errorf("origin '%s' is not in allowed origins list", origin)
}

// LayoutExtensions are the file extensions a layout file may have.
var LayoutExtensions = []string{".json", ".yaml", ".yml"}

// ValidateFileExtension validates file extensions against an allowlist.
func ValidateFileExtension(filename string, allowedExtensions []string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("file must have an extension")
	}

	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}

	return fmt.Errorf("file extension '%s' is not allowed", ext)
}
