package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// formatNameRegex matches input-format identifiers ("toml", "yaml", ...).
var formatNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// ValidateFormatName validates an input-format identifier as supplied via
// --from flags or the HTTP API's from parameter. It checks shape only;
// whether the format is actually supported is decided by the decoder
// registry.
func ValidateFormatName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFormat, "format name cannot be empty")
	}
	if !formatNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFormat, "invalid format name: %q", name)
	}
	return nil
}

// ValidateInputPath validates a local document path for safety.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//
// Absolute paths are fine; the CLI reads whatever file the user points it
// at. This guards against junk that later turns into confusing I/O errors.
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateListenAddr validates a host:port listen address for the serve
// command. The host part may be empty (":8080" binds all interfaces).
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "listen address cannot be empty")
	}

	idx := strings.LastIndex(addr, ":")
	if idx < 0 || idx == len(addr)-1 {
		return New(ErrCodeInvalidInput, "listen address must include a port: %q", addr)
	}

	port := addr[idx+1:]
	for _, r := range port {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidInput, "invalid port in listen address: %q", addr)
		}
	}

	return nil
}
