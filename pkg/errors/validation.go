package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// MaxViewportEdge bounds either viewport dimension.
const MaxViewportEdge = 16384

// ValidateEntityID validates a roster id for safety. Ids end up in URL
// paths, cache keys and DOT identifiers, so the rules are conservative:
//   - No empty ids
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateEntityID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidEntity, "entity id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidEntity, "entity id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEntity, "entity id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidEntity, "entity id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateViewport validates viewport dimensions. Zero means "unknown" and
// is accepted; negative, non-finite or absurdly large values are not.
func ValidateViewport(width, height float64) error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"width", width}, {"height", height}} {
		switch {
		case math.IsNaN(v.value) || math.IsInf(v.value, 0):
			return New(ErrCodeInvalidViewport, "viewport %s must be finite", v.name)
		case v.value < 0:
			return New(ErrCodeInvalidViewport, "viewport %s cannot be negative: %v", v.name, v.value)
		case v.value > MaxViewportEdge:
			return New(ErrCodeInvalidViewport, "viewport %s too large (max %d): %v", v.name, MaxViewportEdge, v.value)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidatePath validates a file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateMongoURI validates a MongoDB connection string scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "mongo URI cannot be empty")
	}

	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "mongo URI must use the mongodb or mongodb+srv scheme")
	}

	return nil
}
