package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// widgetNameRegex matches scene widget names: a letter or underscore
// followed by letters, digits, '_', '-' or '.'.
var widgetNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateWidgetName validates a widget name used in scene files.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Must start with a letter or underscore
//   - Only letters, digits, '_', '-' and '.' afterwards
func ValidateWidgetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "widget name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "widget name too long (max 128 characters)")
	}

	if !widgetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid widget name: %q", name)
	}

	return nil
}

// ValidateFormat checks that format is one of the supported output formats.
func ValidateFormat(format string, supported []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(supported, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", format, strings.Join(supported, ", "))
	}
	return nil
}

// maxPathLength bounds paths named in scene files.
const maxPathLength = 500

// ValidatePath checks a path named in a scene file, such as an image. The
// path must be relative, use forward slashes, stay below the scene's
// directory and contain no control characters.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.ContainsFunc(path, unicode.IsControl):
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path must be relative: %q", path)
	case strings.Contains(path, "\\"):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes: %q", path)
	}
	for _, elem := range strings.Split(path, "/") {
		if elem == ".." {
			return New(ErrCodeInvalidPath, "path leaves the scene directory: %q", path)
		}
	}
	return nil
}
