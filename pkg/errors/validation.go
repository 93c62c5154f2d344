package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a source path or base directory received from an
// untrusted caller (the report server). It prevents path traversal and
// ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateBaseDir validates a group base directory. An empty base directory
// (the working directory) is allowed; anything else must be a valid relative
// path ending in a separator, since paths are joined by concatenation.
func ValidateBaseDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := ValidatePath(dir); err != nil {
		return err
	}
	if !strings.HasSuffix(dir, "/") {
		return New(ErrCodeInvalidPath, "base directory %q must end with /", dir)
	}
	return nil
}
