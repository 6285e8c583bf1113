package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// cellNameRegex matches cell and component names safe for registries,
// filenames, and GDS structure names.
var cellNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateCellName validates a cell name for safety and correctness.
// It rejects names that could be used for path traversal or injection
// when the name becomes a cache key or an output filename.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Must start with a letter or digit
//   - Only letters, digits, dot, underscore, and dash
//   - Maximum length of 256 characters
//
// Whether the cell actually exists is checked separately by the registry.
func ValidateCellName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCell, "cell name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidCell, "cell name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCell, "cell name contains invalid control characters")
		}
	}

	if !cellNameRegex.MatchString(name) {
		return New(ErrCodeInvalidCell, "invalid cell name: %q", name)
	}

	return nil
}

// ValidatePortName validates a port name from user input. Port names are
// free-form on components, so this only rejects clearly dangerous input.
func ValidatePortName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "port name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "port name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "port name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "port name cannot contain path separators")
	}

	return nil
}

// layerNameRegex matches named layer specs ("M3", "VIA1").
var layerNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// layerPairRegex matches numeric layer specs ("49/0").
var layerPairRegex = regexp.MustCompile(`^[0-9]+/[0-9]+$`)

// ValidateLayerSpec validates a layer spec string. A spec is either a
// stack layer name or a "number/datatype" pair. Whether a named layer
// exists in the active stack is checked separately at resolution time.
func ValidateLayerSpec(spec string) error {
	if spec == "" {
		return New(ErrCodeInvalidLayer, "layer spec cannot be empty")
	}

	if len(spec) > 64 {
		return New(ErrCodeInvalidLayer, "layer spec too long (max 64 characters)")
	}

	if strings.Contains(spec, "/") {
		if !layerPairRegex.MatchString(spec) {
			return New(ErrCodeInvalidLayer, "invalid layer pair: %q (want number/datatype)", spec)
		}
		return nil
	}

	if !layerNameRegex.MatchString(spec) {
		return New(ErrCodeInvalidLayer, "invalid layer name: %q", spec)
	}

	return nil
}

// ValidatePath validates a file path supplied through the API for safety.
// It prevents path traversal attacks and ensures reasonable path length.
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
