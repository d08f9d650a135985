package errors

import (
	"strings"
	"unicode"
)

// MaxNameLength bounds taxon and character names.
const MaxNameLength = 256

// ValidateName checks a taxon or character name read from a matrix header or
// row. kind is used in the message ("taxon", "character").
//
// The rules:
//   - No empty or whitespace-only names
//   - No control characters (tabs and newlines included)
//   - Maximum length of MaxNameLength bytes
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "%s name cannot be empty", kind)
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "%s name too long (max %d characters)", kind, MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s name %q contains control characters", kind, name)
		}
	}

	return nil
}

// ValidateOutputName validates a name used as a single directory component
// under an output directory, such as a batch result folder derived from an
// input file name.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "output name cannot be empty")
	}

	if name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return New(ErrCodeInvalidName, "output name %q must be a plain file name", name)
	}

	// Hidden directories would be skipped by most tools scanning results.
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "output name %q cannot start with a dot", name)
	}

	return nil
}
