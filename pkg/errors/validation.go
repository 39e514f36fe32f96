package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxLabelLength bounds a single label; longer text cannot fit left of the squares anyway.
const maxLabelLength = 256

// presetNameRegex matches preset identifiers such as "flood-1in500".
var presetNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidatePresetName validates a preset identifier for safety and correctness.
// Names arrive from the command line and from URL paths of the display server,
// so anything that could be used for path traversal is rejected.
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "preset name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidName, "preset name too long (max 64 characters)")
	}
	if !presetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid preset name: %q", name)
	}
	return nil
}

// ValidateLabel validates a single label string.
//
// Labels are drawn as text next to the squares. Control characters (including
// newlines) break the single-line placement and are rejected.
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label %q contains control characters", label)
		}
	}
	return nil
}

// ValidateOutputPath validates an output file path given on the command line.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "output path contains a null byte")
	}
	return nil
}
