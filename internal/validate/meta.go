// Package validate implements client-side format rules for upload metadata.
// Validation failures are resolved locally and never reach the network layer.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
)

var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// IsURL reports whether s is a well-formed http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsNumeric reports whether s is a decimal number, optionally signed,
// optionally with a fractional part.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(strings.TrimSpace(s))
}

// MetaValue checks a metadata value against its type-specific rule.
// An empty (or whitespace-only) value is valid for every type; non-empty
// url and number values must parse, and every value is length-capped.
func MetaValue(value string, typ models.MetaType) bool {
	if len(value) > constants.MetaValueMaxLength {
		return false
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	switch typ {
	case models.MetaTypeURL:
		return IsURL(value)
	case models.MetaTypeNumber:
		return IsNumeric(value)
	case models.MetaTypeInput, models.MetaTypeText:
		return true
	default:
		return false
	}
}

// MetaEntry checks one metadata entry: known type, name length, and the
// type-specific value rule. Returns nil when the entry is valid.
func MetaEntry(entry models.MetaEntry) error {
	switch entry.Type {
	case models.MetaTypeURL, models.MetaTypeInput, models.MetaTypeText, models.MetaTypeNumber:
	default:
		return fmt.Errorf("metadata %q: unknown type %q", entry.Name, entry.Type)
	}
	if len(strings.TrimSpace(entry.Name)) > constants.MetaNameMaxLength {
		return fmt.Errorf("metadata %q: name exceeds %d characters", entry.Name, constants.MetaNameMaxLength)
	}
	if !MetaValue(entry.Value, entry.Type) {
		return fmt.Errorf("metadata %q: value %q is not a valid %s", entry.Name, entry.Value, entry.Type)
	}
	return nil
}

// MetaEntries checks an ordered list of entries, reporting the first failure.
func MetaEntries(entries []models.MetaEntry) error {
	for i, entry := range entries {
		if err := MetaEntry(entry); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}
