package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxItemNameLength bounds item labels so they stay printable in a terminal.
const maxItemNameLength = 256

// ValidateItemName validates the label of an item being ranked.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters (including newlines)
//   - Maximum length of 256 characters
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidItem, "item name cannot be empty")
	}

	if len(name) > maxItemNameLength {
		return New(ErrCodeInvalidItem, "item name too long (max %d characters)", maxItemNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "item name contains invalid control characters")
		}
	}

	return nil
}

// ValidateItems validates a full item list for a new session.
// At least two items are required and names must be unique.
func ValidateItems(items []string) error {
	if len(items) < 2 {
		return New(ErrCodeInvalidInput, "at least 2 items are required, got %d", len(items))
	}

	seen := make(map[string]int, len(items))
	for i, name := range items {
		if err := ValidateItemName(name); err != nil {
			return Wrap(ErrCodeInvalidItem, err, "item %d", i)
		}
		if j, dup := seen[name]; dup {
			return New(ErrCodeDuplicateItem, "item %q appears at positions %d and %d", name, j, i)
		}
		seen[name] = i
	}
	return nil
}

// sessionIDRegex matches the identifiers accepted by session stores.
// Generated IDs are UUIDs, but hand-picked IDs are allowed for scripting.
var sessionIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidateSessionID validates a session identifier.
// IDs double as file names and redis keys, so path separators,
// traversal sequences and whitespace are rejected.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSession, "session ID cannot be empty")
	}

	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidSession, "invalid session ID: %q", id)
	}

	return nil
}
