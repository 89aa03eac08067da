package middleware

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// ValidateSessionID validates a client supplied session ID.
func ValidateSessionID(id string) error {
	if len(id) > 128 {
		return errors.New("session ID exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("session ID must be valid UTF-8")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return errors.New("invalid session ID format")
		}
	}
	return nil
}

// ValidateTitle validates a presentation title.
func ValidateTitle(title string) error {
	if len(title) > 256 {
		return errors.New("title exceeds maximum length")
	}
	if !utf8.ValidString(title) {
		return errors.New("title must be valid UTF-8")
	}
	return nil
}
