package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const TodoTextMaxLength = 1000

// NormalizeTodoText trims the text and converts it to NFC so visually
// identical texts are stored the same way.
func NormalizeTodoText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// ValidateTodoText validates todo text after trimming
func ValidateTodoText(text string) error {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return errors.New("text is required")
	}

	if utf8.RuneCountInString(trimmed) > TodoTextMaxLength {
		return errors.New("text is too long (max 1000 characters)")
	}

	return nil
}
