// Package sanitize normalizes free-text fields before validation and
// persistence. Cleaning is idempotent: applying Clean to its own output
// returns the same string.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"regexp"

	apperrors "fintrack/internal/errors"
)

const (
	// maxLength is the upper bound on a cleaned description, including the
	// truncation marker.
	maxLength = 255

	// minLength is the minimum number of characters a description must have
	// after cleaning.
	minLength = 3

	truncationMarker = "..."
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean normalizes a description string: strips HTML-like tags, removes
// angle/curly/square brackets, collapses whitespace runs to a single space,
// trims, and truncates to maxLength with a trailing marker. It returns an
// INVALID_FORMAT error if the cleaned text still contains non-printable
// characters or is shorter than minLength.
func Clean(s string) (string, error) {
	out := tagPattern.ReplaceAllString(s, "")
	out = strings.Map(dropBracket, out)
	out = whitespacePattern.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)

	if utf8.RuneCountInString(out) > maxLength {
		runes := []rune(out)
		out = strings.TrimSpace(string(runes[:maxLength-len(truncationMarker)])) + truncationMarker
	}

	for _, r := range out {
		if !unicode.IsPrint(r) {
			return "", apperrors.WithMessage(apperrors.ErrInvalidFormat, "description contains non-printable characters")
		}
	}

	if utf8.RuneCountInString(out) < minLength {
		return "", apperrors.WithMessage(apperrors.ErrInvalidFormat, "description must be at least 3 characters after cleaning")
	}

	return out, nil
}

func dropBracket(r rune) rune {
	switch r {
	case '<', '>', '{', '}', '[', ']':
		return -1
	}
	return r
}
