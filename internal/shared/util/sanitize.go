package util

import (
	"errors"
	"strings"
)

// SanitizeSegment makes s safe to use as a single file name or object key
// segment. Path separators and whitespace become underscores; traversal
// patterns are rejected.
func SanitizeSegment(s string) (string, error) {
	if strings.Contains(s, "..") {
		return "", errors.New("invalid path segment")
	}
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
	if s == "" {
		return "", errors.New("invalid path segment")
	}
	return s, nil
}
