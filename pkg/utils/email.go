package utils

import "strings"

// IsValidEmail reports whether s looks like local@domain.tld: exactly one @
// separating non-empty halves, no whitespace anywhere, and at least one dot
// in the domain with non-empty segments around the last one.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}

	domain := s[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return true
}
