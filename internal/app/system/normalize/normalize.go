// Package normalize provides small canonicalization helpers applied at every
// boundary where user- or store-supplied values enter the system. Keeping
// them in one place means stores and handlers agree on what "the same email"
// means.
package normalize

import "strings"

// Email lowercases and trims an email address. Member identity is keyed by
// this normalized form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
