// Package passpolicy validates new passwords against a strength policy:
// minimum length, not numeric-only, not a commonly used password, and not
// too similar to the user's own attributes (email, name).
package passpolicy

import (
	"errors"
	"strings"
	"unicode"
)

// Policy checks candidate passwords. The zero value is not usable; use
// Default or construct one explicitly.
type Policy struct {
	MinLength int
}

// Default returns the standard policy used by registration and password reset.
func Default() Policy {
	return Policy{MinLength: 8}
}

var (
	ErrTooShort    = errors.New("passpolicy: password is too short")
	ErrNumericOnly = errors.New("passpolicy: password is entirely numeric")
	ErrTooCommon   = errors.New("passpolicy: password is too common")
	ErrTooSimilar  = errors.New("passpolicy: password is too similar to personal info")
)

// Check validates password against the policy. userAttributes are personal
// values (email, full name) the password must not closely resemble.
func (p Policy) Check(password string, userAttributes ...string) error {
	if len(password) < p.MinLength {
		return ErrTooShort
	}
	if isNumericOnly(password) {
		return ErrNumericOnly
	}
	if isCommon(password) {
		return ErrTooCommon
	}
	if similarToAttributes(password, userAttributes) {
		return ErrTooSimilar
	}
	return nil
}

func isNumericOnly(password string) bool {
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isCommon(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}

// similarToAttributes reports whether the password closely resembles any of
// the user's attributes. Attributes are split on whitespace and the local
// part of email addresses; short fragments are ignored so "Al" in an email
// doesn't reject every password containing "al".
func similarToAttributes(password string, attributes []string) bool {
	lower := strings.ToLower(password)

	for _, attr := range attributes {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}

		// Whole attribute plus its fragments: words in a name, the local
		// part of an email.
		fragments := strings.FieldsFunc(attr, func(r rune) bool {
			return r == ' ' || r == '@' || r == '.' || r == '_' || r == '-' || r == '+'
		})
		fragments = append(fragments, attr)

		for _, frag := range fragments {
			if len(frag) < 4 {
				continue
			}
			if strings.Contains(lower, frag) || strings.Contains(frag, lower) {
				return true
			}
		}
	}
	return false
}
