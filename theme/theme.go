// Package theme manages the light/dark display preference of a visitor.
//
// A Switch holds the current value for one visitor and notifies subscribers
// when it changes. A Registry owns the switches, resolves their initial value
// from a Store or the browser's color-scheme hint, and evicts idle ones.
package theme

import (
	"errors"
	"strings"
)

// Theme is a two-valued display mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ErrInvalidTheme is returned when a value is neither "light" nor "dark".
var ErrInvalidTheme = errors.New("theme: invalid value")

// Parse converts s to a Theme. Surrounding space and case are ignored.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", ErrInvalidTheme
}

// Complement returns the other theme.
func (t Theme) Complement() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Valid reports whether t is Light or Dark.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

func (t Theme) String() string {
	return string(t)
}

// HintHeader is the client hint carrying the user agent's color scheme.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// FromHint parses a Sec-CH-Prefers-Color-Scheme value. Browsers send it
// quoted ("dark"); ok is false when the hint is missing or unrecognised.
func FromHint(v string) (Theme, bool) {
	t, err := Parse(strings.Trim(v, `"`))
	if err != nil {
		return "", false
	}
	return t, true
}
