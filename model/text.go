// Package model holds the domain types for inspection conclusions.
package model

import "strings"

// Text is an optional string attribute. The zero value is absent, which is
// not the same thing as a present empty string.
type Text struct {
	value string
	ok    bool
}

// Some returns a present Text holding s (s may be empty).
func Some(s string) Text {
	return Text{value: s, ok: true}
}

// None returns an absent Text.
func None() Text {
	return Text{}
}

// NonBlank returns Some(trimmed s) when s has non-space content, None otherwise.
// Form input goes through here: a blank input means the field was not filled.
func NonBlank(s string) Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return None()
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (t Text) Get() (string, bool) {
	return t.value, t.ok
}

// Present reports whether the attribute is set.
func (t Text) Present() bool {
	return t.ok
}

// Or returns the value when present and def otherwise.
func (t Text) Or(def string) string {
	if t.ok {
		return t.value
	}
	return def
}

// String returns the value or "" when absent.
func (t Text) String() string {
	return t.value
}
