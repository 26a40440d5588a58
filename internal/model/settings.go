package model

import (
	"fmt"
	"slices"
)

// ThemeMode is the dark/light switch.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Valid reports whether m is a known mode.
func (m ThemeMode) Valid() bool { return m == ThemeLight || m == ThemeDark }

// ColorScheme is the named palette used by the chrome and the charts.
type ColorScheme string

const (
	SchemeBlue   ColorScheme = "blue"
	SchemeGreen  ColorScheme = "green"
	SchemePurple ColorScheme = "purple"
	SchemeOrange ColorScheme = "orange"
)

// ColorSchemes lists every supported scheme in display order.
var ColorSchemes = []ColorScheme{SchemeBlue, SchemeGreen, SchemePurple, SchemeOrange}

// Valid reports whether c is a known scheme.
func (c ColorScheme) Valid() bool { return slices.Contains(ColorSchemes, c) }

// Settings is the persisted user preference set.
type Settings struct {
	Mode   ThemeMode   `json:"mode"`
	Scheme ColorScheme `json:"color_scheme"`
}

// DefaultSettings is used when nothing has been stored yet.
func DefaultSettings() Settings {
	return Settings{Mode: ThemeLight, Scheme: SchemeBlue}
}

// Validate rejects unknown modes and schemes.
func (s Settings) Validate() error {
	if !s.Mode.Valid() {
		return fmt.Errorf("unknown theme mode %q", s.Mode)
	}
	if !s.Scheme.Valid() {
		return fmt.Errorf("unknown color scheme %q", s.Scheme)
	}
	return nil
}
