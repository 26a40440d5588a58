package chart

import (
	"slices"

	"TradeView/internal/model"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palettes hold the per-scheme series colours as hex without the leading '#'.
var palettes = map[model.ColorScheme][]string{
	model.SchemeBlue:   {"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd", "8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf"},
	model.SchemeGreen:  {"1b9e77", "d95f02", "7570b3", "e7298a", "66a61e", "e6ab02", "a6761d", "666666", "4daf4a", "377eb8"},
	model.SchemePurple: {"6a3d9a", "cab2d6", "e31a1c", "fb9a99", "33a02c", "b2df8a", "1f78b4", "a6cee3", "ff7f00", "fdbf6f"},
	model.SchemeOrange: {"e6550d", "3182bd", "31a354", "756bb1", "636363", "fd8d3c", "6baed6", "74c476", "9e9ac8", "969696"},
}

// Palette returns the ordered colours of scheme, falling back to blue.
func Palette(scheme model.ColorScheme) []string {
	if p, ok := palettes[scheme]; ok {
		return p
	}
	return palettes[model.SchemeBlue]
}

// ColorFor picks year's colour by its index in the sorted years list, so the
// same year keeps the same colour on every render.
func ColorFor(scheme model.ColorScheme, years []int, year int) string {
	p := Palette(scheme)
	i, found := slices.BinarySearch(years, year)
	if !found {
		i = len(years)
	}
	return p[i%len(p)]
}

type theme struct {
	background drawing.Color
	foreground drawing.Color
	grid       drawing.Color
}

func themeFor(mode model.ThemeMode) theme {
	if mode == model.ThemeDark {
		return theme{
			background: drawing.ColorFromHex("121212"),
			foreground: drawing.ColorFromHex("e0e0e0"),
			grid:       drawing.ColorFromHex("424242"),
		}
	}
	return theme{
		background: drawing.ColorWhite,
		foreground: drawing.ColorFromHex("212121"),
		grid:       drawing.ColorFromHex("e0e0e0"),
	}
}
