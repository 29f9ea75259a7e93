package scene

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the fixed cycle of entry colors: red, green, blue, yellow, magenta, cyan.
var Palette = [...]colorful.Color{
	{R: 1, G: 0, B: 0},
	{R: 0, G: 1, B: 0},
	{R: 0, G: 0, B: 1},
	{R: 1, G: 1, B: 0},
	{R: 1, G: 0, B: 1},
	{R: 0, G: 1, B: 1},
}

// PaletteColor returns the color of the entry at index i. Colors repeat every len(Palette) entries.
func PaletteColor(i int) color.NRGBA {
	r, g, b := Palette[i%len(Palette)].RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
