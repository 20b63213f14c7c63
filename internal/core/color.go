package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Palette used by the watch view.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// heatRamp runs cold to hot.
var heatRamp = []Color{
	ColorGray,
	ColorBlue,
	ColorCyan,
	ColorGreen,
	ColorYellow,
	ColorOrange,
	ColorRed,
	ColorBrightRed,
}

// heatGlyphs pairs with heatRamp so the map stays readable without color.
var heatGlyphs = []rune{'.', ':', '-', '=', '+', '*', '#', '@'}

// Heat maps a load fraction in [0, 1] to a cell. Zero is rendered blank.
func Heat(frac float64) Cell {
	if frac <= 0 {
		return Cell{Rune: ' ', Color: ColorDefault}
	}
	frac = ClampF(frac, 0, 1)
	i := int(frac * float64(len(heatRamp)-1))
	return Cell{Rune: heatGlyphs[i], Color: heatRamp[i]}
}
