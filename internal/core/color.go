package core

// Color is the foreground of a screen cell. Terrain, units and overlays
// pick from this palette; the platform decides how it is shown.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
)

var ansiCodes = [...]string{
	ColorDefault:      "",
	ColorRed:          "1",
	ColorGreen:        "2",
	ColorYellow:       "3",
	ColorBlue:         "4",
	ColorCyan:         "6",
	ColorWhite:        "7",
	ColorBrightGreen:  "10",
	ColorBrightYellow: "11",
	ColorOrange:       "208",
	ColorGray:         "245",
}

// ANSI returns the 256-color palette index for c, or "" for the terminal
// default. Unknown colors fall back to the default.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}
