package xlogpub

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI foreground colours used by the colour format.
const (
	ansiReset  = "\033[39m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
	ansiWhite  = "\033[37m"
)

// Palette holds the colour markers. The zero Palette has every marker empty,
// which is what a terminal without colour support gets.
type Palette struct {
	Red, Yellow, Blue, Cyan, White, Reset string
}

// ANSIPalette is the palette for colour-capable terminals.
var ANSIPalette = Palette{
	Red:    ansiRed,
	Yellow: ansiYellow,
	Blue:   ansiBlue,
	Cyan:   ansiCyan,
	White:  ansiWhite,
	Reset:  ansiReset,
}

// PaletteFor returns ANSIPalette when enabled and the empty palette otherwise.
func PaletteFor(enabled bool) Palette {
	if enabled {
		return ANSIPalette
	}
	return Palette{}
}

// colourRule maps a subsystem label substring to a palette entry.
// Rules are checked in order, first match wins.
type colourRule struct {
	contains string
	pick     func(Palette) string
}

var systemColourRules = []colourRule{
	{"Controller", func(p Palette) string { return p.Blue }},
	{"Router", func(p Palette) string { return p.Yellow }},
	{"Container", func(p Palette) string { return p.Cyan }},
}

// SystemColour picks the colour for a subsystem label; White when no rule matches.
func (p Palette) SystemColour(label string) string {
	for _, r := range systemColourRules {
		if strings.Contains(label, r.contains) {
			return r.pick(p)
		}
	}
	return p.White
}

// ForceColourEnv overrides terminal detection: on/true/1 or off/false/0.
const ForceColourEnv = "XLOGPUB_FORCE_COLOR"

// ColourEnabled decides once whether w should receive colour markers.
// A non-empty NO_COLOR disables colour; ForceColourEnv wins over everything else.
func ColourEnabled(w any) bool {
	if v := os.Getenv(ForceColourEnv); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "on", "always":
			return true
		case "0", "false", "off", "never", "none":
			return false
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
