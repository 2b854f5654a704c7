package typer

import (
	"fmt"
	"strings"

	"github.com/aeolun/reactype/pkg/emoji"
)

// ColorMode picks the palette for newly typed letters
type ColorMode int

const (
	ModeWhite ColorMode = iota
	ModeOrange
	ModeAlternating
)

// Modes lists every mode in cycle order
var Modes = []ColorMode{ModeWhite, ModeOrange, ModeAlternating}

// Next returns the mode that follows m, wrapping around
func (m ColorMode) Next() ColorMode {
	return Modes[(int(m)+1)%len(Modes)]
}

// ColorAt returns the color a letter gets at position index.
// Alternating mode paints even positions white and odd positions orange.
func (m ColorMode) ColorAt(index int) emoji.Color {
	switch m {
	case ModeOrange:
		return emoji.Orange
	case ModeAlternating:
		if index%2 == 1 {
			return emoji.Orange
		}
		return emoji.White
	default:
		return emoji.White
	}
}

func (m ColorMode) String() string {
	switch m {
	case ModeWhite:
		return "white"
	case ModeOrange:
		return "orange"
	case ModeAlternating:
		return "alternating"
	default:
		return "unknown"
	}
}

// Label is the capitalized name shown in the UI
func (m ColorMode) Label() string {
	s := m.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseColorMode reads a mode name as written in the config file
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "white":
		return ModeWhite, nil
	case "orange", "yellow":
		return ModeOrange, nil
	case "alternating", "alternate":
		return ModeAlternating, nil
	}
	return ModeWhite, fmt.Errorf("unknown color mode %q (must be white, orange or alternating)", s)
}
