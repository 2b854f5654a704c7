// ABOUTME: Maps typed characters to alphabet reaction names and back
// ABOUTME: Rebuilds a typed sequence from reactions already on a message

package emoji

import (
	"strings"
	"unicode"
)

// Color is the concrete palette a single letter is drawn in
type Color int

const (
	White Color = iota
	Orange
)

// Colors lists every palette in a stable order
var Colors = []Color{White, Orange}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Orange:
		return "orange"
	default:
		return "unknown"
	}
}

// token is the color segment used in reaction names; the orange pack is named yellow
func (c Color) token() string {
	switch c {
	case Orange:
		return "yellow"
	default:
		return "white"
	}
}

func colorFromToken(tok string) (Color, bool) {
	switch tok {
	case "white":
		return White, true
	case "yellow":
		return Orange, true
	}
	return 0, false
}

var symbolNames = map[rune]string{
	'@': "at",
	'!': "exclamation",
	'?': "question",
	'#': "hash",
}

var symbolsByName = func() map[string]rune {
	m := make(map[string]rune, len(symbolNames))
	for r, name := range symbolNames {
		m[name] = r
	}
	return m
}()

// DefaultPrefix is the name prefix of the alphabet emoji pack
const DefaultPrefix = "alphabet"

// Codec encodes characters using a specific emoji pack prefix
type Codec struct {
	Prefix string
}

// Default is the codec for the standard alphabet pack
var Default = Codec{Prefix: DefaultPrefix}

// Supported reports whether ch can be typed as a reaction
func Supported(ch rune) bool {
	if ch > unicode.MaxASCII {
		return false
	}
	ch = Upper(ch)
	if ch >= 'A' && ch <= 'Z' {
		return true
	}
	_, ok := symbolNames[ch]
	return ok
}

// Upper folds ASCII a-z to A-Z and leaves every other rune alone. Unicode case
// mapping is avoided: it folds runes like 'ſ' and 'ı' onto S and I.
func Upper(ch rune) rune {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

// Encode returns the reaction name for ch in color. ok is false for characters
// outside A-Z and the symbol set.
func (c Codec) Encode(ch rune, color Color) (name string, ok bool) {
	if !Supported(ch) {
		return "", false
	}
	charToken, isSymbol := symbolNames[ch]
	if !isSymbol {
		charToken = string(Upper(ch) - 'A' + 'a')
	}
	return c.prefix() + "-" + color.token() + "-" + charToken, true
}

// Decode is the inverse of Encode. Names outside the pack grammar report false.
func (c Codec) Decode(name string) (ch rune, color Color, ok bool) {
	rest, found := strings.CutPrefix(name, c.prefix()+"-")
	if !found {
		return 0, 0, false
	}
	colorTok, charTok, found := strings.Cut(rest, "-")
	if !found {
		return 0, 0, false
	}
	color, ok = colorFromToken(colorTok)
	if !ok {
		return 0, 0, false
	}
	if r, isSymbol := symbolsByName[charTok]; isSymbol {
		return r, color, true
	}
	if len(charTok) == 1 && charTok[0] >= 'a' && charTok[0] <= 'z' {
		return Upper(rune(charTok[0])), color, true
	}
	return 0, 0, false
}

func (c Codec) prefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

// Encode uses the default codec
func Encode(ch rune, color Color) (string, bool) {
	return Default.Encode(ch, color)
}

// Decode uses the default codec
func Decode(name string) (rune, Color, bool) {
	return Default.Decode(name)
}
