package typer

import (
	"testing"

	"github.com/aeolun/reactype/pkg/emoji"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorMode_Next(t *testing.T) {
	assert.Equal(t, ModeOrange, ModeWhite.Next())
	assert.Equal(t, ModeAlternating, ModeOrange.Next())
	assert.Equal(t, ModeWhite, ModeAlternating.Next())
}

func TestColorMode_ColorAt(t *testing.T) {
	for i := 0; i < 6; i++ {
		assert.Equal(t, emoji.White, ModeWhite.ColorAt(i))
		assert.Equal(t, emoji.Orange, ModeOrange.ColorAt(i))
	}
	assert.Equal(t, emoji.White, ModeAlternating.ColorAt(0))
	assert.Equal(t, emoji.Orange, ModeAlternating.ColorAt(1))
	assert.Equal(t, emoji.White, ModeAlternating.ColorAt(4))
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in   string
		want ColorMode
	}{
		{"", ModeWhite},
		{"white", ModeWhite},
		{"Orange", ModeOrange},
		{"yellow", ModeOrange},
		{" alternating ", ModeAlternating},
		{"alternate", ModeAlternating},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseColorMode("purple")
	assert.Error(t, err)
}

func TestColorMode_Label(t *testing.T) {
	assert.Equal(t, "White", ModeWhite.Label())
	assert.Equal(t, "Alternating", ModeAlternating.Label())
}
