package emoji

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var supportedRunes = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz@!?#")

func TestEncode(t *testing.T) {
	tests := []struct {
		ch    rune
		color Color
		want  string
	}{
		{'h', White, "alphabet-white-h"},
		{'H', White, "alphabet-white-h"},
		{'i', Orange, "alphabet-yellow-i"},
		{'@', White, "alphabet-white-at"},
		{'!', Orange, "alphabet-yellow-exclamation"},
		{'?', White, "alphabet-white-question"},
		{'#', Orange, "alphabet-yellow-hash"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, ok := Encode(tt.ch, tt.color)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Unsupported(t *testing.T) {
	// 'ſ', 'ı' and the Kelvin sign fold onto S, I and k under Unicode case mapping
	for _, ch := range []rune{'1', ' ', '-', 'é', '😀', '$', 'ſ', 'ı', '\u212A'} {
		_, ok := Encode(ch, White)
		assert.False(t, ok, "%q should not encode", ch)
		assert.False(t, Supported(ch))
	}
}

func TestDecode_Rejects(t *testing.T) {
	names := []string{
		"thumbsup",
		"alphabet-white",
		"alphabet-white-",
		"alphabet-blue-a",
		"alphabet-white-ab",
		"alphabet-white-A",
		"alphabet-white-1",
		"alphabet-yellow-dollar",
		"other-white-a",
		"",
	}
	for _, name := range names {
		_, _, ok := Decode(name)
		assert.False(t, ok, "%q should not decode", name)
	}
}

func TestCodec_CustomPrefix(t *testing.T) {
	c := Codec{Prefix: "alpha"}

	name, ok := c.Encode('z', Orange)
	require.True(t, ok)
	assert.Equal(t, "alpha-yellow-z", name)

	_, _, ok = c.Decode("alphabet-yellow-z")
	assert.False(t, ok, "default pack names belong to another prefix")
}

// TestRoundTrip checks Decode(Encode(c, m)) == (upper(c), m) for every supported character
func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ch := rapid.SampledFrom(supportedRunes).Draw(t, "char")
		color := rapid.SampledFrom(Colors).Draw(t, "color")

		name, ok := Encode(ch, color)
		if !ok {
			t.Fatalf("encode %q failed", ch)
		}
		gotCh, gotColor, ok := Decode(name)
		if !ok {
			t.Fatalf("decode %q failed", name)
		}
		if gotCh != unicode.ToUpper(ch) || gotColor != color {
			t.Fatalf("round trip %q/%v -> %q -> %q/%v", ch, color, name, gotCh, gotColor)
		}
	})
}

func TestRoundTrip_AnyRune(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ch := rapid.Rune().Draw(t, "char")
		color := rapid.SampledFrom(Colors).Draw(t, "color")

		name, ok := Encode(ch, color)
		if ok != Supported(ch) {
			t.Fatalf("Encode(%q) ok=%v but Supported=%v", ch, ok, Supported(ch))
		}
		if !ok {
			return
		}
		gotCh, gotColor, ok := Decode(name)
		if !ok {
			t.Fatalf("decode %q failed", name)
		}
		if gotCh != Upper(ch) || gotColor != color {
			t.Fatalf("round trip %q/%v -> %q -> %q/%v", ch, color, name, gotCh, gotColor)
		}
		if gotCh > unicode.MaxASCII {
			t.Fatalf("%q decoded to non-ASCII %q", ch, gotCh)
		}
	})
}

func TestReconstructSequence(t *testing.T) {
	reactions := []Reaction{
		{Name: "alphabet-white-h", Count: 1},
		{Name: "thumbsup", Count: 4},
		{Name: "alphabet-yellow-e", Count: 1},
		{Name: "alphabet-white-l", Count: 2},
		{Name: "alphabet-white-question", Count: 1},
		{Name: "alphabet-white-o", Count: 0},
	}

	letters := ReconstructSequence(reactions)

	require.Len(t, letters, 5)
	assert.Equal(t, "HELL?", Word(letters))
	assert.Equal(t, Orange, letters[1].Color)
	assert.Equal(t, "alphabet-white-l", letters[2].Name)
	assert.Equal(t, "alphabet-white-l", letters[3].Name)
	for _, l := range letters {
		assert.Equal(t, Confirmed, l.Lifecycle)
	}
}

func TestReconstructSequence_Scenario(t *testing.T) {
	letters := ReconstructSequence([]Reaction{
		{Name: "alphabet-white-h", Count: 1},
		{Name: "alphabet-white-i", Count: 1},
	})

	assert.Equal(t, []Letter{
		{Char: 'H', Color: White, Name: "alphabet-white-h", Lifecycle: Confirmed},
		{Char: 'I', Color: White, Name: "alphabet-white-i", Lifecycle: Confirmed},
	}, letters)
}

func TestReconstructSequence_Empty(t *testing.T) {
	assert.Empty(t, ReconstructSequence(nil))
	assert.Empty(t, ReconstructSequence([]Reaction{{Name: "wave", Count: 3}}))
}

func TestReconstructSequence_CountProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		var reactions []Reaction
		want := 0
		for i := 0; i < n; i++ {
			count := rapid.IntRange(0, 5).Draw(t, "count")
			if rapid.Bool().Draw(t, "inPack") {
				ch := rapid.SampledFrom(supportedRunes).Draw(t, "char")
				name, _ := Encode(ch, rapid.SampledFrom(Colors).Draw(t, "color"))
				reactions = append(reactions, Reaction{Name: name, Count: count})
				want += count
			} else {
				reactions = append(reactions, Reaction{Name: "party-parrot", Count: count})
			}
		}

		if got := len(ReconstructSequence(reactions)); got != want {
			t.Fatalf("got %d letters, want %d", got, want)
		}
	})
}
