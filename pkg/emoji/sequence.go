package emoji

// Lifecycle tracks where a letter is in its add/remove round trip
type Lifecycle int

const (
	Confirmed Lifecycle = iota
	Pending             // add request in flight
	Removing            // remove request in flight
)

func (l Lifecycle) String() string {
	switch l {
	case Confirmed:
		return "confirmed"
	case Pending:
		return "pending"
	case Removing:
		return "removing"
	default:
		return "unknown"
	}
}

// Letter is one position of the typed word
type Letter struct {
	Char      rune
	Color     Color
	Name      string
	Lifecycle Lifecycle
}

// Reaction is a reaction already present on a message
type Reaction struct {
	Name  string
	Count int
}

// ReconstructSequence turns existing reactions back into confirmed letters.
// Reaction order is kept and a reaction with Count n yields n adjacent letters.
// Reactions that are not part of the pack are skipped.
func (c Codec) ReconstructSequence(reactions []Reaction) []Letter {
	var letters []Letter
	for _, r := range reactions {
		ch, color, ok := c.Decode(r.Name)
		if !ok {
			continue
		}
		for i := 0; i < r.Count; i++ {
			letters = append(letters, Letter{
				Char:      ch,
				Color:     color,
				Name:      r.Name,
				Lifecycle: Confirmed,
			})
		}
	}
	return letters
}

// ReconstructSequence uses the default codec
func ReconstructSequence(reactions []Reaction) []Letter {
	return Default.ReconstructSequence(reactions)
}

// Word renders the characters of a sequence as a string
func Word(letters []Letter) string {
	runes := make([]rune, len(letters))
	for i, l := range letters {
		runes[i] = l.Char
	}
	return string(runes)
}
