package text

import "github.com/poiesic/storyline/core"

// Limit returns the first max sentences. A negative max keeps nothing.
// The returned slice has its capacity clipped so appending to it never
// writes into the dropped tail.
func Limit(sentences []core.Sentence, max int) []core.Sentence {
	if max < 0 {
		max = 0
	}
	if len(sentences) <= max {
		return sentences
	}
	return sentences[:max:max]
}
