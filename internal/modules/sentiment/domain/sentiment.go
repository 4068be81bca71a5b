package domain

import (
	"math"
	"strings"
	"unicode"
)

const (
	MinScore = -1.0
	MaxScore = 1.0
)

type Metadata struct {
	Name    string
	Version string
}

// Clamp bounds a score to [-1, 1]. NaN maps to neutral.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(MinScore, math.Min(MaxScore, score))
}

// Lexicon is a word-polarity table for a bag-of-words scorer.
type Lexicon map[string]float64

// DefaultLexicon covers common mood words in check-in notes.
var DefaultLexicon = Lexicon{
	"calm": 0.6, "happy": 0.8, "good": 0.5, "great": 0.8, "grateful": 0.9,
	"relaxed": 0.7, "rested": 0.6, "hopeful": 0.7, "fine": 0.3, "okay": 0.1,
	"proud": 0.7, "energized": 0.7, "peaceful": 0.8, "content": 0.6,
	"tired": -0.4, "stressed": -0.7, "anxious": -0.7, "worried": -0.6,
	"sad": -0.7, "angry": -0.7, "overwhelmed": -0.9, "exhausted": -0.8,
	"lonely": -0.7, "hopeless": -1.0, "burned": -0.6, "burnout": -0.9,
	"panic": -0.9, "bad": -0.5, "awful": -0.9, "terrible": -0.9,
}

var negators = map[string]bool{"not": true, "no": true, "never": true, "hardly": true}

// Score averages the polarity of the known words in text. A negator flips
// the next known word. Text without known words is neutral.
func (l Lexicon) Score(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	var sum float64
	var hits int
	negate := false
	for _, w := range words {
		w = strings.Trim(w, "'")
		if negators[w] || strings.HasSuffix(w, "n't") {
			negate = true
			continue
		}
		polarity, ok := l[w]
		if !ok {
			continue
		}
		if negate {
			polarity = -polarity
			negate = false
		}
		sum += polarity
		hits++
	}
	if hits == 0 {
		return 0
	}
	return Clamp(sum / float64(hits))
}
