package opener

import (
	"strconv"
	"strings"
)

// LetterSet is the set of accepted letters for each position at one threshold.
// It is never modified after Accept builds it.
type LetterSet struct {
	threshold int
	letters   [][]rune
	members   []map[rune]struct{}
}

// Threshold returns the threshold the set was built for.
func (s LetterSet) Threshold() int {
	return s.threshold
}

// Positions returns the number of positions covered.
func (s LetterSet) Positions() int {
	return len(s.letters)
}

// Letters returns the accepted letters at position p, most common first.
func (s LetterSet) Letters(p int) []rune {
	if p < 0 || p >= len(s.letters) {
		return nil
	}
	out := make([]rune, len(s.letters[p]))
	copy(out, s.letters[p])
	return out
}

// Contains reports whether r is accepted at position p.
func (s LetterSet) Contains(p int, r rune) bool {
	if p < 0 || p >= len(s.members) {
		return false
	}
	_, ok := s.members[p][r]
	return ok
}

// Admits reports whether every letter of word is accepted at its position.
// Words whose length differs from the set are rejected.
func (s LetterSet) Admits(word string) bool {
	p := 0
	for _, r := range word {
		if !s.Contains(p, r) {
			return false
		}
		p++
	}
	return p == len(s.letters)
}

// String renders the set one position per line, e.g. "0: s c b".
func (s LetterSet) String() string {
	var b strings.Builder
	for p, letters := range s.letters {
		if p > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(p))
		b.WriteByte(':')
		for _, r := range letters {
			b.WriteByte(' ')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Candidates keeps the words admitted by accept, in their original order.
func Candidates(words []string, accept LetterSet) []string {
	var out []string
	for _, word := range words {
		if accept.Admits(word) {
			out = append(out, word)
		}
	}
	return out
}
