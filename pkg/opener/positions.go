/*
Package opener picks starter words for fixed-length letter guessing games.

A starter group is 2 or 3 words that together use word_length * group_size
distinct letters, where every letter sits in a position at which it is among
the most common letters of the corpus. The search starts with the top 3 letters
per position and widens that window one letter at a time until a group exists.

# Pipeline

	table := opener.BuildPositions(words, 5)
	accept := table.Accept(3)
	candidates := opener.Candidates(words, accept)
	combos, err := opener.Backtrack{}.Enumerate(ctx, candidates, 5, 2)

Searcher drives that pipeline across thresholds and stops at the first one that
yields a combination, or reports ErrExhausted once widening can no longer
change the candidate list.
*/
package opener

import "sort"

// PositionTable records which letters appear at each position of a word list.
// It is built once and only read afterwards.
type PositionTable struct {
	wordLength int
	words      int
	// slots[p] holds the letter at p of every word, in visit order.
	slots [][]rune
	// ranked[p] holds the distinct letters of slots[p], most frequent first.
	ranked [][]rune
}

type letterCount struct {
	letter rune
	count  int
}

// BuildPositions collects the letter at every position of every word.
// Words are expected to be exactly wordLength letters long; extra letters are ignored.
func BuildPositions(words []string, wordLength int) *PositionTable {
	if wordLength < 0 {
		wordLength = 0
	}
	slots := make([][]rune, wordLength)
	for p := range slots {
		slots[p] = make([]rune, 0, len(words))
	}

	for _, word := range words {
		letters := []rune(word)
		for p := 0; p < wordLength && p < len(letters); p++ {
			slots[p] = append(slots[p], letters[p])
		}
	}

	ranked := make([][]rune, wordLength)
	for p, slot := range slots {
		ranked[p] = rankLetters(slot)
	}

	return &PositionTable{
		wordLength: wordLength,
		words:      len(words),
		slots:      slots,
		ranked:     ranked,
	}
}

// rankLetters orders distinct letters by descending count.
// Equal counts keep the order in which the letters were first seen.
func rankLetters(slot []rune) []rune {
	index := make(map[rune]int)
	var counts []letterCount
	for _, r := range slot {
		if at, ok := index[r]; ok {
			counts[at].count++
			continue
		}
		index[r] = len(counts)
		counts = append(counts, letterCount{letter: r, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	letters := make([]rune, len(counts))
	for i, c := range counts {
		letters[i] = c.letter
	}
	return letters
}

// WordLength returns the number of positions in the table.
func (t *PositionTable) WordLength() int {
	return t.wordLength
}

// Words returns how many words the table was built from.
func (t *PositionTable) Words() int {
	return t.words
}

// Slot returns a copy of the letters observed at position p, in visit order.
func (t *PositionTable) Slot(p int) []rune {
	if p < 0 || p >= t.wordLength {
		return nil
	}
	out := make([]rune, len(t.slots[p]))
	copy(out, t.slots[p])
	return out
}

// Ranked returns a copy of the distinct letters at position p, most common first.
func (t *PositionTable) Ranked(p int) []rune {
	if p < 0 || p >= t.wordLength {
		return nil
	}
	out := make([]rune, len(t.ranked[p]))
	copy(out, t.ranked[p])
	return out
}

// Count returns how often r was seen at position p.
func (t *PositionTable) Count(p int, r rune) int {
	if p < 0 || p >= t.wordLength {
		return 0
	}
	n := 0
	for _, l := range t.slots[p] {
		if l == r {
			n++
		}
	}
	return n
}

// Saturation is the smallest threshold at which Accept keeps every observed
// letter. Raising the threshold past it changes nothing.
func (t *PositionTable) Saturation() int {
	widest := 0
	for _, letters := range t.ranked {
		if len(letters) > widest {
			widest = len(letters)
		}
	}
	return widest
}

// Accept returns the top threshold letters of every position.
// Positions with fewer distinct letters keep all of them.
func (t *PositionTable) Accept(threshold int) LetterSet {
	if threshold < 0 {
		threshold = 0
	}
	letters := make([][]rune, t.wordLength)
	members := make([]map[rune]struct{}, t.wordLength)

	for p, ranked := range t.ranked {
		n := min(threshold, len(ranked))
		letters[p] = make([]rune, n)
		copy(letters[p], ranked[:n])

		members[p] = make(map[rune]struct{}, n)
		for _, r := range letters[p] {
			members[p][r] = struct{}{}
		}
	}

	return LetterSet{
		threshold: threshold,
		letters:   letters,
		members:   members,
	}
}
