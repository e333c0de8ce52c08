package opener

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"
)

var (
	// ErrGroupSize is returned for group sizes other than 2 or 3.
	ErrGroupSize = errors.New("group size must be 2 or 3")
	// ErrWordLength is returned for word lengths below 1.
	ErrWordLength = errors.New("word length must be at least 1")
)

// ctxCheckEvery bounds how many tuples Exhaustive visits between context checks.
const ctxCheckEvery = 4096

// Combination is a group of words that share no letter, in enumeration order.
type Combination []string

// String joins the words with ", ".
func (c Combination) String() string {
	return strings.Join(c, ", ")
}

// Enumerator finds every groupSize subset of candidates whose letters are all distinct.
// Results come back in ascending index order: (i, j) with i < j, or (i, j, k) with i < j < k.
type Enumerator interface {
	Enumerate(ctx context.Context, candidates []string, wordLength, groupSize int) ([]Combination, error)
}

// ValidateGroupSize rejects group sizes the enumerators do not support.
func ValidateGroupSize(groupSize int) error {
	if groupSize != 2 && groupSize != 3 {
		return fmt.Errorf("%w: got %d", ErrGroupSize, groupSize)
	}
	return nil
}

// ValidateWordLength rejects non-positive word lengths.
func ValidateWordLength(wordLength int) error {
	if wordLength < 1 {
		return fmt.Errorf("%w: got %d", ErrWordLength, wordLength)
	}
	return nil
}

// NewEnumerator returns the strategy registered under name.
// Known names are "exhaustive", "backtrack" and "parallel"; empty means backtrack.
func NewEnumerator(name string, workers int) (Enumerator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "backtrack":
		return Backtrack{}, nil
	case "exhaustive":
		return Exhaustive{}, nil
	case "parallel":
		return Parallel{Workers: workers}, nil
	default:
		return nil, fmt.Errorf("unknown enumeration strategy %q", name)
	}
}

func letterMask(word string) *bitset.BitSet {
	mask := bitset.New(128)
	for _, r := range word {
		mask.Set(uint(r))
	}
	return mask
}

func buildCombination(words []string, picked []int) Combination {
	combo := make(Combination, len(picked))
	for n, idx := range picked {
		combo[n] = words[idx]
	}
	return combo
}

// Exhaustive checks the letter union of every subset. It is the reference
// strategy: no pruning, cost grows with C(n, groupSize).
type Exhaustive struct{}

// Enumerate implements Enumerator.
func (Exhaustive) Enumerate(ctx context.Context, candidates []string, wordLength, groupSize int) ([]Combination, error) {
	if err := ValidateGroupSize(groupSize); err != nil {
		return nil, err
	}
	if len(candidates) < groupSize {
		return nil, nil
	}

	masks := make([]*bitset.BitSet, len(candidates))
	for i, word := range candidates {
		masks[i] = letterMask(word)
	}
	target := uint(wordLength * groupSize)

	var out []Combination
	picked := make([]int, groupSize)
	gen := combin.NewCombinationGenerator(len(candidates), groupSize)
	for visited := 0; gen.Next(); visited++ {
		if visited%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		gen.Combination(picked)
		if unionCount(masks, picked) == target {
			out = append(out, buildCombination(candidates, picked))
		}
	}
	return out, nil
}

func unionCount(masks []*bitset.BitSet, picked []int) uint {
	if len(picked) == 2 {
		return masks[picked[0]].UnionCardinality(masks[picked[1]])
	}
	union := masks[picked[0]].Union(masks[picked[1]])
	for _, idx := range picked[2:] {
		union.InPlaceUnion(masks[idx])
	}
	return union.Count()
}

// Backtrack walks subsets in index order and abandons a branch as soon as two
// picked words share a letter. Words with a repeated letter can never be part of
// a group and are dropped before the walk.
type Backtrack struct{}

// Enumerate implements Enumerator.
func (Backtrack) Enumerate(ctx context.Context, candidates []string, wordLength, groupSize int) ([]Combination, error) {
	if err := ValidateGroupSize(groupSize); err != nil {
		return nil, err
	}
	words, masks := distinctWords(candidates, wordLength)

	var out []Combination
	for first := 0; first <= len(words)-groupSize; first++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, combosFrom(words, masks, first, groupSize)...)
	}
	return out, nil
}

// distinctWords keeps the words of wordLength letters with no letter repeated.
func distinctWords(candidates []string, wordLength int) ([]string, []*bitset.BitSet) {
	words := make([]string, 0, len(candidates))
	masks := make([]*bitset.BitSet, 0, len(candidates))
	for _, word := range candidates {
		if utf8.RuneCountInString(word) != wordLength {
			continue
		}
		mask := letterMask(word)
		if mask.Count() != uint(wordLength) {
			continue
		}
		words = append(words, word)
		masks = append(masks, mask)
	}
	return words, masks
}

// combosFrom returns every valid group whose lowest index is first.
func combosFrom(words []string, masks []*bitset.BitSet, first, groupSize int) []Combination {
	var out []Combination
	picked := make([]int, 1, groupSize)
	picked[0] = first

	var walk func(start int, used *bitset.BitSet)
	walk = func(start int, used *bitset.BitSet) {
		if len(picked) == groupSize {
			out = append(out, buildCombination(words, picked))
			return
		}
		need := groupSize - len(picked)
		for k := start; k <= len(words)-need; k++ {
			if used.IntersectionCardinality(masks[k]) != 0 {
				continue
			}
			picked = append(picked, k)
			walk(k+1, used.Union(masks[k]))
			picked = picked[:len(picked)-1]
		}
	}
	walk(first+1, masks[first])
	return out
}

// Parallel runs the backtracking walk with one task per first index, spread
// over a bounded pool. Output order matches Backtrack.
type Parallel struct {
	// Workers caps concurrent tasks; zero or less means GOMAXPROCS.
	Workers int
}

// Enumerate implements Enumerator.
func (p Parallel) Enumerate(ctx context.Context, candidates []string, wordLength, groupSize int) ([]Combination, error) {
	if err := ValidateGroupSize(groupSize); err != nil {
		return nil, err
	}
	words, masks := distinctWords(candidates, wordLength)
	if len(words) < groupSize {
		return nil, nil
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	shards := make([][]Combination, len(words)-groupSize+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for first := range shards {
		first := first
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			shards[first] = combosFrom(words, masks, first, groupSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Combination
	for _, shard := range shards {
		out = append(out, shard...)
	}
	return out, nil
}
