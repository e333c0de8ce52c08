package opener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultStartThreshold is the number of top letters per position tried first.
const DefaultStartThreshold = 3

// ErrExhausted means no threshold up to the search limit produced a combination.
var ErrExhausted = errors.New("no starter combination found")

// Sink receives each combination of a successful search, in enumeration order.
type Sink interface {
	Emit(Combination) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Combination) error

// Emit calls f.
func (f SinkFunc) Emit(c Combination) error {
	return f(c)
}

// RoundStats describes one threshold round.
type RoundStats struct {
	Threshold    int
	Candidates   int
	Combinations int
	Elapsed      time.Duration
}

// Result is the outcome of a search that found at least one combination.
type Result struct {
	Combinations []Combination
	// Threshold is the smallest threshold that produced a combination.
	Threshold int
	// Candidates is the size of the candidate list at Threshold.
	Candidates int
	// Rounds counts the thresholds tried, including the successful one.
	Rounds int
}

// Searcher widens the accepted letters one threshold at a time until the
// enumerator finds a group, or the limit is passed.
type Searcher struct {
	// Enumerator defaults to Backtrack.
	Enumerator Enumerator
	// StartThreshold defaults to DefaultStartThreshold.
	StartThreshold int
	// MaxThreshold caps the search. Zero or less stops at the table's saturation
	// point, after which no new candidates can appear.
	MaxThreshold int
	// Sink, when set, receives every combination of the successful round.
	Sink Sink
	// OnRound, when set, is called after every round.
	OnRound func(RoundStats)
}

// Limit returns the last threshold the searcher will try against table.
func (s *Searcher) Limit(table *PositionTable) int {
	start := s.Start()
	limit := s.MaxThreshold
	if limit <= 0 {
		limit = table.Saturation()
	}
	return max(limit, start)
}

// Start returns the first threshold the searcher tries.
func (s *Searcher) Start() int {
	if s.StartThreshold > 0 {
		return s.StartThreshold
	}
	return DefaultStartThreshold
}

func (s *Searcher) enumerator() Enumerator {
	if s.Enumerator != nil {
		return s.Enumerator
	}
	return Backtrack{}
}

// Search runs the threshold rounds over words, using table for letter ranking.
// It returns ErrExhausted (wrapped) when the limit is passed without a result.
func (s *Searcher) Search(ctx context.Context, table *PositionTable, words []string, groupSize int) (*Result, error) {
	if err := ValidateGroupSize(groupSize); err != nil {
		return nil, err
	}
	wordLength := table.WordLength()
	if err := ValidateWordLength(wordLength); err != nil {
		return nil, err
	}

	enum := s.enumerator()
	limit := s.Limit(table)
	rounds := 0

	for threshold := s.Start(); threshold <= limit; threshold++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rounds++
		started := time.Now()

		accept := table.Accept(threshold)
		candidates := Candidates(words, accept)
		combos, err := enum.Enumerate(ctx, candidates, wordLength, groupSize)
		if err != nil {
			return nil, fmt.Errorf("threshold %d: %w", threshold, err)
		}

		stats := RoundStats{
			Threshold:    threshold,
			Candidates:   len(candidates),
			Combinations: len(combos),
			Elapsed:      time.Since(started),
		}
		log.Debug("search round", "threshold", threshold, "candidates", stats.Candidates,
			"combinations", stats.Combinations, "elapsed", stats.Elapsed)
		if s.OnRound != nil {
			s.OnRound(stats)
		}

		if len(combos) == 0 {
			continue
		}

		if s.Sink != nil {
			for _, combo := range combos {
				if err := s.Sink.Emit(combo); err != nil {
					return nil, fmt.Errorf("emit %q: %w", combo.String(), err)
				}
			}
		}
		return &Result{
			Combinations: combos,
			Threshold:    threshold,
			Candidates:   len(candidates),
			Rounds:       rounds,
		}, nil
	}

	return nil, fmt.Errorf("%w: tried thresholds %d..%d over %d words",
		ErrExhausted, s.Start(), limit, len(words))
}

// Find builds the position table for words and runs a default search.
func Find(ctx context.Context, words []string, wordLength, groupSize int) (*Result, error) {
	if err := ValidateGroupSize(groupSize); err != nil {
		return nil, err
	}
	if err := ValidateWordLength(wordLength); err != nil {
		return nil, err
	}
	s := &Searcher{}
	return s.Search(ctx, BuildPositions(words, wordLength), words, groupSize)
}
