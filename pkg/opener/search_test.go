package opener

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sweepWords has no pair at threshold 3 or 4; "de" and "fg" only both pass at 5.
var sweepWords = []string{"aa", "aa", "bb", "bb", "cc", "cc", "de", "fg"}

func TestSearchThresholdSweep(t *testing.T) {
	var rounds []RoundStats
	var emitted []Combination
	s := &Searcher{
		Sink: SinkFunc(func(c Combination) error {
			emitted = append(emitted, c)
			return nil
		}),
		OnRound: func(r RoundStats) {
			rounds = append(rounds, r)
		},
	}

	table := BuildPositions(sweepWords, 2)
	result, err := s.Search(context.Background(), table, sweepWords, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Combination{{"de", "fg"}}
	if diff := cmp.Diff(expected, result.Combinations); diff != "" {
		t.Errorf("combinations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expected, emitted); diff != "" {
		t.Errorf("emitted mismatch (-want +got):\n%s", diff)
	}
	if result.Threshold != 5 || result.Rounds != 3 {
		t.Errorf("expected threshold 5 after 3 rounds, got threshold %d after %d", result.Threshold, result.Rounds)
	}
	if result.Candidates != 8 {
		t.Errorf("expected 8 candidates at threshold 5, got %d", result.Candidates)
	}

	thresholds := make([]int, len(rounds))
	for i, r := range rounds {
		thresholds[i] = r.Threshold
		if r.Threshold < 5 && r.Combinations != 0 {
			t.Errorf("threshold %d reported %d combinations", r.Threshold, r.Combinations)
		}
	}
	if diff := cmp.Diff([]int{3, 4, 5}, thresholds); diff != "" {
		t.Errorf("round thresholds mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchExample(t *testing.T) {
	words := []string{"bold", "ramp"}
	result, err := Find(context.Background(), words, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]Combination{{"bold", "ramp"}}, result.Combinations); diff != "" {
		t.Errorf("combinations mismatch (-want +got):\n%s", diff)
	}
	if result.Threshold != DefaultStartThreshold {
		t.Errorf("expected threshold %d, got %d", DefaultStartThreshold, result.Threshold)
	}
}

func TestSearchExhausted(t *testing.T) {
	testCases := []struct {
		description string
		words       []string
		wordLength  int
		maxT        int
		rounds      int
	}{
		{"overlapping pair", []string{"first", "trace"}, 5, 0, 1},
		{"empty word list", nil, 5, 0, 1},
		{"cap below solution", sweepWords, 2, 4, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			rounds := 0
			s := &Searcher{MaxThreshold: tc.maxT, OnRound: func(RoundStats) { rounds++ }}
			result, err := s.Search(context.Background(), BuildPositions(tc.words, tc.wordLength), tc.words, 2)
			if !errors.Is(err, ErrExhausted) {
				t.Fatalf("expected ErrExhausted, got %v (result %+v)", err, result)
			}
			if rounds != tc.rounds {
				t.Errorf("expected %d rounds, got %d", tc.rounds, rounds)
			}
		})
	}
}

func TestSearchStopsAtSaturation(t *testing.T) {
	words := []string{"abcd", "bcda", "cdab", "dabc", "aabb"}
	table := BuildPositions(words, 4)
	s := &Searcher{StartThreshold: 1}
	if got := s.Limit(table); got != 4 {
		t.Fatalf("expected limit 4, got %d", got)
	}
	_, err := s.Search(context.Background(), table, words, 2)
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestSearchGroupSize(t *testing.T) {
	table := BuildPositions(fiveLetter, 5)
	for _, size := range []int{1, 4, 10} {
		_, err := (&Searcher{}).Search(context.Background(), table, fiveLetter, size)
		if !errors.Is(err, ErrGroupSize) {
			t.Errorf("size %d: expected ErrGroupSize, got %v", size, err)
		}
	}
	if _, err := Find(context.Background(), fiveLetter, 0, 2); !errors.Is(err, ErrWordLength) {
		t.Errorf("expected ErrWordLength, got %v", err)
	}
}

func TestSearchSinkError(t *testing.T) {
	boom := errors.New("sink closed")
	s := &Searcher{Sink: SinkFunc(func(Combination) error { return boom })}
	_, err := s.Search(context.Background(), BuildPositions([]string{"bold", "ramp"}, 4), []string{"bold", "ramp"}, 2)
	if !errors.Is(err, boom) {
		t.Errorf("expected sink error, got %v", err)
	}
}

func TestSearchIdempotent(t *testing.T) {
	table := BuildPositions(fiveLetter, 5)
	for _, groupSize := range []int{2, 3} {
		var previous *Result
		for name, enum := range enumerators() {
			s := &Searcher{Enumerator: enum}
			first, err := s.Search(context.Background(), table, fiveLetter, groupSize)
			if err != nil {
				t.Fatalf("%s group=%d: unexpected error: %v", name, groupSize, err)
			}
			second, err := s.Search(context.Background(), table, fiveLetter, groupSize)
			if err != nil {
				t.Fatalf("%s group=%d: unexpected error: %v", name, groupSize, err)
			}
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("%s group=%d: repeated search differs (-first +second):\n%s", name, groupSize, diff)
			}
			if previous != nil {
				if diff := cmp.Diff(previous, first); diff != "" {
					t.Errorf("%s group=%d: strategies disagree:\n%s", name, groupSize, diff)
				}
			}
			previous = first
		}
	}
}

func TestSearchFindsSmallestThreshold(t *testing.T) {
	table := BuildPositions(fiveLetter, 5)
	result, err := (&Searcher{}).Search(context.Background(), table, fiveLetter, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for threshold := DefaultStartThreshold; threshold < result.Threshold; threshold++ {
		candidates := Candidates(fiveLetter, table.Accept(threshold))
		if combos := naiveCombinations(candidates, 5, 2); len(combos) != 0 {
			t.Fatalf("threshold %d already has %d combinations", threshold, len(combos))
		}
	}
	candidates := Candidates(fiveLetter, table.Accept(result.Threshold))
	if diff := cmp.Diff(naiveCombinations(candidates, 5, 2), result.Combinations); diff != "" {
		t.Errorf("combinations mismatch (-want +got):\n%s", diff)
	}
}
