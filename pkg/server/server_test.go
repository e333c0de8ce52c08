package server

import (
	"bytes"
	"context"
	"testing"

	"github.com/bastiangx/openers/pkg/config"
	"github.com/bastiangx/openers/pkg/corpus"
	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func testCorpus() *corpus.Corpus {
	return corpus.New([]corpus.Entry{
		{Word: "bold", Frequency: 10},
		{Word: "ramp", Frequency: 9},
		{Word: "bald", Frequency: 8},
		{Word: "romp", Frequency: 7},
		{Word: "first", Frequency: 6},
		{Word: "trace", Frequency: 5},
	})
}

// runServer feeds the encoded messages to a server and returns its output stream.
func runServer(t *testing.T, messages ...any) (*Server, *msgpack.Decoder) {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range messages {
		if err := enc.Encode(m); err != nil {
			t.Fatalf("failed to encode %v: %v", m, err)
		}
	}

	var out bytes.Buffer
	s := NewServerWithIO(testCorpus(), config.DefaultConfig(), &in, &out)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("server stopped with error: %v", err)
	}
	return s, msgpack.NewDecoder(&out)
}

func TestSearch(t *testing.T) {
	_, dec := runServer(t, SearchRequest{ID: "req_001", WordLength: 4, GroupSize: 2})

	var response SearchResponse
	if err := dec.Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	expected := [][]string{{"bold", "ramp"}, {"bald", "romp"}}
	if diff := cmp.Diff(expected, response.Combinations); diff != "" {
		t.Errorf("combinations mismatch (-want +got):\n%s", diff)
	}
	if response.ID != "req_001" || response.Count != 2 {
		t.Errorf("unexpected response %+v", response)
	}
	if response.Threshold != 3 || response.Rounds != 1 || response.Candidates != 4 {
		t.Errorf("expected threshold 3, 1 round, 4 candidates; got %+v", response)
	}
}

func TestSearchErrors(t *testing.T) {
	testCases := []struct {
		description string
		request     any
		id          string
		code        int
	}{
		{"group size", SearchRequest{ID: "g4", WordLength: 4, GroupSize: 4}, "g4", codeBadRequest},
		{"word length", SearchRequest{ID: "n13", WordLength: 13}, "n13", codeBadRequest},
		{"negative top words", SearchRequest{ID: "k", WordLength: 4, TopWords: -1}, "k", codeBadRequest},
		{"top words cap", SearchRequest{ID: "kk", WordLength: 4, TopWords: 50001}, "kk", codeBadRequest},
		{"exhausted", SearchRequest{ID: "five", WordLength: 5, GroupSize: 2}, "five", codeExhausted},
		{"unknown action", SearchRequest{ID: "x", Action: "shuffle"}, "x", codeBadRequest},
		{"not a map", 42, "", codeBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, dec := runServer(t, tc.request)
			var response SearchError
			if err := dec.Decode(&response); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if response.ID != tc.id || response.Code != tc.code {
				t.Errorf("expected id %q code %d, got %+v", tc.id, tc.code, response)
			}
			if response.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestStreamKeepsOrder(t *testing.T) {
	s, dec := runServer(t,
		SearchRequest{ID: "a", WordLength: 4},
		42,
		SearchRequest{ID: "b", WordLength: 4},
		SearchRequest{ID: "c", Action: "health"},
		SearchRequest{ID: "d", Action: "get_info"},
	)

	var first, second SearchResponse
	var bad SearchError
	var health StatusResponse
	var info InfoResponse
	for _, target := range []any{&first, &bad, &second, &health, &info} {
		if err := dec.Decode(target); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	if first.ID != "a" || second.ID != "b" || bad.Code != codeBadRequest {
		t.Errorf("responses out of order: %q, %+v, %q", first.ID, bad, second.ID)
	}
	if diff := cmp.Diff(first.Combinations, second.Combinations); diff != "" {
		t.Errorf("repeated search differs (-first +second):\n%s", diff)
	}
	if health.ID != "c" || health.Status != "ok" {
		t.Errorf("unexpected health response %+v", health)
	}

	if info.ID != "d" || info.Words != 6 || info.CachedTables != 1 {
		t.Errorf("unexpected info %+v", info)
	}
	if diff := cmp.Diff(map[int]int{4: 4, 5: 2}, info.Lengths); diff != "" {
		t.Errorf("lengths mismatch (-want +got):\n%s", diff)
	}
	if info.WordLength != 5 || info.GroupSize != 2 || info.Strategy != "backtrack" {
		t.Errorf("unexpected defaults in info %+v", info)
	}
	if s.tables.Len() != 1 {
		t.Errorf("expected one cached table, got %d", s.tables.Len())
	}
}

func TestSearchThresholdCap(t *testing.T) {
	// with m=2 the search is limited to threshold 3, the start point
	_, dec := runServer(t, SearchRequest{ID: "cap", WordLength: 4, MaxThreshold: 2})
	var response SearchResponse
	if err := dec.Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Threshold != 3 || response.Count != 2 {
		t.Errorf("unexpected response %+v", response)
	}
}

func TestStartCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	s := NewServerWithIO(testCorpus(), nil, bytes.NewReader(nil), &out)
	if err := s.Start(ctx); err == nil {
		t.Error("expected context error")
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %d bytes", out.Len())
	}
}

func TestEmptyInput(t *testing.T) {
	_, dec := runServer(t)
	var response SearchResponse
	if err := dec.Decode(&response); err == nil {
		t.Errorf("expected no responses, got %+v", response)
	}
}

func TestTableCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewTableCache(testCorpus(), 2)

	first, _ := cache.Get(4, 10)
	cache.Get(5, 10)
	again, _ := cache.Get(4, 10) // refresh (4, 10)
	cache.Get(4, 2)              // evicts (5, 10)

	if diff := cmp.Diff(first, again); diff != "" {
		t.Errorf("cached words changed (-first +again):\n%s", diff)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached tables, got %d", cache.Len())
	}
	if _, ok := cache.tables[tableKey{wordLength: 5, topWords: 10}]; ok {
		t.Error("expected (5, 10) to be evicted")
	}
	if _, ok := cache.tables[tableKey{wordLength: 4, topWords: 10}]; !ok {
		t.Error("expected (4, 10) to stay cached")
	}

	words, table := cache.Get(4, 2)
	if diff := cmp.Diff([]string{"bold", "ramp"}, words); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
	if table.Words() != 2 {
		t.Errorf("expected table over 2 words, got %d", table.Words())
	}

	stats := cache.Stats()
	if stats["cacheHits"] != 2 || stats["maxTables"] != 2 {
		t.Errorf("unexpected stats %v", stats)
	}
}
