package server

import (
	"math"
	"sync"

	"github.com/bastiangx/openers/pkg/corpus"
	"github.com/bastiangx/openers/pkg/opener"
	"github.com/charmbracelet/log"
)

type tableKey struct {
	wordLength int
	topWords   int
}

type cachedTable struct {
	words []string
	table *opener.PositionTable
}

// TableCache keeps the position tables of recent corpus slices, evicting the
// least recently used one once maxTables is reached.
type TableCache struct {
	corpus      *corpus.Corpus
	tables      map[tableKey]cachedTable
	accessTime  map[tableKey]int64
	accessCount int64
	hits        int64
	maxTables   int
	mu          sync.Mutex
}

// NewTableCache creates a cache over c. maxTables below 1 means 1.
func NewTableCache(c *corpus.Corpus, maxTables int) *TableCache {
	return &TableCache{
		corpus:     c,
		tables:     make(map[tableKey]cachedTable),
		accessTime: make(map[tableKey]int64),
		maxTables:  max(maxTables, 1),
	}
}

// Get returns the words and table for the top topWords words of wordLength
// letters, building them on a miss.
func (tc *TableCache) Get(wordLength, topWords int) ([]string, *opener.PositionTable) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	key := tableKey{wordLength: wordLength, topWords: topWords}
	if cached, ok := tc.tables[key]; ok {
		tc.hits++
		tc.accessTime[key] = tc.getNextAccessTime()
		return cached.words, cached.table
	}

	if len(tc.tables) >= tc.maxTables {
		tc.evictLRU()
	}

	words := tc.corpus.Words(wordLength, topWords)
	cached := cachedTable{words: words, table: opener.BuildPositions(words, wordLength)}
	tc.tables[key] = cached
	tc.accessTime[key] = tc.getNextAccessTime()
	log.Debugf("Built position table: length=%d top=%d words=%d", wordLength, topWords, len(words))
	return cached.words, cached.table
}

// Len returns the number of cached tables.
func (tc *TableCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.tables)
}

// Stats reports cache usage.
func (tc *TableCache) Stats() map[string]int {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	return map[string]int{
		"cachedTables": len(tc.tables),
		"maxTables":    tc.maxTables,
		"cacheHits":    int(tc.hits),
	}
}

func (tc *TableCache) getNextAccessTime() int64 {
	tc.accessCount++
	return tc.accessCount
}

func (tc *TableCache) evictLRU() {
	var oldest tableKey
	var oldestTime int64 = math.MaxInt64

	for key, accessTime := range tc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldest = key
		}
	}

	if oldestTime != math.MaxInt64 {
		delete(tc.tables, oldest)
		delete(tc.accessTime, oldest)
		log.Debugf("Evicted table length=%d top=%d", oldest.wordLength, oldest.topWords)
	}
}
