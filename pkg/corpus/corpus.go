/*
Package corpus supplies the frequency ranked word lists the starter search runs on.

Words come from a tab separated text list (word, frequency) or from chunked
binary dictionaries (dict_0001.bin, dict_0002.bin, ...). Either way they end up
in a Corpus: normalised, deduplicated through a patricia trie and ordered by
descending frequency.

	entries, err := corpus.Load("word_list.txt")
	c := corpus.New(entries)
	words := c.Words(5, 1000)
*/
package corpus

import (
	"sort"
	"unicode/utf8"

	"github.com/bastiangx/openers/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is a word with its usage frequency. Higher is more common.
type Entry struct {
	Word      string
	Frequency int64
}

// Corpus is a ranked, deduplicated word list.
type Corpus struct {
	entries []Entry
	// index maps each word to its position in entries
	index *patricia.Trie
}

// New normalises entries and ranks them by descending frequency.
// Equal frequencies keep input order. Entries that are not plain words are
// dropped; duplicates keep their highest frequency.
func New(entries []Entry) *Corpus {
	c := &Corpus{index: patricia.NewTrie()}
	dropped := 0

	for _, e := range entries {
		word := utils.NormalizeWord(e.Word)
		if !utils.IsWord(word) {
			dropped++
			continue
		}
		key := patricia.Prefix(word)
		if item := c.index.Get(key); item != nil {
			at := item.(int)
			if e.Frequency > c.entries[at].Frequency {
				c.entries[at].Frequency = e.Frequency
			}
			continue
		}
		c.index.Insert(key, len(c.entries))
		c.entries = append(c.entries, Entry{Word: word, Frequency: e.Frequency})
	}

	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Frequency > c.entries[j].Frequency
	})
	c.reindex()

	if dropped > 0 {
		log.Debugf("Dropped %d entries that are not plain words", dropped)
	}
	log.Debugf("Corpus ready: %d words", len(c.entries))
	return c
}

func (c *Corpus) reindex() {
	for i, e := range c.entries {
		c.index.Set(patricia.Prefix(e.Word), i)
	}
}

// Len returns the number of distinct words.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the ranked entries.
func (c *Corpus) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Rank returns the 1-based rank of word, or 0 when it is not in the corpus.
func (c *Corpus) Rank(word string) int {
	item := c.index.Get(patricia.Prefix(utils.NormalizeWord(word)))
	if item == nil {
		return 0
	}
	return item.(int) + 1
}

// Exclude removes every word starting with one of prefixes. A full word is its
// own prefix, so exact exclusions work too. Returns how many words were removed.
func (c *Corpus) Exclude(prefixes ...string) int {
	removed := 0
	for _, prefix := range prefixes {
		prefix = utils.NormalizeWord(prefix)
		if prefix == "" {
			continue
		}
		key := patricia.Prefix(prefix)
		err := c.index.VisitSubtree(key, func(patricia.Prefix, patricia.Item) error {
			removed++
			return nil
		})
		if err != nil {
			log.Errorf("Error visiting trie subtree for %q: %v", prefix, err)
			continue
		}
		c.index.DeleteSubtree(key)
	}
	if removed == 0 {
		return 0
	}

	kept := c.entries[:0]
	for _, e := range c.entries {
		if c.index.Get(patricia.Prefix(e.Word)) != nil {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	c.reindex()

	log.Debugf("Excluded %d words, %d left", removed, len(c.entries))
	return removed
}

// Words returns up to topK words of exactly length letters, most frequent first.
// topK of zero or less returns all of them.
func (c *Corpus) Words(length, topK int) []string {
	var words []string
	for _, e := range c.entries {
		if utf8.RuneCountInString(e.Word) != length {
			continue
		}
		words = append(words, e.Word)
		if topK > 0 && len(words) == topK {
			break
		}
	}
	return words
}

// Lengths counts the words of each length.
func (c *Corpus) Lengths() map[int]int {
	counts := make(map[int]int)
	for _, e := range c.entries {
		counts[utf8.RuneCountInString(e.Word)]++
	}
	return counts
}
