/*
Package server implements msgpack IPC for starter word searches.

Clients write msgpack maps to stdin and read one msgpack map per request from
stdout. Logs go to stderr so they never mix with the stream.

# IPC

A search request names the word length (n), group size (g), how many of the
most frequent words to consider (k) and optionally a threshold cap (m). Missing
fields fall back to the loaded config:

	{"id": "req_001", "n": 5, "g": 2, "k": 1000}

The server answers with every group found at the smallest threshold that had one:

	{"id": "req_001", "c": [["their", "would"], ["while", "board"]], "t": 6, "n": 2, "cand": 15, "r": 4, "us": 812}

Corpus and config details are available through an action:

	{"id": "info_001", "action": "get_info"}

Failures come back as {"id", "e", "c"} with an HTTP style code: 400 for bad
requests, 404 when no threshold produced a group, 500 for anything else.

Requests are processed one at a time, in order. Position tables are cached per
(word length, top words) pair, so repeated searches over the same slice of the
corpus skip the counting pass.
*/
package server

// SearchRequest asks for starter groups. Zero fields use config defaults.
type SearchRequest struct {
	ID           string `msgpack:"id"`
	Action       string `msgpack:"action,omitempty"` // "", "search", "get_info", "health"
	WordLength   int    `msgpack:"n,omitempty"`
	GroupSize    int    `msgpack:"g,omitempty"`
	TopWords     int    `msgpack:"k,omitempty"`
	MaxThreshold int    `msgpack:"m,omitempty"`
}

// SearchResponse - groups found at the winning threshold
type SearchResponse struct {
	ID           string     `msgpack:"id"`
	Combinations [][]string `msgpack:"c"`
	Threshold    int        `msgpack:"t"`
	Count        int        `msgpack:"n"`
	Candidates   int        `msgpack:"cand"`
	Rounds       int        `msgpack:"r"`
	TimeTaken    int64      `msgpack:"us"` // microseconds
}

// InfoResponse - corpus and default search settings
type InfoResponse struct {
	ID             string      `msgpack:"id"`
	Status         string      `msgpack:"status"`
	Words          int         `msgpack:"words"`
	Lengths        map[int]int `msgpack:"lengths"`
	WordLength     int         `msgpack:"word_length"`
	GroupSize      int         `msgpack:"group_size"`
	TopWords       int         `msgpack:"top_words"`
	StartThreshold int         `msgpack:"start_threshold"`
	MaxThreshold   int         `msgpack:"max_threshold"`
	Strategy       string      `msgpack:"strategy"`
	CachedTables   int         `msgpack:"cached_tables"`
}

// StatusResponse - reply to "health"
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// SearchError holds basic error information for failed requests
type SearchError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
