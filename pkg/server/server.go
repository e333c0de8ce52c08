package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/openers/internal/logger"
	"github.com/bastiangx/openers/pkg/config"
	"github.com/bastiangx/openers/pkg/corpus"
	"github.com/bastiangx/openers/pkg/opener"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	codeBadRequest = 400
	codeExhausted  = 404
	codeInternal   = 500
)

// Server handles the IPC for starter searches
type Server struct {
	corpus  *corpus.Corpus
	config  *config.Config
	decoder *msgpack.Decoder
	writer  *bufio.Writer
	encoder *msgpack.Encoder
	tables  *TableCache
	log     *log.Logger
}

// NewServer creates a search server using stdin/stdout for IPC
func NewServer(c *corpus.Corpus, cfg *config.Config) *Server {
	return NewServerWithIO(c, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a search server over the given streams.
func NewServerWithIO(c *corpus.Corpus, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	writer := bufio.NewWriter(w)
	return &Server{
		corpus:  c,
		config:  cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  writer,
		encoder: msgpack.NewEncoder(writer),
		tables:  NewTableCache(c, cfg.Server.MaxCachedTables),
		log:     logger.New("server"),
	}
}

// Start serves requests until the input ends or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting Server.", "words", s.corpus.Len())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			s.log.Errorf("Reading from stdin: %v", err)
			return err
		}
		if err := s.handleRequest(ctx, raw); err != nil {
			return err
		}
	}
}

// handleRequest decodes one message and writes exactly one response.
func (s *Server) handleRequest(ctx context.Context, raw msgpack.RawMessage) error {
	var request SearchRequest
	if err := msgpack.Unmarshal(raw, &request); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid msgpack request", codeBadRequest)
	}

	switch strings.ToLower(request.Action) {
	case "", "search":
		return s.handleSearch(ctx, request)
	case "get_info":
		return s.handleInfo(request)
	case "health":
		return s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		return s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), codeBadRequest)
	}
}

// handleSearch fills request defaults from config, validates them and runs the search.
func (s *Server) handleSearch(ctx context.Context, request SearchRequest) error {
	wordLength := orDefault(request.WordLength, s.config.Search.WordLength)
	groupSize := orDefault(request.GroupSize, s.config.Search.GroupSize)
	topWords := orDefault(request.TopWords, s.config.Corpus.TopWords)

	if err := opener.ValidateGroupSize(groupSize); err != nil {
		return s.sendError(request.ID, err.Error(), codeBadRequest)
	}
	if err := opener.ValidateWordLength(wordLength); err != nil {
		return s.sendError(request.ID, err.Error(), codeBadRequest)
	}
	if limit := s.config.Server.MaxWordLength; limit > 0 && wordLength > limit {
		return s.sendError(request.ID,
			fmt.Sprintf("word length %d exceeds maximum of %d", wordLength, limit), codeBadRequest)
	}
	if topWords < 0 {
		return s.sendError(request.ID, fmt.Sprintf("top words must not be negative, got %d", topWords), codeBadRequest)
	}
	if limit := s.config.Server.MaxTopWords; limit > 0 && topWords > limit {
		return s.sendError(request.ID,
			fmt.Sprintf("top words %d exceeds maximum of %d", topWords, limit), codeBadRequest)
	}

	searcher, err := s.config.Searcher()
	if err != nil {
		return s.sendError(request.ID, err.Error(), codeBadRequest)
	}
	if request.MaxThreshold > 0 {
		searcher.MaxThreshold = request.MaxThreshold
	}

	words, table := s.tables.Get(wordLength, topWords)
	start := time.Now()
	result, err := searcher.Search(ctx, table, words, groupSize)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, opener.ErrExhausted) {
			s.log.Debug("Search exhausted", "id", request.ID, "err", err)
			return s.sendError(request.ID, err.Error(), codeExhausted)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.log.Errorf("Search %s failed: %v", request.ID, err)
		return s.sendError(request.ID, err.Error(), codeInternal)
	}

	combos := make([][]string, len(result.Combinations))
	for i, combo := range result.Combinations {
		combos[i] = combo
	}
	s.log.Debug("Search done", "id", request.ID, "threshold", result.Threshold,
		"combinations", len(combos), "elapsed", elapsed)

	return s.sendResponse(SearchResponse{
		ID:           request.ID,
		Combinations: combos,
		Threshold:    result.Threshold,
		Count:        len(combos),
		Candidates:   result.Candidates,
		Rounds:       result.Rounds,
		TimeTaken:    elapsed.Microseconds(),
	})
}

func (s *Server) handleInfo(request SearchRequest) error {
	return s.sendResponse(InfoResponse{
		ID:             request.ID,
		Status:         "ok",
		Words:          s.corpus.Len(),
		Lengths:        s.corpus.Lengths(),
		WordLength:     s.config.Search.WordLength,
		GroupSize:      s.config.Search.GroupSize,
		TopWords:       s.config.Corpus.TopWords,
		StartThreshold: s.config.Search.StartThreshold,
		MaxThreshold:   s.config.Search.MaxThreshold,
		Strategy:       s.config.Search.Strategy,
		CachedTables:   s.tables.Len(),
	})
}

// sendResponse encodes response and flushes it so the client sees it immediately.
func (s *Server) sendResponse(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.sendResponse(SearchError{ID: id, Error: message, Code: code})
}

func orDefault(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}
