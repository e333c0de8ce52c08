package corpus

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/openers/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	chunkPattern = "dict_*.bin"
	// maxChunkWords guards against corrupt headers.
	maxChunkWords = 1000000
)

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// ChunkFilename returns the file name for chunk id, e.g. dict_0001.bin.
func ChunkFilename(id int) string {
	return fmt.Sprintf("dict_%04d.bin", id)
}

// AvailableChunks scans dir for chunk files, sorted by id.
func AvailableChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, chunkPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		chunkID, ok := parseChunkID(filepath.Base(file))
		if !ok {
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{
			ChunkID:   chunkID,
			Filename:  file,
			WordCount: wordCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// parseChunkID extracts the id from a chunk file name (dict_0001.bin -> 1).
func parseChunkID(basename string) (int, bool) {
	if !strings.HasPrefix(basename, "dict_") || !strings.HasSuffix(basename, ".bin") {
		return 0, false
	}
	idStr := strings.TrimSuffix(strings.TrimPrefix(basename, "dict_"), ".bin")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, false
	}
	return id, true
}

// chunkWordCount reads the word count from a chunk file's header
func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// LoadChunks reads every chunk in dir, in id order.
func LoadChunks(dir string) ([]Entry, error) {
	chunks, err := AvailableChunks(dir)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", dir)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	var entries []Entry
	for _, chunk := range chunks {
		loaded, err := LoadChunk(chunk.Filename)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.ChunkID, err)
		}
		entries = append(entries, loaded...)
	}
	return entries, nil
}

// LoadChunk reads a single chunk file.
//
// Layout, little endian: int32 entry count, then per entry a uint16 byte
// length, the word bytes and a uint16 rank. Rank 1 is the most frequent word;
// it is turned back into a frequency so that lower ranks sort first.
func LoadChunk(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkWords {
		return nil, fmt.Errorf("invalid word count in %s: %d", filename, totalEntries)
	}

	entries := make([]Entry, 0, totalEntries)
	for len(entries) < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}

		entries = append(entries, Entry{
			Word:      string(wordBytes),
			Frequency: int64(math.MaxUint16) - int64(rank) + 1,
		})
	}

	if len(entries) < int(totalEntries) {
		log.Warnf("Chunk %s ended after %d of %d words", filename, len(entries), totalEntries)
	}
	log.Debugf("Chunk %s loaded: %d words", filename, len(entries))
	return entries, nil
}

// WriteChunks stores entries, in the given order, as chunk files of at most
// chunkSize words. Ranks follow entry order, so at most 65535 entries fit.
// It returns the written file paths.
func WriteChunks(dir string, entries []Entry, chunkSize int) ([]string, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if len(entries) > math.MaxUint16 {
		return nil, fmt.Errorf("too many entries for uint16 ranks: %d", len(entries))
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create chunk dir %s: %w", dir, err)
	}

	ranks := utils.CreateRankList(len(entries))
	var files []string
	for start, id := 0, 1; start < len(entries); start, id = start+chunkSize, id+1 {
		end := min(start+chunkSize, len(entries))
		filename := filepath.Join(dir, ChunkFilename(id))
		if err := writeChunk(filename, entries[start:end], ranks[start:end]); err != nil {
			return files, err
		}
		files = append(files, filename)
	}

	log.Debugf("Wrote %d words into %d chunks under %s", len(entries), len(files), dir)
	return files, nil
}

func writeChunk(filename string, entries []Entry, ranks []uint16) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := binary.Write(writer, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for i, e := range entries {
		if len(e.Word) > math.MaxUint16 {
			return fmt.Errorf("word too long for chunk format: %d bytes", len(e.Word))
		}
		if err := binary.Write(writer, binary.LittleEndian, uint16(len(e.Word))); err != nil {
			return err
		}
		if _, err := writer.WriteString(e.Word); err != nil {
			return err
		}
		if err := binary.Write(writer, binary.LittleEndian, ranks[i]); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}
