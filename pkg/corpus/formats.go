package corpus

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Format identifies how a word list is stored.
type Format int

const (
	FormatUnknown  Format = iota
	FormatText            // word<TAB>frequency lines
	FormatChunk           // single dict_NNNN.bin file
	FormatChunkDir        // directory of dict_NNNN.bin files
)

// FormatInfo contains metadata about a word list format
type FormatInfo struct {
	Format      Format
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[Format]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Tab separated word list",
		Extensions:  []string{".txt", ".tsv", ".csv", ""},
		MinSize:     1,
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked binary dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatChunk:
		return "chunk"
	case FormatChunkDir:
		return "chunk-dir"
	default:
		return "unknown"
	}
}

// ValidateFileFormat checks that a file matches the expected format
func ValidateFileFormat(filename string, expected Format) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, ok := supportedFormats[expected]
	if !ok {
		return fmt.Errorf("unknown format: %v", expected)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expected == FormatChunk {
		return validateChunkHeader(filename)
	}
	return nil
}

func validateChunkHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}
	if wordCount > maxChunkWords {
		return fmt.Errorf("suspicious word count in %s: %d (too large)", filename, wordCount)
	}

	log.Debugf("Binary file %s validated: %d words", filename, wordCount)
	return nil
}

// DetectFormat works out how path is stored. Directories must hold chunk files;
// .bin files are chunks; anything else is read as text.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		chunks, err := AvailableChunks(path)
		if err != nil {
			return FormatUnknown, err
		}
		if len(chunks) == 0 {
			return FormatUnknown, fmt.Errorf("no chunk files found in %s", path)
		}
		return FormatChunkDir, nil
	}

	if strings.ToLower(filepath.Ext(path)) == ".bin" {
		if err := ValidateFileFormat(path, FormatChunk); err != nil {
			return FormatUnknown, err
		}
		return FormatChunk, nil
	}

	if err := ValidateFileFormat(path, FormatText); err != nil {
		return FormatUnknown, err
	}
	return FormatText, nil
}

// Load reads entries from a text list, a chunk file or a chunk directory.
func Load(path string) ([]Entry, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loading %s as %s", path, format)

	switch format {
	case FormatChunkDir:
		return LoadChunks(path)
	case FormatChunk:
		return LoadChunk(path)
	default:
		return LoadText(path)
	}
}
