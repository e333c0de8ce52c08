package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestIsWord(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"crane", true},
		{"élan", true},
		{"", false},
		{"co-op", false},
		{"utf8", false},
		{"two words", false},
	}
	for _, tc := range testCases {
		if got := IsWord(tc.input); got != tc.expected {
			t.Errorf("IsWord(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestNormalizeWord(t *testing.T) {
	if got := NormalizeWord("  CRANE\t"); got != "crane" {
		t.Errorf("expected \"crane\", got %q", got)
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tc := range testCases {
		if got := FormatWithCommas(tc.input); got != tc.expected {
			t.Errorf("FormatWithCommas(%d): expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}

func TestCreateRankList(t *testing.T) {
	ranks := CreateRankList(3)
	if len(ranks) != 3 || ranks[0] != 1 || ranks[2] != 3 {
		t.Errorf("unexpected ranks %v", ranks)
	}
	if got := len(CreateRankList(-1)); got != 0 {
		t.Errorf("expected no ranks for negative count, got %d", got)
	}
	if got := len(CreateRankList(70000)); got != 65535 {
		t.Errorf("expected ranks capped at 65535, got %d", got)
	}
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{
		"name":    "backtrack",
		"size":    int64(3),
		"exclude": []any{"ab", 4, "cd"},
	}
	if v, ok := ExtractString(data, "name"); !ok || v != "backtrack" {
		t.Errorf("ExtractString: got %q, %v", v, ok)
	}
	if v, ok := ExtractInt64(data, "size"); !ok || v != 3 {
		t.Errorf("ExtractInt64: got %d, %v", v, ok)
	}
	if v, ok := ExtractStrings(data, "exclude"); !ok || len(v) != 2 || v[1] != "cd" {
		t.Errorf("ExtractStrings: got %v, %v", v, ok)
	}
	if _, ok := ExtractString(data, "size"); ok {
		t.Error("ExtractString should reject non-string values")
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	type section struct {
		Length int `toml:"length"`
	}
	type file struct {
		Search section `toml:"search"`
	}

	path := filepath.Join(t.TempDir(), "nested", "cfg.toml")
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := SaveTOMLFile(file{Search: section{Length: 5}}, path); err != nil {
		t.Fatalf("SaveTOMLFile: %v", err)
	}
	if !FileExists(path) {
		t.Fatal("expected file to exist")
	}

	var loaded file
	if err := LoadTOMLFile(path, &loaded); err != nil {
		t.Fatalf("LoadTOMLFile: %v", err)
	}
	if loaded.Search.Length != 5 {
		t.Errorf("expected length 5, got %d", loaded.Search.Length)
	}

	raw, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatalf("ParseTOMLWithRecovery: %v", err)
	}
	if _, ok := ExtractSection(raw, "search"); !ok {
		t.Error("expected search section")
	}
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	result := CheckDirStatus(dir)
	if !result.Exists || !result.Writable || result.Error != nil {
		t.Errorf("unexpected status %+v", result)
	}
}

func TestResolveCorpusPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte("crane\t10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	pr := &PathResolver{executableDir: dir, homeDir: dir, configDir: filepath.Join(dir, "cfg")}

	got, err := pr.ResolveCorpusPath("words.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("expected %s, got %s", path, got)
	}

	if got, err := pr.ResolveCorpusPath(path); err != nil || got != path {
		t.Errorf("absolute path: got %s, %v", got, err)
	}
	if _, err := pr.ResolveCorpusPath("missing.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist for missing word list, got %v", err)
	}
}

func TestGetAbsolutePath(t *testing.T) {
	if got := GetAbsolutePath(""); got != "unknown" {
		t.Errorf("expected \"unknown\", got %q", got)
	}
	if got := GetAbsolutePath("x.toml"); !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}
