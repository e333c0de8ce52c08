/*
Package config manages the TOML config for openers.

	[search]
	word_length = 5
	group_size = 2
	start_threshold = 3
	max_threshold = 0
	strategy = "backtrack"
	workers = 0

	[corpus]
	path = "word_list.txt"
	top_words = 1000
	exclude = []

	[server]
	max_word_length = 12
	max_top_words = 50000
	max_cached_tables = 16
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/openers/internal/utils"
	"github.com/bastiangx/openers/pkg/opener"
	"github.com/charmbracelet/log"
)

// FileName is the default config file name.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Search SearchConfig `toml:"search"`
	Corpus CorpusConfig `toml:"corpus"`
	Server ServerConfig `toml:"server"`
}

// SearchConfig has starter search options.
type SearchConfig struct {
	WordLength     int    `toml:"word_length"`
	GroupSize      int    `toml:"group_size"`
	StartThreshold int    `toml:"start_threshold"`
	MaxThreshold   int    `toml:"max_threshold"`
	Strategy       string `toml:"strategy"`
	Workers        int    `toml:"workers"`
}

// CorpusConfig holds word list options.
type CorpusConfig struct {
	Path     string   `toml:"path"`
	TopWords int      `toml:"top_words"`
	Exclude  []string `toml:"exclude"`
}

// ServerConfig bounds what IPC clients may ask for.
type ServerConfig struct {
	MaxWordLength   int `toml:"max_word_length"`
	MaxTopWords     int `toml:"max_top_words"`
	MaxCachedTables int `toml:"max_cached_tables"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			WordLength:     5,
			GroupSize:      2,
			StartThreshold: opener.DefaultStartThreshold,
			MaxThreshold:   0,
			Strategy:       "backtrack",
			Workers:        0,
		},
		Corpus: CorpusConfig{
			Path:     "word_list.txt",
			TopWords: 1000,
			Exclude:  []string{},
		},
		Server: ServerConfig{
			MaxWordLength:   12,
			MaxTopWords:     50000,
			MaxCachedTables: 16,
		},
	}
}

// Validate checks the values a search depends on.
func (c *Config) Validate() error {
	var errs []error
	if err := opener.ValidateGroupSize(c.Search.GroupSize); err != nil {
		errs = append(errs, err)
	}
	if err := opener.ValidateWordLength(c.Search.WordLength); err != nil {
		errs = append(errs, err)
	}
	if c.Search.StartThreshold < 1 {
		errs = append(errs, fmt.Errorf("start_threshold must be at least 1, got %d", c.Search.StartThreshold))
	}
	if c.Search.MaxThreshold > 0 && c.Search.MaxThreshold < c.Search.StartThreshold {
		errs = append(errs, fmt.Errorf("max_threshold %d is below start_threshold %d",
			c.Search.MaxThreshold, c.Search.StartThreshold))
	}
	if _, err := opener.NewEnumerator(c.Search.Strategy, c.Search.Workers); err != nil {
		errs = append(errs, err)
	}
	if c.Corpus.TopWords < 0 {
		errs = append(errs, fmt.Errorf("top_words must not be negative, got %d", c.Corpus.TopWords))
	}
	return errors.Join(errs...)
}

// Searcher builds a searcher from the search section.
func (c *Config) Searcher() (*opener.Searcher, error) {
	enum, err := opener.NewEnumerator(c.Search.Strategy, c.Search.Workers)
	if err != nil {
		return nil, err
	}
	return &opener.Searcher{
		Enumerator:     enum,
		StartThreshold: c.Search.StartThreshold,
		MaxThreshold:   c.Search.MaxThreshold,
	}, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	resolver, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return resolver.GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/openers/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that does not decode cleanly is
// recovered field by field; anything unreadable keeps its default.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "word_length"); ok {
		search.WordLength = val
	}
	if val, ok := utils.ExtractInt64(data, "group_size"); ok {
		search.GroupSize = val
	}
	if val, ok := utils.ExtractInt64(data, "start_threshold"); ok {
		search.StartThreshold = val
	}
	if val, ok := utils.ExtractInt64(data, "max_threshold"); ok {
		search.MaxThreshold = val
	}
	if val, ok := utils.ExtractString(data, "strategy"); ok {
		search.Strategy = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		search.Workers = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		corpus.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "top_words"); ok {
		corpus.TopWords = val
	}
	if val, ok := utils.ExtractStrings(data, "exclude"); ok {
		corpus.Exclude = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_word_length"); ok {
		server.MaxWordLength = val
	}
	if val, ok := utils.ExtractInt64(data, "max_top_words"); ok {
		server.MaxTopWords = val
	}
	if val, ok := utils.ExtractInt64(data, "max_cached_tables"); ok {
		server.MaxCachedTables = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
