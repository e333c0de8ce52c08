// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the openers CLI and msgpack IPC server.

openers picks starter words for letter guessing games: groups of two or three
common words that share no letter, built only from letters that are common at
their position. It ranks letters per position over the most frequent words of
the chosen length, then widens the accepted set one letter at a time until a
group appears.

# Usage

Find pairs of five letter openers from the default word list:

	openers

Triples of six letter words from the top 5000, using all cores:

	openers -len 6 -group 3 -top 5000 -strategy parallel

Serve searches over stdin/stdout:

	openers -s

Convert a text word list into chunk files:

	openers -words word_list.txt -export data/

Exit status is 0 when groups were printed, 2 when no threshold produced one
and 1 on any other error.

# Configuration

Defaults live in config.toml inside the user config directory; it is created
on first run. Flags given on the command line override it:

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

# Word lists

The word list is either a text file with one "word<TAB>frequency" per line,
a single dict_NNNN.bin chunk, or a directory of them. Relative paths are looked
up in the working directory, next to the executable and in the config directory.

# IPC Protocol

In server mode requests are msgpack maps on stdin:

	{"id": "req1", "n": 5, "g": 2, "k": 1000}

and each gets one msgpack map on stdout:

	{"id": "req1", "c": [["their", "would"], ["while", "board"]], "t": 6, "n": 2, "cand": 15, "r": 4, "us": 812}

See package server for the full message set.

# Command Line Flags

	-config string
	    Path to a config file
	-words string
	    Word list file or chunk directory
	-len int
	    Letters per word
	-group int
	    Words per group (2 or 3)
	-top int
	    Most frequent words to consider (0 for all)
	-max int
	    Highest threshold to try (0 stops when no new letters appear)
	-strategy string
	    Enumeration strategy: backtrack, exhaustive or parallel
	-workers int
	    Goroutines for the parallel strategy (0 for GOMAXPROCS)
	-exclude string
	    Comma separated words or prefixes to drop from the list
	-plain
	    Print groups without styling
	-export string
	    Write the loaded list as chunk files into this directory and exit
	-chunk int
	    Words per chunk file for -export
	-rebuild-config
	    Overwrite the default config file with built-in defaults
	-s  Run the msgpack server
	-d  Toggle debug mode
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/openers/internal/cli"
	"github.com/bastiangx/openers/internal/logger"
	"github.com/bastiangx/openers/internal/utils"
	"github.com/bastiangx/openers/pkg/config"
	"github.com/bastiangx/openers/pkg/corpus"
	"github.com/bastiangx/openers/pkg/opener"
	"github.com/bastiangx/openers/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const (
	Version = "0.3.0"
	AppName = "openers"
	gh      = "https://github.com/bastiangx/openers"

	exitExhausted = 2
)

// main only manages the flow; searching, loading and serving live in their packages.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	wordsPath := flag.String("words", defaults.Corpus.Path, "Word list file or chunk directory")
	wordLength := flag.Int("len", defaults.Search.WordLength, "Letters per word")
	groupSize := flag.Int("group", defaults.Search.GroupSize, "Words per group (2 or 3)")
	topWords := flag.Int("top", defaults.Corpus.TopWords, "Most frequent words to consider (0 for all)")
	maxThreshold := flag.Int("max", defaults.Search.MaxThreshold, "Highest threshold to try (0 stops when no new letters appear)")
	strategy := flag.String("strategy", defaults.Search.Strategy, "Enumeration strategy: backtrack, exhaustive or parallel")
	workers := flag.Int("workers", defaults.Search.Workers, "Goroutines for the parallel strategy (0 for GOMAXPROCS)")
	exclude := flag.String("exclude", "", "Comma separated words or prefixes to drop from the list")
	plain := flag.Bool("plain", false, "Print groups without styling")
	exportDir := flag.String("export", "", "Write the loaded list as chunk files into this directory and exit")
	chunkSize := flag.Int("chunk", 10000, "Words per chunk file for -export")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with built-in defaults")
	serverMode := flag.Bool("s", false, "Run the msgpack server on stdin/stdout")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Printf("Wrote default config to %s", path)
		os.Exit(0)
	}

	cfg, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(loadedFrom))

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "words":
			cfg.Corpus.Path = *wordsPath
		case "len":
			cfg.Search.WordLength = *wordLength
		case "group":
			cfg.Search.GroupSize = *groupSize
		case "top":
			cfg.Corpus.TopWords = *topWords
		case "max":
			cfg.Search.MaxThreshold = *maxThreshold
		case "strategy":
			cfg.Search.Strategy = *strategy
		case "workers":
			cfg.Search.Workers = *workers
		case "exclude":
			cfg.Corpus.Exclude = splitList(*exclude)
		}
	})

	// bad settings fail before the word list is read
	if *exportDir == "" {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid settings: %v", err)
		}
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	log.Debugf("Config dir: %s", pathResolver.ConfigDir())
	resolvedPath, err := pathResolver.ResolveCorpusPath(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("Failed to find word list: %v", err)
	}

	entries, err := corpus.Load(resolvedPath)
	if err != nil {
		log.Fatalf("Failed to load word list: %v", err)
	}
	words := corpus.New(entries)
	if removed := words.Exclude(cfg.Corpus.Exclude...); removed > 0 {
		log.Debugf("Excluded %d words", removed)
	}
	log.Debugf("Loaded %s words from %s", utils.FormatWithCommas(words.Len()), resolvedPath)

	if *exportDir != "" {
		files, err := corpus.WriteChunks(*exportDir, words.Entries(), *chunkSize)
		if err != nil {
			log.Fatalf("Failed to export chunks: %v", err)
		}
		log.Printf("Wrote %d chunk files to %s", len(files), *exportDir)
		return
	}

	if *serverMode {
		log.Debug("spawning IPC")
		// a blocked stdin read never sees the context, so exit on the signal itself
		go func() {
			<-ctx.Done()
			fmt.Fprintf(os.Stderr, "\nExiting...\n")
			os.Exit(0)
		}()
		srv := server.NewServer(words, cfg)
		if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	os.Exit(runSearch(ctx, cfg, words, *plain, *debugMode))
}

// runSearch prints the groups for the configured search and returns the exit code.
func runSearch(ctx context.Context, cfg *config.Config, words *corpus.Corpus, plain, debug bool) int {
	searcher, err := cfg.Searcher()
	if err != nil {
		log.Errorf("Invalid settings: %v", err)
		return 1
	}

	opts := cli.Options{Out: os.Stdout, Plain: plain}
	// the bar would interleave with debug round logs
	if !debug && isatty.IsTerminal(os.Stderr.Fd()) {
		opts.Progress = os.Stderr
	}

	list := words.Words(cfg.Search.WordLength, cfg.Corpus.TopWords)
	log.Debug("Search info:",
		"length", cfg.Search.WordLength,
		"group", cfg.Search.GroupSize,
		"words", len(list),
		"strategy", cfg.Search.Strategy)

	_, err = cli.NewRunner(searcher, opts).Run(ctx, list, cfg.Search.WordLength, cfg.Search.GroupSize)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, opener.ErrExhausted):
		log.Warnf("No group found: %v", err)
		return exitExhausted
	default:
		log.Errorf("Search failed: %v", err)
		return 1
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print(fmt.Sprintf("[ %s ] Finds starter words that cover the most common letters", AppName))
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}
