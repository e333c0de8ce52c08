// Package cli runs one starter search from the command line and prints the
// groups it finds, one per line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/openers/internal/utils"
	"github.com/bastiangx/openers/pkg/opener"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
)

// Options control where a Runner writes and how.
type Options struct {
	// Out receives the groups. Defaults to os.Stdout.
	Out io.Writer
	// Progress receives a bar over threshold rounds. Nil disables it.
	Progress io.Writer
	// Plain prints words without styling.
	Plain bool
}

// Runner prints the result of a search as it is emitted.
type Runner struct {
	searcher  *opener.Searcher
	out       io.Writer
	progress  io.Writer
	plain     bool
	wordStyle lipgloss.Style
	sepStyle  lipgloss.Style
}

// NewRunner wraps searcher. The searcher's own Sink and OnRound still run.
func NewRunner(searcher *opener.Searcher, opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	// colours are dropped automatically when out is not a terminal
	renderer := lipgloss.NewRenderer(out)
	return &Runner{
		searcher: searcher,
		out:      out,
		progress: opts.Progress,
		plain:    opts.Plain,
		wordStyle: renderer.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		sepStyle: renderer.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}),
	}
}

// Run searches words for groups of groupSize words of wordLength letters.
// Groups are written to the output as soon as the winning round ends.
func (r *Runner) Run(ctx context.Context, words []string, wordLength, groupSize int) (*opener.Result, error) {
	if err := opener.ValidateGroupSize(groupSize); err != nil {
		return nil, err
	}
	if err := opener.ValidateWordLength(wordLength); err != nil {
		return nil, err
	}

	table := opener.BuildPositions(words, wordLength)
	log.Debug("Position table built", "words", utils.FormatWithCommas(table.Words()),
		"length", wordLength, "saturation", table.Saturation())

	searcher := *r.searcher
	searcher.Sink = opener.SinkFunc(func(c opener.Combination) error {
		if r.searcher.Sink != nil {
			if err := r.searcher.Sink.Emit(c); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(r.out, r.format(c))
		return err
	})

	var bar *progressbar.ProgressBar
	if r.progress != nil {
		rounds := searcher.Limit(table) - searcher.Start() + 1
		bar = progressbar.NewOptions(rounds,
			progressbar.OptionSetWriter(r.progress),
			progressbar.OptionSetDescription("thresholds"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	searcher.OnRound = func(stats opener.RoundStats) {
		if r.searcher.OnRound != nil {
			r.searcher.OnRound(stats)
		}
		if bar != nil {
			bar.Describe(fmt.Sprintf("threshold %d, %s candidates", stats.Threshold,
				utils.FormatWithCommas(stats.Candidates)))
			_ = bar.Add(1)
		}
	}

	result, err := searcher.Search(ctx, table, words, groupSize)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	log.Debugf("Accepted letters at threshold %d:\n%s", result.Threshold, table.Accept(result.Threshold))
	log.Infof("Found %s groups at threshold %d from %s candidates (%d rounds)",
		utils.FormatWithCommas(len(result.Combinations)), result.Threshold,
		utils.FormatWithCommas(result.Candidates), result.Rounds)
	return result, nil
}

// format renders a group as "word1, word2[, word3]".
func (r *Runner) format(c opener.Combination) string {
	if r.plain {
		return c.String()
	}
	styled := make([]string, len(c))
	for i, word := range c {
		styled[i] = r.wordStyle.Render(word)
	}
	return strings.Join(styled, r.sepStyle.Render(", "))
}
