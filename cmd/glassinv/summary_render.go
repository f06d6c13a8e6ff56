package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// tone marks how a summary line should read: plain information, a completed
// step, something the operator should look at, or a failure.
type tone int

const (
	toneNote tone = iota
	toneDone
	toneAttention
	toneFailed
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

var toneMarkers = map[tone]struct{ glyph, color string }{
	toneNote:      {"-", ansiBlue},
	toneDone:      {"+", ansiGreen},
	toneAttention: {"!", ansiYellow},
	toneFailed:    {"x", ansiRed},
}

const (
	summaryLabelWidth = 18
	summaryRuleWidth  = 40
)

// formatSummaryLine renders "  <marker> <label padded> <value>". Only the
// marker is colored so values stay easy to copy.
func formatSummaryLine(t tone, label, value string, colorize bool) string {
	marker, ok := toneMarkers[t]
	if !ok {
		marker = toneMarkers[toneNote]
	}
	glyph := marker.glyph
	if colorize {
		glyph = marker.color + glyph + ansiReset
	}
	return strings.TrimRight(fmt.Sprintf("  %s %-*s %s", glyph, summaryLabelWidth, label, value), " ")
}

// countTone is toneNote for zero and t otherwise, so empty counters never
// draw attention.
func countTone(n int, t tone) tone {
	if n == 0 {
		return toneNote
	}
	return t
}

// summaryWriter prints run summaries for the export, reconcile, and config
// commands.
type summaryWriter struct {
	w        io.Writer
	colorize bool
}

func newSummaryWriter(w io.Writer) *summaryWriter {
	return &summaryWriter{w: w, colorize: shouldColorize(w)}
}

// header prints the title over a rule of '=' at least summaryRuleWidth wide.
func (s *summaryWriter) header(title string) {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("=", max(summaryRuleWidth, len(title)))
	if s.colorize {
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(s.w, title)
	fmt.Fprintln(s.w, rule)
}

func (s *summaryWriter) line(t tone, label, value string) {
	fmt.Fprintln(s.w, formatSummaryLine(t, label, value, s.colorize))
}

// count prints a counter, marked with t only when it is non-zero.
func (s *summaryWriter) count(label string, n int, t tone) {
	s.line(countTone(n, t), label, strconv.Itoa(n))
}

func (s *summaryWriter) text(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(s.w, line)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
