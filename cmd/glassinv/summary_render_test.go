package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestFormatSummaryLinePlain(t *testing.T) {
	got := formatSummaryLine(toneAttention, "Skipped rows", "3", false)
	want := "  ! Skipped rows       3"
	if got != want {
		t.Fatalf("formatSummaryLine mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := formatSummaryLine(toneNote, "Output", "", false); got != "  - Output" {
		t.Fatalf("empty value should not leave padding, got %q", got)
	}
}

func TestFormatSummaryLineColorsMarkerOnly(t *testing.T) {
	got := formatSummaryLine(toneDone, "Backup", "glasses_backup.json", true)
	if !strings.HasPrefix(got, "  "+ansiGreen+"+"+ansiReset+" ") {
		t.Fatalf("expected green marker, got %q", got)
	}
	if !strings.HasSuffix(got, "glasses_backup.json") {
		t.Fatalf("value should be uncolored, got %q", got)
	}
}

func TestSummaryWriterCountsAndHeader(t *testing.T) {
	var buf bytes.Buffer
	s := &summaryWriter{w: &buf}
	s.header("Glass Inventory Update")
	s.count("New entries", 0, toneDone)
	s.count("Skipped rows", 2, toneAttention)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"Glass Inventory Update",
		strings.Repeat("=", summaryRuleWidth),
		"  - New entries        0",
		"  ! Skipped rows       2",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Action", "ID", "New"}, [][]string{{"created", "24x30_clear_group"}}, []columnAlignment{alignLeft, alignLeft, alignRight})
	if !strings.Contains(out, "24x30_clear_group") || !strings.Contains(out, "ACTION") && !strings.Contains(out, "Action") {
		t.Fatalf("unexpected table %q", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
