package tui

import (
	"strings"
	"testing"
)

func TestRenderAnchoredWordPadsToColumn(t *testing.T) {
	out := renderAnchoredWord("reading", 2, 10)
	plain := stripANSI(out)
	// Two runes precede the anchor, so eight pad cells put it at column 10.
	if !strings.HasPrefix(plain, strings.Repeat(" ", 8)+"reading") {
		t.Fatalf("unexpected padding: %q", plain)
	}
}

func TestRenderAnchoredWordHighlightsAnchor(t *testing.T) {
	out := renderAnchoredWord("word", 1, 4)
	if !strings.Contains(out, anchorStyle.Render("o")) {
		t.Fatalf("expected anchor rune styled, got %q", out)
	}
}

func TestRenderAnchoredWordClampsAnchor(t *testing.T) {
	out := renderAnchoredWord("ab", 9, 4)
	if !strings.Contains(out, anchorStyle.Render("b")) {
		t.Fatalf("out-of-range anchor should clamp to last rune, got %q", out)
	}
	if renderAnchoredWord("", 0, 4) != "" {
		t.Fatalf("empty word should render empty")
	}
}

func TestRenderGuideColumn(t *testing.T) {
	out := stripANSI(renderGuide(5))
	if out != "     │" {
		t.Fatalf("unexpected guide line: %q", out)
	}
}

// stripANSI removes escape sequences so tests can assert on layout.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
