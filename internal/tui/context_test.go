package tui

import (
	"strings"
	"testing"

	"github.com/satriapamudji/glidereader/internal/model"
)

func tokensFromWords(words ...string) []model.Token {
	tokens := make([]model.Token, len(words))
	for i, w := range words {
		tokens[i] = model.Token{Text: w}
	}
	return tokens
}

func TestBuildContextRunesHighlightsCurrent(t *testing.T) {
	tokens := tokensFromWords("one", "two", "three")
	runes := buildContextRunes(tokens, 1)
	text := stripANSI(renderStyledRunes(runes))
	if text != "one two three" {
		t.Fatalf("unexpected context text: %q", text)
	}
	// "two" starts after "one ".
	if runes[4].s != currentStyle.Render("t") {
		t.Fatalf("expected current token styled, got %q", runes[4].s)
	}
	if runes[0].s != contextStyle.Render("o") {
		t.Fatalf("expected surrounding token dimmed, got %q", runes[0].s)
	}
}

func TestBuildContextRunesWindow(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = "w"
	}
	tokens := tokensFromWords(words...)
	runes := buildContextRunes(tokens, 100)
	// Full window: the current token plus contextRadius on each side,
	// single spaces between.
	wantTokens := contextRadius*2 + 1
	text := stripANSI(renderStyledRunes(runes))
	if got := len(strings.Fields(text)); got != wantTokens {
		t.Fatalf("expected %d tokens in window, got %d", wantTokens, got)
	}
}

func TestBuildContextRunesClampsAtEdges(t *testing.T) {
	tokens := tokensFromWords("a", "b")
	runes := buildContextRunes(tokens, 0)
	if text := stripANSI(renderStyledRunes(runes)); text != "a b" {
		t.Fatalf("unexpected edge window: %q", text)
	}
	if buildContextRunes(nil, 0) != nil {
		t.Fatalf("empty tokens should yield nil")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	tokens := tokensFromWords("alpha", "beta", "gamma")
	runes := buildContextRunes(tokens, 0)
	wrapped := stripANSI(wrapStyledRunes(runes, 11))
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", wrapped)
	}
	if lines[0] != "alpha beta" || lines[1] != "gamma" {
		t.Fatalf("unexpected wrap: %q", lines)
	}
}

func TestWrapStyledRunesLongWord(t *testing.T) {
	tokens := tokensFromWords("abcdefghij")
	runes := buildContextRunes(tokens, 0)
	wrapped := stripANSI(wrapStyledRunes(runes, 4))
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected hard breaks for an unbreakable word, got %q", wrapped)
	}
}

func TestWrapStyledRunesZeroWidth(t *testing.T) {
	tokens := tokensFromWords("a", "b")
	runes := buildContextRunes(tokens, 0)
	if got := stripANSI(wrapStyledRunes(runes, 0)); got != "a b" {
		t.Fatalf("zero width should not wrap, got %q", got)
	}
}
