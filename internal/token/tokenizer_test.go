package token

import (
	"strings"
	"testing"

	"github.com/satriapamudji/glidereader/internal/model"
)

func normalProfile(t *testing.T) model.PauseProfile {
	t.Helper()
	profile, ok := model.ProfileByName("normal")
	if !ok {
		t.Fatalf("normal profile missing")
	}
	return profile
}

func TestTokenizeCountMatchesFields(t *testing.T) {
	profile := normalProfile(t)
	inputs := []string{
		"one",
		"one two three",
		"first line\nsecond line\n\nthird",
		"  leading   and trailing   ",
	}
	for _, input := range inputs {
		want := 0
		for _, line := range strings.Split(input, "\n") {
			want += len(strings.Fields(line))
		}
		got := Tokenize(input, profile)
		if len(got) != want {
			t.Fatalf("Tokenize(%q): got %d tokens, want %d", input, len(got), want)
		}
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	if got := Tokenize("", normalProfile(t)); len(got) != 0 {
		t.Fatalf("expected no tokens for empty input, got %d", len(got))
	}
	if got := Tokenize("  \n \n", normalProfile(t)); len(got) != 0 {
		t.Fatalf("expected no tokens for whitespace input, got %d", len(got))
	}
}

func TestAnchorIndexTable(t *testing.T) {
	cases := []struct {
		length int
		want   int
	}{
		{1, 0}, {2, 0},
		{3, 1}, {5, 1},
		{6, 2}, {9, 2},
		{10, 3}, {13, 3},
		{14, 4}, {40, 4},
	}
	for _, c := range cases {
		if got := AnchorIndex(c.length); got != c.want {
			t.Fatalf("AnchorIndex(%d) = %d, want %d", c.length, got, c.want)
		}
	}
}

func TestAnchorDependsOnLengthOnly(t *testing.T) {
	profile := normalProfile(t)
	a := Tokenize("abcd", profile)
	b := Tokenize("wxyz", profile)
	if a[0].AnchorIndex != b[0].AnchorIndex {
		t.Fatalf("equal-length words got different anchors: %d vs %d", a[0].AnchorIndex, b[0].AnchorIndex)
	}
	if a[0].AnchorIndex != 1 {
		t.Fatalf("length-4 word anchor = %d, want 1", a[0].AnchorIndex)
	}
}

func TestAnchorAlwaysInRange(t *testing.T) {
	profile := normalProfile(t)
	for _, tok := range Tokenize("a um the word longerword extraordinary incomprehensibilities —", profile) {
		runes := []rune(tok.Text)
		if tok.AnchorIndex < 0 || tok.AnchorIndex >= len(runes) {
			t.Fatalf("anchor %d out of range for %q", tok.AnchorIndex, tok.Text)
		}
	}
}

func TestPunctuationMultipliers(t *testing.T) {
	profile := normalProfile(t)
	tokens := Tokenize("Hello, world! Next line here.", profile)
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(tokens))
	}
	if tokens[0].PauseMultiplier != profile.Comma {
		t.Fatalf("comma multiplier = %v, want %v", tokens[0].PauseMultiplier, profile.Comma)
	}
	if tokens[0].PauseMultiplier != 0.4 {
		t.Fatalf("normal comma multiplier = %v, want 0.4", tokens[0].PauseMultiplier)
	}
	if tokens[1].PauseMultiplier != 1.2 {
		t.Fatalf("sentence-end multiplier = %v, want 1.2", tokens[1].PauseMultiplier)
	}
	if tokens[2].PauseMultiplier != 0 {
		t.Fatalf("bare word multiplier = %v, want 0", tokens[2].PauseMultiplier)
	}
	if tokens[2].AnchorIndex != 1 {
		t.Fatalf("anchor for %q = %d, want 1", tokens[2].Text, tokens[2].AnchorIndex)
	}
	if tokens[4].PauseMultiplier != 1.2 {
		t.Fatalf("final word multiplier = %v, want 1.2", tokens[4].PauseMultiplier)
	}
}

func TestParagraphFloorsMultiplier(t *testing.T) {
	profile := normalProfile(t)
	tokens := Tokenize("end of paragraph.\n\nnext one", profile)
	if tokens[2].PauseMultiplier != profile.Paragraph {
		t.Fatalf("paragraph multiplier = %v, want %v", tokens[2].PauseMultiplier, profile.Paragraph)
	}
	// Single newline is also a paragraph boundary under the canonical rule.
	tokens = Tokenize("soft break\nhere", profile)
	if tokens[1].PauseMultiplier != profile.Paragraph {
		t.Fatalf("line-end multiplier = %v, want %v", tokens[1].PauseMultiplier, profile.Paragraph)
	}
	// The very last word gets no paragraph floor, even with trailing blanks.
	tokens = Tokenize("the last word\n\n", profile)
	if tokens[2].PauseMultiplier != 0 {
		t.Fatalf("final word multiplier = %v, want 0", tokens[2].PauseMultiplier)
	}
}

func TestMultipliersNeverNegative(t *testing.T) {
	profile := normalProfile(t)
	for _, tok := range Tokenize("a, b; c: d. e! f? g\nh", profile) {
		if tok.PauseMultiplier < 0 {
			t.Fatalf("negative multiplier for %q", tok.Text)
		}
	}
}

func TestPurePunctuationToken(t *testing.T) {
	tokens := Tokenize("—", normalProfile(t))
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if tokens[0].AnchorIndex != 0 {
		t.Fatalf("anchor = %d, want 0", tokens[0].AnchorIndex)
	}
}
