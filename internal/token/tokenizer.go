// Package token converts raw text into ordered RSVP display tokens.
package token

import (
	"strings"

	"github.com/satriapamudji/glidereader/internal/model"
)

// Tokenize splits text into display tokens with anchor indices and pause
// multipliers taken from the profile. The full sequence is computed once;
// the same (text, profile) pair always yields the same tokens, in source
// order. Empty input yields an empty slice.
//
// Paragraph rule: the last word of any line that has more lines following
// is floored at the profile's paragraph multiplier. The word before a
// blank line is always the last word of its line, so explicit
// double-newline detection needs no separate path.
func Tokenize(text string, profile model.PauseProfile) []model.Token {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	var tokens []model.Token
	for li, line := range lines {
		words := strings.Fields(line)
		moreLines := hasContentAfter(lines, li)
		for wi, word := range words {
			mult := punctMultiplier(word, profile)
			if wi == len(words)-1 && moreLines && mult < profile.Paragraph {
				mult = profile.Paragraph
			}
			runes := []rune(word)
			tokens = append(tokens, model.Token{
				Text:            word,
				AnchorIndex:     AnchorIndex(len(runes)),
				PauseMultiplier: mult,
			})
		}
	}
	return tokens
}

// hasContentAfter reports whether any line past index i contains a word.
func hasContentAfter(lines []string, i int) bool {
	for _, line := range lines[i+1:] {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

func punctMultiplier(word string, profile model.PauseProfile) float64 {
	runes := []rune(word)
	if len(runes) == 0 {
		return 0
	}
	switch runes[len(runes)-1] {
	case '.', '!', '?':
		return max3(profile.Period, profile.Exclamation, profile.Question)
	case ',':
		return profile.Comma
	case ';':
		return profile.Semicolon
	case ':':
		return profile.Colon
	default:
		return 0
	}
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
