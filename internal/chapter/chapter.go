// Package chapter derives chapter ranges from plain text. The heuristics
// are deliberately cheap; consumers only need non-overlapping token
// ranges covering the document.
package chapter

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/satriapamudji/glidereader/internal/model"
)

var chapterLineRe = regexp.MustCompile(`(?i)^(chapter|part|book|section)\b[\s.:]*([0-9ivxlc]+)?`)

const (
	maxHeadingWords = 6
	maxHeadingRunes = 48
)

// Detect splits text into chapters by heading-looking lines and returns
// half-open token ranges covering [0, totalTokens). It returns nil when
// no line looks like a heading; callers must treat a nil chapter list as
// an un-chaptered document.
func Detect(text string) []model.Chapter {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	var chapters []model.Chapter
	offset := 0
	total := 0
	for i, line := range lines {
		words := len(strings.Fields(line))
		if words > 0 && isHeading(lines, i) {
			if len(chapters) > 0 {
				chapters[len(chapters)-1].EndToken = offset
			} else if offset > 0 {
				// Text before the first heading becomes a front-matter
				// chapter so the ranges stay contiguous from zero.
				chapters = append(chapters, model.Chapter{Title: "Front matter", StartToken: 0, EndToken: offset})
			}
			chapters = append(chapters, model.Chapter{
				Title:      strings.TrimSpace(line),
				StartToken: offset,
			})
		}
		offset += words
		total = offset
	}
	if len(chapters) == 0 {
		return nil
	}
	chapters[len(chapters)-1].EndToken = total
	// A trailing heading with no body yields an empty range; drop it.
	out := chapters[:0]
	for _, ch := range chapters {
		if ch.EndToken > ch.StartToken {
			out = append(out, ch)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Containing returns the chapter whose range holds tokenIndex, or false.
func Containing(chapters []model.Chapter, tokenIndex int) (model.Chapter, bool) {
	for _, ch := range chapters {
		if tokenIndex >= ch.StartToken && tokenIndex < ch.EndToken {
			return ch, true
		}
	}
	return model.Chapter{}, false
}

func isHeading(lines []string, i int) bool {
	line := strings.TrimSpace(lines[i])
	if line == "" {
		return false
	}
	if chapterLineRe.MatchString(line) && len(strings.Fields(line)) <= maxHeadingWords {
		return true
	}
	words := strings.Fields(line)
	if len(words) > maxHeadingWords || len([]rune(line)) > maxHeadingRunes {
		return false
	}
	if isAllCaps(line) {
		return true
	}
	// A short isolated line without sentence punctuation reads as a title.
	if !blankAt(lines, i-1) || !blankAt(lines, i+1) {
		return false
	}
	switch line[len(line)-1] {
	case '.', '!', '?', ',', ';', ':':
		return false
	}
	return i > 0
}

func blankAt(lines []string, i int) bool {
	if i < 0 || i >= len(lines) {
		return true
	}
	return strings.TrimSpace(lines[i]) == ""
}

func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
