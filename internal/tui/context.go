// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/satriapamudji/glidereader/internal/model"
)

// contextRadius is how many tokens around the cursor the paused context
// view shows on each side.
const contextRadius = 24

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildContextRunes renders the tokens around current as styled runes,
// the current token highlighted, with single spaces between tokens.
func buildContextRunes(tokens []model.Token, current int) []styledRune {
	if len(tokens) == 0 {
		return nil
	}
	start := current - contextRadius
	if start < 0 {
		start = 0
	}
	end := current + contextRadius + 1
	if end > len(tokens) {
		end = len(tokens)
	}
	out := make([]styledRune, 0, (end-start)*6)
	for i := start; i < end; i++ {
		style := contextStyle
		if i == current {
			style = currentStyle
		}
		if i > start {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		for _, r := range []rune(tokens[i].Text) {
			out = append(out, styledRune{
				s:     style.Render(string(r)),
				width: runewidth.RuneWidth(r),
			})
		}
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes word-wraps styled runes to the given cell width,
// breaking at spaces when one is available on the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
