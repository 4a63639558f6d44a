// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	wordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	anchorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	guideStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#44475A"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// renderAnchoredWord places a word so its anchor rune sits at a fixed
// column, highlighted. The anchor column is measured in terminal cells,
// so wide runes before the anchor shift the padding, not the anchor.
func renderAnchoredWord(text string, anchorIndex, anchorCol int) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	if anchorIndex < 0 {
		anchorIndex = 0
	}
	if anchorIndex >= len(runes) {
		anchorIndex = len(runes) - 1
	}
	leftWidth := 0
	for _, r := range runes[:anchorIndex] {
		leftWidth += runewidth.RuneWidth(r)
	}
	pad := anchorCol - leftWidth
	if pad < 0 {
		pad = 0
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", pad))
	if anchorIndex > 0 {
		b.WriteString(wordStyle.Render(string(runes[:anchorIndex])))
	}
	b.WriteString(anchorStyle.Render(string(runes[anchorIndex])))
	if anchorIndex+1 < len(runes) {
		b.WriteString(wordStyle.Render(string(runes[anchorIndex+1:])))
	}
	return b.String()
}

// renderGuide draws the vertical marker above or below the anchor column.
func renderGuide(anchorCol int) string {
	return strings.Repeat(" ", anchorCol) + guideStyle.Render("│")
}
