// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/satriapamudji/glidereader/internal/chapter"
	"github.com/satriapamudji/glidereader/internal/model"
	"github.com/satriapamudji/glidereader/internal/playback"
	"github.com/satriapamudji/glidereader/internal/store"
)

// skipStride is how many tokens the arrow keys move outside scrubbing.
const skipStride = 10

type eventMsg playback.Event

// Model implements the Bubble Tea reading UI around a playback engine.
type Model struct {
	engine    *playback.Engine
	store     *store.Store
	doc       model.Document
	chapters  []model.Chapter
	sessionID int64
	tokens    []model.Token

	width  int
	height int

	last     playback.Event
	finished bool
}

// NewModel constructs a reading TUI model. The store may be nil for
// sessions that should not persist.
func NewModel(engine *playback.Engine, st *store.Store, doc model.Document, chapters []model.Chapter, sessionID int64, tokens []model.Token) *Model {
	m := &Model{
		engine:    engine,
		store:     st,
		doc:       doc,
		chapters:  chapters,
		sessionID: sessionID,
		tokens:    tokens,
	}
	m.last = playback.Event{
		Index: engine.Index(),
		State: engine.State(),
		WPM:   engine.WPM(),
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitEvent()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case eventMsg:
		m.last = playback.Event(msg)
		return m, m.waitEvent()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.finish()
		return m, tea.Quit
	case " ":
		m.engine.TogglePlay()
	case "left":
		if m.engine.State() == playback.Scrubbing {
			m.engine.ScrubMove(m.engine.Index() - m.scrubStride())
		} else {
			m.engine.Skip(-skipStride)
		}
	case "right":
		if m.engine.State() == playback.Scrubbing {
			m.engine.ScrubMove(m.engine.Index() + m.scrubStride())
		} else {
			m.engine.Skip(skipStride)
		}
	case "up":
		m.engine.AdjustWPM(10)
	case "down":
		m.engine.AdjustWPM(-10)
	case "tab":
		if m.engine.State() == playback.Scrubbing {
			m.engine.ScrubEnd()
		} else {
			m.engine.ScrubStart()
		}
	case "r":
		m.engine.Restart()
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.tokens) == 0 {
		return "Nothing to read."
	}
	contentWidth := m.contentWidth()
	anchorCol := contentWidth / 3

	var word string
	if tok, ok := m.engine.Current(); ok {
		word = renderAnchoredWord(tok.Text, tok.AnchorIndex, anchorCol)
	}
	block := renderGuide(anchorCol) + "\n" + word + "\n" + renderGuide(anchorCol)

	state := m.engine.State()
	if state == playback.Paused || state == playback.Scrubbing || state == playback.Complete {
		ctxRunes := buildContextRunes(m.tokens, m.engine.Index())
		block += "\n\n" + wrapStyledRunes(ctxRunes, contentWidth)
	}

	if m.width == 0 || m.height == 0 {
		return block
	}
	content := lipgloss.NewStyle().Width(contentWidth).Render(block)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	width := 60
	if m.width > 0 {
		width = int(float64(m.width) * 0.70)
	}
	if width < 20 {
		width = 20
	}
	return width
}

func (m *Model) scrubStride() int {
	stride := len(m.tokens) / 100
	if stride < 1 {
		stride = 1
	}
	return stride
}

// stateLabel renders a playback state for the footer, e.g. "Ready".
func stateLabel(s playback.State) string {
	name := s.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (m *Model) renderFooter() string {
	index := m.engine.Index()
	progress := 0
	if len(m.tokens) > 0 {
		progress = (index + 1) * 100 / len(m.tokens)
	}
	segments := []string{
		stateLabel(m.engine.State()),
		fmt.Sprintf("%d%%", progress),
		fmt.Sprintf("%d WPM", m.engine.WPM()),
	}
	if ch, ok := chapter.Containing(m.chapters, index); ok {
		segments = append(segments, ch.Title)
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

// finish freezes the session and writes the final record. Safe to call
// more than once; only the first call persists.
func (m *Model) finish() {
	if m.finished {
		return
	}
	m.finished = true
	final := m.engine.Finalize(len(m.tokens), m.chapters)
	if m.store == nil {
		return
	}
	ctx := context.Background()
	if err := m.store.UpdateDocumentPosition(ctx, m.doc.ID, m.engine.Index()); err != nil {
		logErrf("failed to save position: %v\n", err)
	}
	if err := m.store.FinalizeSession(ctx, m.sessionID, final); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.engine.Events()
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
