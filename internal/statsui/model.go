// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/satriapamudji/glidereader/internal/model"
	"github.com/satriapamudji/glidereader/internal/stats"
	"github.com/satriapamudji/glidereader/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabDocuments
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	overview     viewport.Model
	sessionTable table.Model
	docTable     table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Sessions", "Documents"},
	}
	m.overview = viewport.New(0, 0)
	m.sessionTable = newTable(sessionColumns())
	m.docTable = newTable(documentColumns())
	m.initInputs()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabOverview {
				m.overview.GotoTop()
			} else {
				m.activeTable().GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabOverview {
				m.overview.GotoBottom()
			} else {
				m.activeTable().GotoBottom()
			}
			return m, nil
		default:
			return m.forwardKey(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) activeTable() *table.Model {
	if m.activeTab == tabDocuments {
		return &m.docTable
	}
	return &m.sessionTable
}

func (m *Model) forwardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabOverview:
		m.overview, cmd = m.overview.Update(msg)
	case tabSessions:
		m.sessionTable, cmd = m.sessionTable.Update(msg)
	case tabDocuments:
		m.docTable, cmd = m.docTable.Update(msg)
	}
	return m, cmd
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Since != nil {
		m.filterInputs[0].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.sessionTable, &m.docTable} {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.sessionTable.Blur()
	m.docTable.Blur()
	if m.activeTab != tabOverview {
		m.activeTable().Focus()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	switch m.activeTab {
	case tabSessions:
		if len(m.report.Sessions) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.sessionTable.View()), m.width, height)
	case tabDocuments:
		if len(m.report.Documents) == 0 {
			return fitLines("No documents found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.docTable.View()), m.width, height)
	default:
		return fitLines(m.overview.View(), m.width, height)
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.sessionTable.SetRows(sessionRows(report.Sessions, report.DocumentTitles))
	m.docTable.SetRows(documentRows(report.Documents))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
}

func renderOverview(sessions []model.SessionRecord, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	summary := renderSummaryCards(sessions, width)
	curves := renderCurves(sessions, window, width)
	return strings.TrimRight(summary+"\n\n"+curves, "\n")
}

func renderSummaryCards(sessions []model.SessionRecord, width int) string {
	s := stats.Summarize(sessions)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", s.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AvgWPM)),
		metricCard("Best 60s WPM", fmt.Sprintf("%d", s.BestSustained)),
		metricCard("Tokens Read", fmt.Sprintf("%d", s.TotalTokens)),
		metricCard("Glide Score", fmt.Sprintf("%.1f", s.AvgGlideScore)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(sessions []model.SessionRecord, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, plotHeight); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Document", Width: 24},
		{Title: "WPM", Width: 6},
		{Title: "Best 60s", Width: 8},
		{Title: "Tokens", Width: 7},
		{Title: "Done", Width: 5},
		{Title: "Score", Width: 5},
	}
}

func sessionRows(sessions []model.SessionRecord, titles map[int64]string) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	// Newest first for browsing.
	for i := len(sessions) - 1; i >= 0; i-- {
		rec := sessions[i]
		title := titles[rec.DocumentID]
		if title == "" {
			title = fmt.Sprintf("#%d", rec.DocumentID)
		}
		rows = append(rows, table.Row{
			rec.StartedAt.Format("2006-01-02 15:04"),
			title,
			fmt.Sprintf("%.0f", rec.AverageWPM),
			fmt.Sprintf("%d", rec.BestSustainedWPM),
			fmt.Sprintf("%d", rec.TokensRead),
			fmt.Sprintf("%.0f%%", rec.Completion*100),
			fmt.Sprintf("%d", rec.GlideScore),
		})
	}
	return rows
}

func documentColumns() []table.Column {
	return []table.Column{
		{Title: "Title", Width: 30},
		{Title: "Type", Width: 5},
		{Title: "Tokens", Width: 7},
		{Title: "Position", Width: 8},
		{Title: "Finished", Width: 8},
		{Title: "Added", Width: 10},
	}
}

func documentRows(docs []model.Document) []table.Row {
	rows := make([]table.Row, 0, len(docs))
	for _, doc := range docs {
		finished := "no"
		if doc.Finished {
			finished = "yes"
		}
		rows = append(rows, table.Row{
			doc.Title,
			doc.SourceType,
			fmt.Sprintf("%d", doc.TotalTokens),
			fmt.Sprintf("%d", doc.LastPosition),
			finished,
			doc.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	sinceInput := strings.TrimSpace(m.filterInputs[0].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[1].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[2].Value())
	window := 0
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		Since:       since,
		Last:        last,
		CurveWindow: window,
	}
	return nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
