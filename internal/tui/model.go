package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"lorasim/internal/metrics"
)

type progressMsg struct{ metrics.Progress }

type summaryMsg struct{ metrics.Summary }

// logMsg carries an anomaly line for the viewport.
type logMsg struct{ line string }

const (
	defaultWidth = 60
	logHeight    = 8
	maxLogLines  = 500
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
)

type model struct {
	runID    string
	table    table.Model
	vp       viewport.Model
	logs     []string
	width    int
	progress metrics.Progress
	summary  *metrics.Summary
}

func newModel(runID string) model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Metric", Width: 18},
			{Title: "Value", Width: 16},
		}),
		table.WithHeight(9),
	)
	m := model{
		runID: runID,
		table: t,
		vp:    viewport.New(defaultWidth, logHeight),
		width: defaultWidth,
	}
	m.table.SetRows(m.rows())
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.vp.Width = msg.Width
		m.vp.SetContent(m.renderLogs())
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	case progressMsg:
		m.progress = msg.Progress
		m.table.SetRows(m.rows())
	case summaryMsg:
		s := msg.Summary
		m.summary = &s
		m.table.SetRows(m.rows())
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.vp.SetContent(m.renderLogs())
		m.vp.GotoBottom()
	}
	return m, nil
}

func (m model) renderLogs() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	lines := make([]string, len(m.logs))
	for i, l := range m.logs {
		lines[i] = wordwrap.String(l, width)
	}
	return strings.Join(lines, "\n")
}

func (m model) rows() []table.Row {
	p := m.progress
	rows := []table.Row{
		{"Simulated time", fmt.Sprintf("%.1f s", p.SimTime.Seconds())},
		{"Sent", strconv.FormatInt(p.Counters.Sent, 10)},
		{"Received", strconv.FormatInt(p.Counters.Received, 10)},
		{"In flight", strconv.Itoa(p.Pending)},
		{"Duplicates", strconv.FormatInt(p.Anomalies.Duplicates, 10)},
		{"Unmatched", strconv.FormatInt(p.Anomalies.Unmatched, 10)},
		{"Negative delays", strconv.FormatInt(p.Anomalies.NegativeDelays, 10)},
	}
	if s := m.summary; s != nil {
		rows = []table.Row{
			{"Sent", strconv.FormatInt(s.Sent, 10)},
			{"Received", strconv.FormatInt(s.Received, 10)},
			{"Lost", strconv.FormatInt(s.Lost, 10)},
			{"Delivery ratio", strconv.FormatFloat(s.DeliveryRatio, 'g', 6, 64)},
			{"Average delay", fmt.Sprintf("%.6g s", s.AverageDelay.Seconds())},
			{"Duplicates", strconv.FormatInt(s.Anomalies.Duplicates, 10)},
			{"Unmatched", strconv.FormatInt(s.Anomalies.Unmatched, 10)},
			{"Negative delays", strconv.FormatInt(s.Anomalies.NegativeDelays, 10)},
		}
	}
	return rows
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lorasim run " + m.runID))
	b.WriteString("\n")
	if m.summary != nil {
		b.WriteString(doneStyle.Render("simulation finished"))
		b.WriteString("\n")
	}
	b.WriteString(boxStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Anomalies"))
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("q: quit  up/down: scroll"))
	return b.String()
}
