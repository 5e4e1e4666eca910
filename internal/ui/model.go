package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/fltload/internal/digest"
	"github.com/dustin/go-humanize"
)

const (
	maxLogLines    = 100
	updateInterval = 100 * time.Millisecond
)

//nolint:gochecknoglobals
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

type logMsg string

type progressMsg struct {
	t    time.Time
	data digest.Progress
}

// TeaModel is the bubbletea model of the interface.
type TeaModel struct {
	width  int
	height int

	title   string
	tracker progressProvider
	cancel  context.CancelFunc

	fullWidthWithBorders int

	data         digest.Progress
	progressBar  progress.Model
	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns a new [TeaModel].
//
//nolint:mnd
func NewTeaModel(title string, tracker progressProvider, cancel context.CancelFunc) TeaModel {
	return TeaModel{
		title:   title,
		tracker: tracker,
		cancel:  cancel,
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(80),
		),
		logsViewport: viewport.New(80, 20),
		logs:         make([]string, 0, maxLogLines),
	}
}

func (m TeaModel) Init() tea.Cmd {
	return pollProgress(m.tracker)
}

func pollProgress(tracker progressProvider) tea.Cmd {
	return tea.Tick(updateInterval, func(t time.Time) tea.Msg {
		return progressMsg{
			t:    t,
			data: tracker.Progress(),
		}
	})
}

//nolint:ireturn,mnd
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2
		m.progressBar.Width = m.fullWidthWithBorders

		// Progress panel takes about a third of the height.
		upperHeight := m.height / 3
		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = max(m.height-upperHeight-3, 1)

		if len(m.logs) > 0 {
			m.logsViewport.SetContent(strings.Join(m.logs, ""))
		}

		m.ready = true

	case progressMsg:
		m.data = msg.data

		if m.data.Finished {
			return m, tea.Sequence(m.progressBar.SetPercent(1), tea.Quit)
		}

		cmds = append(cmds,
			m.progressBar.SetPercent(m.data.Percentage/100),
			pollProgress(m.tracker),
		)

	case logMsg:
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))

		m.logsViewport.SetContent(strings.Join(m.logs, ""))
		m.logsViewport.GotoBottom()

	case progress.FrameMsg:
		updated, cmd := m.progressBar.Update(msg)
		if progressModel, ok := updated.(progress.Model); ok {
			m.progressBar = progressModel
		}
		cmds = append(cmds, cmd)
	}

	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	progressSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(formatProgressView(m.title, m.progressBar.View(), m.data, m.fullWidthWithBorders))

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Process Information"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("q: quit gui • ctrl+c: quit program")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		progressSection,
		logsSection,
		helpSection,
	)
}

func formatProgressView(title string, progressBar string, p digest.Progress, width int) string {
	var details string

	if !p.Finished {
		details = fmt.Sprintf(
			"Progress: %.2f%% (%d/%d rows)\n"+
				"Bytes: %s of %s\n"+
				"Time: Started=%v, ETA=%v (%.1fs left)\n"+
				"Speed: %s/s\n",
			p.Percentage,
			p.RowsProcessed,
			p.RowsTotal,
			humanize.IBytes(p.BytesProcessed),
			humanize.IBytes(p.BytesTotal),
			p.StartTime.Format("15:04:05"),
			p.EstimatedFinish.Format("15:04:05"),
			p.TimeRemaining.Seconds(),
			humanize.IBytes(uint64(p.ByteRate)),
		)
	} else {
		details = fmt.Sprintf(
			"Progress: %.2f%% (%d/%d rows)\n"+
				"Bytes: %s of %s\n"+
				"Time: Started=%v, Finished=%v\n",
			p.Percentage,
			p.RowsProcessed,
			p.RowsTotal,
			humanize.IBytes(p.BytesProcessed),
			humanize.IBytes(p.BytesTotal),
			p.StartTime.Format("15:04:05"),
			p.EndTime.Format("15:04:05"),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(width).Render(title),
		"", // Empty line for spacing.
		progressBar,
		"", // Empty line for spacing.
		infoStyle.Width(width).Render(details),
	)
}
