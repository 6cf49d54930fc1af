// Package tui provides a Bubble Tea terminal user interface for songfetch.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fyxsky/songfetch/internal/config"
	"github.com/fyxsky/songfetch/internal/fetch"
	httpx "github.com/fyxsky/songfetch/internal/http"
	"github.com/fyxsky/songfetch/internal/match"
	"github.com/fyxsky/songfetch/internal/model"
	"github.com/fyxsky/songfetch/internal/output"
	"github.com/fyxsky/songfetch/internal/providers"
	"github.com/fyxsky/songfetch/internal/songlist"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   fetch.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	rows      []model.QueryRow
	summary   fetch.Summary
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *fetch.Manager
	events  chan fetch.ProgressEvent

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model over the given settings.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "songs.csv"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	if settings == nil {
		settings = config.DefaultSettings()
	}
	// Manual selection prompts cannot coexist with the alternate screen;
	// the plain CLI owns manual mode.
	if settings.MatchMode == config.MatchManual {
		settings.MatchMode = config.MatchAuto
	}

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan fetch.ProgressEvent, 256),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// EventMsg wraps one pipeline progress event.
	EventMsg struct {
		Event fetch.ProgressEvent
	}

	// RunDoneMsg is sent when the whole run settled.
	RunDoneMsg struct {
		Rows []model.QueryRow
		Err  error
	}

	// TickMsg is for periodic row-table refreshes.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateRunning
				return m, tea.Batch(m.startRun(m.textInput.Value()), m.waitForEvent(), m.tick(), m.spinner.Tick)
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.rows = nil
				m.summary = fetch.Summary{}
				m.err = nil
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		if msg.Event.Level != fetch.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: eventLine(msg.Event),
				Level:   msg.Event.Level,
			})
			if len(m.logs) > 8 {
				m.logs = m.logs[len(m.logs)-8:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case RunDoneMsg:
		m.rows = msg.Rows
		m.summary = summarize(msg.Rows)
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateRunning {
			if state := m.manager.State(); state != nil {
				m.rows = state.Rows()
				m.summary = state.Summary()
			}
			var percent float64
			if m.summary.Total > 0 {
				percent = float64(m.summary.Done+m.summary.Failed) / float64(m.summary.Total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tick())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startRun builds the pipeline for the given CSV path and launches it.
func (m *Model) startRun(listPath string) tea.Cmd {
	settings := m.settings
	ctx := m.ctx
	events := m.events

	f, err := os.Open(listPath)
	if err != nil {
		return func() tea.Msg { return RunDoneMsg{Err: err} }
	}
	rows, err := songlist.Parse(f)
	f.Close()
	if err != nil {
		return func() tea.Msg { return RunDoneMsg{Err: err} }
	}

	client := httpx.NewClient(rate.NewLimiter(rate.Limit(8), 16))
	logger := log.New(io.Discard)
	registry := providers.BuildRegistry(client, settings, logger)
	resolver := match.NewResolver(settings.MatchMode, registry, nil)

	aggregator, err := output.ForSettings(settings, uuid.NewString()[:8], logger)
	if err != nil {
		return func() tea.Msg { return RunDoneMsg{Err: err} }
	}

	manager := fetch.NewManager(fetch.Options{
		Settings:   settings,
		Registry:   registry,
		Resolver:   resolver,
		Aggregator: aggregator,
		Client:     client,
		Logger:     logger,
		OnProgress: func(e fetch.ProgressEvent) {
			select {
			case events <- e:
			default: // UI lagging, drop rather than stall a worker
			}
		},
	})
	m.manager = manager

	return func() tea.Msg {
		final, err := manager.Run(ctx, rows)
		return RunDoneMsg{Rows: final, Err: err}
	}
}

// waitForEvent forwards the next pipeline event to the UI loop.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("songfetch"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("批量歌单下载"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("歌单 CSV 文件路径:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	b.WriteString(fmt.Sprintf("  %s 显示详细日志 (v)\n\n", verboseCheck))
	b.WriteString(dimStyle.Render(fmt.Sprintf("匹配 %s · 输出 %s · %s",
		m.settings.MatchMode, m.settings.OutputMode, m.settings.DownloadsPath)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf(
		"进行中 %d · 完成 %d · 失败 %d · 共 %d",
		m.summary.Running, m.summary.Done, m.summary.Failed, m.summary.Total)))
	b.WriteString("\n\n")

	var percent float64
	if m.summary.Total > 0 {
		percent = float64(m.summary.Done+m.summary.Failed) / float64(m.summary.Total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n\n")

	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"✨ 下载完成\n\n完成: %d\n失败: %d\n共计: %d",
		m.summary.Done, m.summary.Failed, m.summary.Total)) +
		"\n\n" + m.renderRows()
}

func (m Model) viewError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("✗ 运行失败:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
	return b.String()
}

// renderRows draws the per-row status table, windowed to the rows most
// worth watching when the list is longer than the screen.
func (m Model) renderRows() string {
	if len(m.rows) == 0 {
		return ""
	}

	limit := m.height - 16
	if limit < 5 {
		limit = 5
	}

	var b strings.Builder
	shown := 0
	for _, row := range m.rows {
		if shown >= limit {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … 其余 %d 行", len(m.rows)-shown)))
			b.WriteString("\n")
			break
		}
		b.WriteString(fmt.Sprintf("  %3d %s %s - %s", row.Index+1, statusBadge(row.Status), row.Title, row.Artist))
		if row.Status == model.StatusFailed && row.Message != "" {
			b.WriteString(dimStyle.Render("  " + row.Message))
		}
		b.WriteString("\n")
		shown++
	}
	return b.String()
}

func statusBadge(status model.RowStatus) string {
	label := fmt.Sprintf("%-9s", status.String())
	switch status {
	case model.StatusDone:
		return successStyle.Render(label)
	case model.StatusFailed:
		return errorStyle.Render(label)
	case model.StatusPending:
		return dimStyle.Render(label)
	default:
		return infoStyle.Render(label)
	}
}

func (m Model) renderLogs() string {
	var b strings.Builder
	for _, entry := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch entry.Level {
		case fetch.LevelError:
			style = errorStyle
			prefix = "✗"
		case fetch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case fetch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case fetch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: 开始 • v: 详细日志 • esc: 退出"
	case StateRunning:
		return "esc: 取消"
	case StateComplete, StateError:
		return "r: 再来一单 • q: 退出"
	}
	return ""
}

func eventLine(e fetch.ProgressEvent) string {
	if e.RowIndex < 0 {
		return e.Message
	}
	if e.Message == "" {
		return fmt.Sprintf("#%d %s", e.RowIndex+1, e.Status)
	}
	return fmt.Sprintf("#%d %s: %s", e.RowIndex+1, e.Status, e.Message)
}

func summarize(rows []model.QueryRow) fetch.Summary {
	sum := fetch.Summary{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case model.StatusDone:
			sum.Done++
		case model.StatusFailed:
			sum.Failed++
		}
	}
	return sum
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
