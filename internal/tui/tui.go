// Package tui provides a Bubble Tea terminal user interface that runs a
// download batch and shows its live progress.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/tunegrab/internal/download"
	"github.com/handiism/tunegrab/internal/model"
)

// ErrCancelled is returned by Run when the user quits before starting.
var ErrCancelled = errors.New("cancelled by user")

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

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// Runner is the part of download.Engine the TUI drives.
type Runner interface {
	DownloadPlaylist(ctx context.Context, tracks []model.Track) (model.AggregateResult, error)
	Snapshot() model.AggregateResult
	Stop()
}

// State represents the current UI state.
type State int

const (
	StateReady State = iota
	StateDownloading
	StateComplete
	StateError
)

const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Options describe the batch shown by the TUI.
type Options struct {
	// Title names the track source, e.g. the playlist file.
	Title string

	// OutputDir is shown before the batch starts.
	OutputDir string

	// NewTracks is the number of tracks not yet on disk.
	NewTracks int

	// Verbose shows skipped tracks and other verbose events.
	Verbose bool

	// AutoStart skips the ready screen.
	AutoStart bool
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	logs     []LogEntry
	err      error

	ctx    context.Context
	runner Runner
	tracks []model.Track
	events <-chan download.ProgressEvent
	opts   Options

	snapshot model.AggregateResult
	result   model.AggregateResult
	stopping bool

	width  int
	height int
}

// NewModel creates a new TUI model. events may be nil; otherwise it should
// be fed by the engine's progress callback.
func NewModel(ctx context.Context, runner Runner, tracks []model.Track, events <-chan download.ProgressEvent, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	return Model{
		state:    StateReady,
		spinner:  sp,
		progress: prog,
		logs:     make([]LogEntry, 0, maxLogs),
		ctx:      ctx,
		runner:   runner,
		tracks:   tracks,
		events:   events,
		opts:     opts,
		snapshot: model.AggregateResult{TotalCount: len(tracks)},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.waitForEvent()}
	if m.opts.AutoStart {
		cmds = append(cmds, func() tea.Msg { return StartMsg{} })
	}
	return tea.Batch(cmds...)
}

// Message types
type (
	// ProgressMsg carries one engine progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// StartMsg starts the batch.
	StartMsg struct{}

	// DownloadDoneMsg is sent when the batch returns.
	DownloadDoneMsg struct {
		Result model.AggregateResult
		Err    error
	}

	// TickMsg is for periodic progress updates.
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
		case "ctrl+c", "esc":
			switch m.state {
			case StateDownloading:
				if m.stopping && msg.String() == "ctrl+c" {
					return m, tea.Quit
				}
				if !m.stopping {
					m.stopping = true
					m.runner.Stop()
					m.addLog(LogEntry{Message: "Stopping after in-flight downloads finish...", Level: download.LevelWarning})
				}
			case StateReady:
				m.state = StateError
				m.err = ErrCancelled
				return m, tea.Quit
			default:
				return m, tea.Quit
			}

		case "enter":
			if m.state == StateReady {
				return m.Update(StartMsg{})
			}

		case "v":
			m.opts.Verbose = !m.opts.Verbose

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case StartMsg:
		if m.state != StateReady {
			return m, nil
		}
		m.state = StateDownloading
		cmds = append(cmds, m.startDownload(), m.tickProgress(), m.spinner.Tick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == download.LevelVerbose && !m.opts.Verbose {
			break
		}
		m.addLog(LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})

	case DownloadDoneMsg:
		m.result = msg.Result
		m.snapshot = msg.Result
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}
		cmds = append(cmds, m.progress.SetPercent(1))

	case TickMsg:
		if m.state == StateDownloading {
			m.snapshot = m.runner.Snapshot()
			cmds = append(cmds, m.progress.SetPercent(percent(m.snapshot)), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) addLog(entry LogEntry) {
	m.logs = append(m.logs, entry)
	// Keep only the last entries
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func percent(r model.AggregateResult) float64 {
	if r.TotalCount == 0 {
		return 1
	}
	return float64(r.Processed()) / float64(r.TotalCount)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next engine event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// startDownload runs the batch in the background.
func (m Model) startDownload() tea.Cmd {
	ctx, runner, tracks := m.ctx, m.runner, m.tracks
	return func() tea.Msg {
		result, err := runner.DownloadPlaylist(ctx, tracks)
		return DownloadDoneMsg{Result: result, Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ tunegrab"))
	b.WriteString("\n")
	if m.opts.Title != "" {
		b.WriteString(dimStyle.Render(m.opts.Title))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.state {
	case StateReady:
		b.WriteString(m.viewReady())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewReady() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d tracks, %d new", len(m.tracks), m.opts.NewTracks)))
	b.WriteString("\n\n")

	for i, t := range m.tracks {
		if i == 5 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.tracks)-5)))
			b.WriteString("\n")
			break
		}
		b.WriteString(trackStyle.Render("  ♪ " + t.Query))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.opts.OutputDir != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.opts.OutputDir)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.stopping {
		b.WriteString(warningStyle.Render("Stopping..."))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Downloading"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(percent(m.snapshot)))
	b.WriteString("\n")
	b.WriteString(m.statsLine(m.snapshot))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) statsLine(r model.AggregateResult) string {
	return infoStyle.Render(fmt.Sprintf("%d/%d", r.Processed(), r.TotalCount)) + "  " +
		successStyle.Render(fmt.Sprintf("✓ %d", r.SuccessCount)) + "  " +
		errorStyle.Render(fmt.Sprintf("✗ %d", r.FailedCount)) + "  " +
		warningStyle.Render(fmt.Sprintf("↻ %d", r.RetriedCount)) + "  " +
		dimStyle.Render(fmt.Sprintf("⏭ %d", r.SkippedCount)) + "  " +
		infoStyle.Render(FormatSize(r.TotalSize)) + "  " +
		dimStyle.Render(FormatElapsed(r.Elapsed))
}

func (m Model) viewComplete() string {
	var b strings.Builder

	r := m.result
	heading := "✨ Download Complete!"
	if m.stopping {
		heading = "Download Stopped"
	}

	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Downloaded: %d\n"+
			"Failed:     %d\n"+
			"Skipped:    %d\n"+
			"Retried:    %d\n"+
			"Size:       %s\n"+
			"Time:       %s",
		heading,
		r.SuccessCount,
		r.FailedCount,
		r.SkippedCount,
		r.RetriedCount,
		FormatSize(r.TotalSize),
		FormatElapsed(r.Elapsed),
	))
	b.WriteString(box)
	b.WriteString("\n")

	if len(r.FailedQueries) > 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Failed tracks (%d):", len(r.FailedQueries))))
		b.WriteString("\n")
		for i, q := range r.FailedQueries {
			if i == maxLogs {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(r.FailedQueries)-maxLogs)))
				b.WriteString("\n")
				break
			}
			b.WriteString(dimStyle.Render("  ✗ " + q))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateReady:
		return "enter: start • v: verbose • esc: quit"
	case StateDownloading:
		if m.stopping {
			return "ctrl+c: quit now"
		}
		return "esc: stop • v: verbose"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// Result returns the batch result and error once the model has finished.
func (m Model) Result() (model.AggregateResult, error) {
	if m.state == StateReady {
		return model.AggregateResult{}, ErrCancelled
	}
	return m.result, m.err
}

// Run starts the TUI application and returns the batch result. Cancelling
// ctx stops the batch; the program stays up to show the summary.
func Run(ctx context.Context, runner Runner, tracks []model.Track, events <-chan download.ProgressEvent, opts Options) (model.AggregateResult, error) {
	p := tea.NewProgram(NewModel(ctx, runner, tracks, events, opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return model.AggregateResult{}, err
	}

	if m, ok := final.(Model); ok {
		if m.state == StateDownloading {
			// Quit while in flight: report what finished so far.
			return runner.Snapshot(), nil
		}
		return m.Result()
	}
	return model.AggregateResult{}, ErrCancelled
}
