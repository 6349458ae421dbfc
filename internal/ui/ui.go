package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/walkerbrain/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunningView ViewState = iota
	ResultView
)

// Model represents the check view state.
type Model struct {
	ctx          context.Context
	title        string
	view         ViewState
	sections     []tasks.Section
	workers      int
	width        int
	height       int
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	done         chan *tasks.Result
	progress     tasks.ProgressUpdate
	result       *tasks.Result
	results      list.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a check view that runs sections on at most workers goroutines.
func NewModel(ctx context.Context, title string, workers int, sections ...tasks.Section) *Model {
	return &Model{
		ctx:      ctx,
		title:    title,
		view:     RunningView,
		sections: sections,
		workers:  workers,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.heading)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Result returns the outcome of the last completed run, or nil while checks are running.
func (m *Model) Result() *tasks.Result {
	return m.result
}

// Init starts the spinner and the first run.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startChecks())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ResultView {
			m.results.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.rerun) && m.view == ResultView:
			m.view = RunningView
			m.result = nil
			m.progress = tasks.ProgressUpdate{}
			return m, tea.Batch(m.spinner.Tick, m.startChecks())
		}

	case spinner.TickMsg:
		if m.view != RunningView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgChecksComplete:
			m.result = msg.data.(*tasks.Result)
			m.progressChan = nil
			m.done = nil
			m.view = ResultView
			m.results = list.New(checkItems(m.result), list.NewDefaultDelegate(), 0, 0)
			m.results.Title = m.title
			m.results.SetShowHelp(false)
			m.results.SetSize(max(m.width-4, 40), max(m.height-6, 10))
			return m, nil
		}
	}

	if m.view == ResultView {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) startChecks() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 2*len(m.sections)+1)
	m.done = make(chan *tasks.Result, 1)

	progress, done := m.progressChan, m.done
	go func() {
		result := tasks.RunWithProgress(m.ctx, progress, m.workers, m.sections...)
		close(progress)
		done <- result
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return checksCompleteMsg(<-done)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRunning() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(m.title))
	b.WriteString("\n")

	msg := m.progress.Message
	if msg == "" {
		msg = "Starting checks..."
	}
	fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), msg)
	if m.progress.Total > 0 {
		b.WriteString(styles.help.Render(fmt.Sprintf("%d of %d done", m.progress.Step, m.progress.Total)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return b.String()
}

func (m *Model) renderResult() string {
	return fmt.Sprintf("%s\n%s\n\n%s", m.results.View(), summary(m.result), m.help.View(m.keys))
}

func summary(result *tasks.Result) string {
	failed := len(result.Failed())
	if failed == 0 {
		return styles.ok.Render(fmt.Sprintf("All %d checks passed", len(result.Sections)))
	}
	return styles.err.Render(fmt.Sprintf("%d of %d checks failed", failed, len(result.Sections)))
}

// Report writes result as plain lines, one per check, followed by a summary.
func Report(w io.Writer, title string, result *tasks.Result) error {
	if _, err := fmt.Fprintln(w, styles.heading.Render(title)); err != nil {
		return err
	}
	for _, s := range result.Sections {
		took := s.Duration.Round(time.Millisecond)
		line := styles.mark(s.Name, s.Err) + fmt.Sprintf(" (%s)", took)
		if s.Err != nil {
			line = styles.mark(s.Name, s.Err) + fmt.Sprintf(": %v (%s)", s.Err, took)
		}
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, summary(result))
	return err
}
