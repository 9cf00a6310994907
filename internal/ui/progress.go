// Package ui renders live analysis progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ormsynth/internal/pipeline"
)

// label and share of the bar for a program that is working in a stage
var stages = map[pipeline.Stage]struct {
	label string
	share float64
}{
	pipeline.StageCache:   {"cache", 0.05},
	pipeline.StageLoad:    {"loading", 0.2},
	pipeline.StageSemanal: {"analyzing", 0.5},
	pipeline.StageCheck:   {"checking", 0.85},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	detailStyle  = lipgloss.NewStyle().Faint(true)
	statusStyles = map[pipeline.Status]lipgloss.Style{
		pipeline.StatusQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		pipeline.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		pipeline.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		pipeline.StatusCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		pipeline.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

const statusWidth = 10

type programItem struct {
	path    string
	status  pipeline.Status
	stage   pipeline.Stage
	detail  string
	elapsed time.Duration
}

// label is what the status column shows: the stage while working.
func (it programItem) label() string {
	if it.status == pipeline.StatusWorking {
		return stages[it.stage].label
	}
	return string(it.status)
}

func (it programItem) share() float64 {
	switch it.status {
	case pipeline.StatusWorking:
		return stages[it.stage].share
	case pipeline.StatusQueued:
		return 0
	}
	return 1
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	items   []programItem
	index   map[string]int
	width   int
	done    bool
}

type (
	eventMsg pipeline.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that renders per-program
// analysis progress until events is closed.
func NewProgressModel(title string, programs []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyles[pipeline.StatusWorking]

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		items:   make([]programItem, len(programs)),
		index:   make(map[string]int, len(programs)),
		width:   80,
	}
	m.bar.Width = m.width - 4
	for i, path := range programs {
		m.items[i] = programItem{path: path, status: pipeline.StatusQueued}
		m.index[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished := 0
	for _, it := range m.items {
		if it.share() == 1 {
			finished++
		}
	}
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(20, m.width/2)
	for _, it := range m.items {
		status := statusStyles[it.status].Render(fmt.Sprintf("%*s", statusWidth, it.label()))
		fmt.Fprintf(&b, "  %s %s", status, truncate(it.path, nameWidth))
		if it.detail != "" {
			b.WriteString("  ")
			b.WriteString(detailStyle.Render(it.detail))
		}
		if it.elapsed > 0 {
			b.WriteString(detailStyle.Render(" " + it.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.Program]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	it.status, it.stage = ev.Status, ev.Stage
	if ev.Finished() {
		it.detail, it.elapsed = ev.Detail, ev.Elapsed
		if ev.Err != nil && it.detail == "" {
			it.detail = ev.Err.Error()
		}
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		total += it.share()
	}
	return total / float64(len(m.items))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
