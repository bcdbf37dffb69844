// Package ui renders generation progress as a Bubble Tea view.
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

	"cmakegen/internal/pipeline"
)

type progressModel struct {
	title    string
	events   <-chan pipeline.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []stageItem
	index    map[pipeline.Stage]int
	lastFile string
	files    int
	width    int
	done     bool
	cancel   func()
	stopping bool
}

type stageItem struct {
	stage  pipeline.Stage
	status string
	detail string
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model with one row per stage.
// The model quits when events is closed. The first ctrl+c calls cancel and
// keeps draining events so the pipeline can stop at its next check; a second
// one quits the view immediately.
func NewProgressModel(title string, events <-chan pipeline.Event, cancel func()) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]stageItem, 0, len(pipeline.Stages))
	index := make(map[pipeline.Stage]int, len(pipeline.Stages))
	for i, st := range pipeline.Stages {
		items = append(items, stageItem{stage: st, status: "queued"})
		index[st] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
		cancel:  cancel,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
	case tea.KeyMsg:
		if msg.Type != tea.KeyCtrlC {
			return m, nil
		}
		if m.stopping || m.cancel == nil {
			return m, tea.Quit
		}
		m.stopping = true
		m.cancel()
		return m, nil
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.done:
		header = "done: " + header
	case m.stopping:
		header = m.spinner.View() + " canceling " + header
	default:
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.items {
		name := string(item.stage)
		if item.detail != "" {
			name += "  " + item.detail
		}
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(name, nameWidth)))
	}
	if m.lastFile != "" && !m.done {
		b.WriteString("\n  ")
		b.WriteString(truncate(m.lastFile, m.width-4))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.Stage]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if ev.File != "" {
		m.files++
		m.lastFile = ev.File
		item.detail = fmt.Sprintf("%d file(s)", m.files)
		return nil
	}
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		item.status = label
	}
	switch ev.Status {
	case pipeline.StatusDone:
		item.detail = fmt.Sprintf("%d  %s", ev.Count, ev.Elapsed.Round(10*time.Microsecond))
	case pipeline.StatusError:
		if ev.Err != nil {
			item.detail = ev.Err.Error()
		}
	}
	return m.prog.SetPercent(m.percent())
}

// percent counts finished stages; a running stage counts as half.
func (m *progressModel) percent() float64 {
	total := 0.0
	for _, item := range m.items {
		switch item.status {
		case "done", "skipped", "error":
			total += 1.0
		case "queued":
		default:
			total += 0.5
		}
	}
	return total / float64(len(m.items))
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued:
		return "queued"
	case pipeline.StatusDone:
		return "done"
	case pipeline.StatusSkipped:
		return "skipped"
	case pipeline.StatusError:
		return "error"
	case pipeline.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageClean:
		return "cleaning"
	case pipeline.StageDiscover:
		return "scanning"
	case pipeline.StageDerive:
		return "deriving"
	case pipeline.StageSynthesize:
		return "rendering"
	case pipeline.StageWrite:
		return "writing"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "skipped":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	case "cleaning", "scanning", "deriving", "rendering", "writing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
