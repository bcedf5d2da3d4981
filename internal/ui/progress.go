// Package ui renders interactive build progress with Bubble Tea.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"zephyr/internal/driver"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type itemState int

const (
	statePending itemState = iota
	stateActive
	stateDone
	stateFailed
)

type fileItem struct {
	path  string
	state itemState
	stage driver.Stage
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders compile progress
// for the given files, consuming events until the channel closes.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
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
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		model, cmd := m.bar.Update(msg)
		m.bar = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := m.width - 26
	if nameWidth < 20 {
		nameWidth = 20
	}

	finished, failed := 0, 0
	for _, item := range m.items {
		switch item.state {
		case stateDone:
			finished++
		case stateFailed:
			finished++
			failed++
		}
		name := truncate(item.path, nameWidth)
		pad := strings.Repeat(" ", nameWidth-runewidth.StringWidth(name))
		mark, note := itemMark(item)
		b.WriteString(fmt.Sprintf("  %s %s%s  %s\n", mark, name, pad, note))
	}

	summary := fmt.Sprintf("%d/%d files", finished, len(m.items))
	if failed > 0 {
		summary += failStyle.Render(fmt.Sprintf(", %d failed", failed))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(summary))
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
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

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.stage = ev.Stage
	switch ev.Status {
	case driver.StatusQueued:
		item.state = statePending
	case driver.StatusWorking:
		item.state = stateActive
	case driver.StatusDone:
		item.state = stateDone
	case driver.StatusError:
		item.state = stateFailed
	}
	return m.bar.SetPercent(m.completion())
}

// completion weighs active files by stage. Ownership analysis dominates a
// unit's wall clock, lexing is nearly free.
func (m *progressModel) completion() float64 {
	total := 0.0
	for _, item := range m.items {
		switch item.state {
		case stateDone, stateFailed:
			total += 1.0
		case stateActive:
			total += stageWeight(item.stage)
		}
	}
	return total / float64(len(m.items))
}

func stageWeight(stage driver.Stage) float64 {
	switch stage {
	case driver.StageLex:
		return 0.05
	case driver.StageParse:
		return 0.25
	case driver.StageAnalyze:
		return 0.55
	case driver.StageEmit:
		return 0.9
	default:
		return 0.0
	}
}

func itemMark(item fileItem) (mark, note string) {
	switch item.state {
	case stateDone:
		return doneStyle.Render("✓"), ""
	case stateFailed:
		return failStyle.Render("✗"), failStyle.Render("error")
	case stateActive:
		return activeStyle.Render("›"), activeStyle.Render(stageName(item.stage))
	default:
		return dimStyle.Render("·"), dimStyle.Render("queued")
	}
}

func stageName(stage driver.Stage) string {
	switch stage {
	case driver.StageLex:
		return "lexing"
	case driver.StageParse:
		return "parsing"
	case driver.StageAnalyze:
		return "inferring ownership"
	case driver.StageEmit:
		return "emitting rust"
	default:
		return "working"
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 1 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-1, "…")
}
