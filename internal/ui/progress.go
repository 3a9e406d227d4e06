// Package ui renders live progress for file-set searches.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"xmlscope/internal/search"
)

// maxVisible bounds the file list; large file sets only show active and
// failed files.
const maxVisible = 12

type progressModel struct {
	title   string
	events  <-chan search.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	hits    int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status search.Status
	hits   int
	err    error
}

type eventMsg search.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by search events. The model
// quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan search.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: search.StatusQueued})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
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
		cmd := m.applyEvent(search.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.done = true
			return m, tea.Quit
		}
		return m, nil
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	finished, failed := m.counts()
	header := fmt.Sprintf("%s  %d/%d files, %d hits", m.title, finished, len(m.items), m.hits)
	if failed > 0 {
		header += fmt.Sprintf(", %d unreadable", failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-12, 20)
	for _, item := range m.visible() {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		line := fmt.Sprintf("  %s %s", status, truncate(item.path, nameWidth))
		if item.hits > 0 {
			line += fmt.Sprintf(" (%d)", item.hits)
		}
		b.WriteString(line)
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

const statusWidth = 8

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev search.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.status = ev.Status
	item.err = ev.Err
	if ev.Hits > 0 {
		m.hits += ev.Hits - item.hits
		item.hits = ev.Hits
	}

	finished, _ := m.counts()
	return m.prog.SetPercent(float64(finished) / float64(len(m.items)))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, item := range m.items {
		switch item.status {
		case search.StatusDone, search.StatusSkipped:
			finished++
		case search.StatusError:
			finished++
			failed++
		}
	}
	return finished, failed
}

// visible lists small sets in full. Larger sets show working files first,
// then errors, then the files with the most hits.
func (m *progressModel) visible() []fileItem {
	if len(m.items) <= maxVisible {
		return m.items
	}
	picked := make([]fileItem, 0, maxVisible)
	for _, want := range []search.Status{search.StatusWorking, search.StatusError} {
		for _, item := range m.items {
			if item.status == want && len(picked) < maxVisible {
				picked = append(picked, item)
			}
		}
	}
	if len(picked) < maxVisible {
		var withHits []fileItem
		for _, item := range m.items {
			if item.status == search.StatusDone && item.hits > 0 {
				withHits = append(withHits, item)
			}
		}
		sort.SliceStable(withHits, func(i, j int) bool { return withHits[i].hits > withHits[j].hits })
		for _, item := range withHits {
			if len(picked) == maxVisible {
				break
			}
			picked = append(picked, item)
		}
	}
	return picked
}

func styleStatus(status search.Status) lipgloss.Style {
	switch status {
	case search.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case search.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case search.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	case search.StatusSkipped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
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
