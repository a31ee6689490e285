// Package ui renders snapshots: the one-shot classic report and a live
// watch view.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/vmsnap/internal/model"
	"github.com/Dicklesworthstone/vmsnap/internal/sampler"
)

// Model shows the latest snapshot from a stream of fresh requests.
type Model struct {
	latest    sampler.Update
	have      bool
	stream    <-chan sampler.Update
	ctxCancel context.CancelFunc
	interval  time.Duration
	err       error
	width     int
}

func New(snap sampler.Snapshotter, interval time.Duration) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		stream:    sampler.Stream(ctx, snap, interval),
		ctxCancel: cancel,
		interval:  interval,
		width:     100,
	}
}

// Messages
type (
	updateMsg sampler.Update
	// streamClosedMsg arrives once the stream has no more updates.
	streamClosedMsg struct{}
)

// waitForUpdate blocks on the stream and delivers its next update.
func waitForUpdate(stream <-chan sampler.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-stream
		if !ok {
			return streamClosedMsg{}
		}
		return updateMsg(u)
	}
}

func (m *Model) Init() tea.Cmd { return waitForUpdate(m.stream) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.ctxCancel()
			return m, tea.Quit
		}
	case updateMsg:
		return m.apply(sampler.Update(msg))
	case streamClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

// apply records u. A failed snapshot ends the view; Err reports why.
func (m *Model) apply(u sampler.Update) (tea.Model, tea.Cmd) {
	if u.Err != nil {
		m.err = u.Err
		m.ctxCancel()
		return m, tea.Quit
	}
	m.latest, m.have = u, true
	return m, waitForUpdate(m.stream)
}

// Err is the snapshot failure that stopped the view, if any.
func (m *Model) Err() error { return m.err }

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

func (m *Model) View() string {
	title := titleStyle.Render("vmstat") + "  " +
		subtleStyle.Render(fmt.Sprintf("every %s, q to quit", m.interval))
	if !m.have {
		return lipgloss.JoinVertical(lipgloss.Left, title, subtleStyle.Render("waiting for first snapshot..."))
	}
	s := m.latest.Snapshot
	table := strings.Join([]string{
		headerStyle.Render(GroupHeader),
		headerStyle.Render(ColumnHeader),
		Row(s),
	}, "\n")
	stamp := subtleStyle.Render(m.latest.At.Format("Mon Jan 2 15:04:05 MST 2006") +
		"  cpu " + cpuGauge(s, 30))
	return lipgloss.JoinVertical(lipgloss.Left, title, cardStyle.Render(table), stamp)
}

// cpuGauge draws the us/sy/wa/st shares as a bar; floor losses show as idle.
func cpuGauge(s model.Snapshot, width int) string {
	seg := func(pct uint64, r string) string {
		return strings.Repeat(r, int(pct)*width/100)
	}
	bar := seg(s.CPUUs, "u") + seg(s.CPUSy, "s") + seg(s.CPUWa, "w") + seg(s.CPUSt, "t")
	if len(bar) > width {
		bar = bar[:width]
	}
	return "[" + bar + strings.Repeat("·", width-len(bar)) + "]"
}

// RunWatch starts the Bubble Tea program and returns the first snapshot
// failure, if one stopped it.
func RunWatch(snap sampler.Snapshotter, interval time.Duration) error {
	m := New(snap, interval)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return err
	}
	return m.Err()
}
