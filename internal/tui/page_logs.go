package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/poll"
)

const logsSource = "logs"

// logLevels is the filter cycle order. Empty string means no server-side
// filter.
var logLevels = []string{"", "INFO", "WARNING", "ERROR"}

// LogsPage tails recent backend log entries, pinned to the newest line
// unless the operator has scrolled away.
type LogsPage struct {
	poller   *poll.Poller[[]api.LogEntry]
	viewport viewport.Model
	keys     KeyMap
	width    int
	ready    bool

	// mu guards level: the fetch closure reads it from a goroutine while
	// the update loop cycles it.
	mu       sync.Mutex
	levelIdx int
	level    string
	limit    int
}

// NewLogsPage wires the log tail against the given client.
func NewLogsPage(client *api.Client, interval time.Duration) *LogsPage {
	p := &LogsPage{
		keys:  DefaultKeyMap(),
		limit: 200,
	}
	p.poller = poll.New(logsSource, interval, func(ctx context.Context) ([]api.LogEntry, error) {
		return client.Logs(ctx, p.limit, p.currentLevel())
	})
	return p
}

func (p *LogsPage) currentLevel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *LogsPage) cycleLevel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levelIdx = (p.levelIdx + 1) % len(logLevels)
	p.level = logLevels[p.levelIdx]
}

func (p *LogsPage) ID() string    { return "logs" }
func (p *LogsPage) Title() string { return "Logs" }

func (p *LogsPage) Init() tea.Cmd { return p.poller.Start() }

func (p *LogsPage) Blur() { p.poller.Stop() }

func (p *LogsPage) CapturingInput() bool { return false }

func (p *LogsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		h := maxInt(3, msg.Height-6)
		if !p.ready {
			p.viewport = viewport.New(msg.Width, h)
			p.ready = true
		} else {
			p.viewport.Width = msg.Width
			p.viewport.Height = h
		}
		p.syncViewport()
		return nil, nil

	case poll.TickMsg:
		return p.poller.HandleTick(msg), nil

	case poll.CompletedMsg[[]api.LogEntry]:
		if p.poller.Apply(msg) {
			p.syncViewport()
		}
		return nil, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Refresh):
			return p.poller.Refresh(), nil
		case key.Matches(msg, p.keys.CycleLevels):
			p.cycleLevel()
			return p.poller.Refresh(), nil
		}
		if p.ready {
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return cmd, nil
		}
	}
	return nil, nil
}

// syncViewport rebuilds the rendered log text. The view stays pinned to the
// newest line unless the operator has scrolled up.
func (p *LogsPage) syncViewport() {
	if !p.ready {
		return
	}
	st := p.poller.State()
	if st.Data == nil {
		return
	}
	pinned := p.viewport.AtBottom()

	var b strings.Builder
	for _, e := range *st.Data {
		level := lipgloss.NewStyle().Foreground(levelColor(e.Level)).Render(fmt.Sprintf("%-7s", e.Level))
		b.WriteString(helpStyle.Render(e.Timestamp))
		b.WriteString(" ")
		b.WriteString(level)
		b.WriteString(" ")
		if e.Logger != "" {
			b.WriteString(helpStyle.Render(e.Logger))
			b.WriteString(" ")
		}
		b.WriteString(e.Message)
		b.WriteString("\n")
	}
	p.viewport.SetContent(b.String())
	if pinned {
		p.viewport.GotoBottom()
	}
}

func (p *LogsPage) View(width, height int) string {
	p.width = width
	st := p.poller.State()

	header := renderPageHeader("Backend Logs", st, width)
	banner := renderErrorBanner(st.Err, width)

	filter := p.currentLevel()
	if filter == "" {
		filter = "all"
	}
	count := 0
	if st.Data != nil {
		count = len(*st.Data)
	}
	meta := helpStyle.Render(fmt.Sprintf("%d lines · level: %s", count, filter))

	footer := renderStatusLine("f level · ↑/↓ scroll · r refresh", "", false, width)

	body := ""
	if p.ready {
		body = p.viewport.View()
	}

	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, meta, body, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
