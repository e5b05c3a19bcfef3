package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/poll"
)

const systemSource = "system"

// systemData aggregates the operational endpoints behind the System page.
// Each field degrades independently.
type systemData struct {
	Scheduler *api.SchedulerStatus
	Actions   *api.ActionStatus
	Cookies   *api.CookieStatus
	Config    api.ConfigDoc
	Health    map[string]any
}

// jobTriggeredMsg reports the acknowledgement of a fire-and-forget job
// trigger. Progress afterwards is observed through ActionStatus on refresh.
type jobTriggeredMsg struct {
	job    string
	result api.ActionResult
	err    error
}

// SystemPage shows scheduler, job and cookie health plus the backend config,
// and lets the operator trigger backend jobs manually.
type SystemPage struct {
	client *api.Client
	poller *poll.Poller[systemData]
	keys   KeyMap
	width  int

	// cookieInput is non-nil while the cookie paste form is open.
	cookieInput *textinput.Model

	status    string
	statusErr bool
	statusAt  time.Time
}

// NewSystemPage wires the operations view against the given client.
func NewSystemPage(client *api.Client, interval time.Duration) *SystemPage {
	p := &SystemPage{client: client, keys: DefaultKeyMap()}
	p.poller = poll.New(systemSource, interval, func(ctx context.Context) (systemData, error) {
		var data systemData
		var firstErr error
		collectErr := func(err error) {
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}

		if sched, err := client.SchedulerStatus(ctx); err == nil {
			data.Scheduler = &sched
		} else {
			collectErr(err)
		}
		if actions, err := client.ActionStatus(ctx); err == nil {
			data.Actions = &actions
		} else {
			collectErr(err)
		}
		if cookies, err := client.CookieStatus(ctx); err == nil {
			data.Cookies = &cookies
		} else {
			collectErr(err)
		}
		if cfg, err := client.Config(ctx); err == nil {
			data.Config = cfg
		} else {
			collectErr(err)
		}
		if health, err := client.Health(ctx); err == nil {
			data.Health = health
		} else {
			collectErr(err)
		}

		if data.Scheduler == nil && data.Actions == nil && data.Cookies == nil && data.Config == nil && data.Health == nil {
			return data, firstErr
		}
		return data, nil
	})
	return p
}

func (p *SystemPage) ID() string    { return "system" }
func (p *SystemPage) Title() string { return "System" }

func (p *SystemPage) Init() tea.Cmd { return p.poller.Start() }

func (p *SystemPage) Blur() {
	p.poller.Stop()
	p.cookieInput = nil
}

// CapturingInput is true while the cookie form is open so global bindings
// don't fire mid-paste.
func (p *SystemPage) CapturingInput() bool { return p.cookieInput != nil }

func (p *SystemPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return nil, nil

	case poll.TickMsg:
		return p.poller.HandleTick(msg), nil

	case poll.CompletedMsg[systemData]:
		p.poller.Apply(msg)
		return nil, nil

	case jobTriggeredMsg:
		if msg.err != nil {
			p.setStatus(fmt.Sprintf("%s failed: %v", msg.job, msg.err), true)
		} else if msg.result.Message != "" {
			p.setStatus(msg.result.Message, false)
		} else {
			p.setStatus(msg.job+" triggered", false)
		}
		return p.poller.Refresh(), nil

	case cookiesUpdatedMsg:
		if msg.err != nil {
			p.setStatus(fmt.Sprintf("cookie update failed: %v", msg.err), true)
		} else {
			p.setStatus("cookies updated", false)
		}
		return p.poller.Refresh(), nil

	case tea.KeyMsg:
		if p.cookieInput != nil {
			return p.handleCookieKey(msg), nil
		}
		switch {
		case key.Matches(msg, p.keys.Refresh):
			return p.poller.Refresh(), nil
		case key.Matches(msg, p.keys.RunScrape):
			return p.trigger("scrape"), nil
		case key.Matches(msg, p.keys.RunTrade):
			return p.trigger("trade"), nil
		case key.Matches(msg, p.keys.RunCycle):
			return p.trigger("cycle"), nil
		case key.Matches(msg, p.keys.StopJobs):
			return p.stopJobs(), nil
		case key.Matches(msg, p.keys.UpdateCookies):
			ti := textinput.New()
			ti.Placeholder = "paste Senate session cookie string"
			ti.CharLimit = 4096
			ti.Width = 60
			ti.Focus()
			p.cookieInput = &ti
			return textinput.Blink, nil
		}
	}
	return nil, nil
}

// cookiesUpdatedMsg reports the outcome of a cookie replacement.
type cookiesUpdatedMsg struct {
	err error
}

func (p *SystemPage) handleCookieKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.cookieInput = nil
		return nil
	case "enter":
		cookies := strings.TrimSpace(p.cookieInput.Value())
		p.cookieInput = nil
		if cookies == "" {
			return nil
		}
		client := p.client
		p.setStatus("updating cookies…", false)
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_, err := client.UpdateCookies(ctx, cookies)
			return cookiesUpdatedMsg{err: err}
		}
	}
	ti, cmd := p.cookieInput.Update(msg)
	p.cookieInput = &ti
	return cmd
}

func (p *SystemPage) trigger(job string) tea.Cmd {
	client := p.client
	p.setStatus("triggering "+job+"…", false)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := client.TriggerAction(ctx, job)
		return jobTriggeredMsg{job: job, result: result, err: err}
	}
}

// stopJobs halts whatever scrape or trade job is running. Like the triggers
// it is fire-and-forget; the follow-up refresh shows the resulting state.
func (p *SystemPage) stopJobs() tea.Cmd {
	client := p.client
	p.setStatus("stopping jobs…", false)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := client.StopActions(ctx)
		return jobTriggeredMsg{job: "stop", result: result, err: err}
	}
}

func (p *SystemPage) setStatus(s string, isErr bool) {
	p.status = s
	p.statusErr = isErr
	p.statusAt = time.Now()
}

func (p *SystemPage) View(width, height int) string {
	p.width = width
	st := p.poller.State()

	header := renderPageHeader("System", st, width)
	banner := renderErrorBanner(st.Err, width)

	var panes []string
	if st.Data != nil {
		panes = append(panes,
			p.renderScheduler(st.Data.Scheduler),
			p.renderActions(st.Data.Actions, st.Data.Cookies),
			p.renderHealth(st.Data.Health),
		)
	}

	configPane := ""
	if st.Data != nil && st.Data.Config != nil {
		configPane = p.renderConfig(st.Data.Config)
	}

	status := p.status
	if status != "" && time.Since(p.statusAt) > statusClearAfter {
		status = ""
	}
	footer := renderStatusLine("s scrape · t trade · y full cycle · S stop · u cookies · r refresh", status, p.statusErr, width)

	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	if p.cookieInput != nil {
		form := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Update Senate cookies"),
			p.cookieInput.View(),
			helpStyle.Render("enter saves · esc cancels"),
		)
		parts = append(parts, sectionStyle.Render(form))
	}
	if len(panes) > 0 {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	}
	if configPane != "" {
		parts = append(parts, configPane)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (p *SystemPage) renderScheduler(s *api.SchedulerStatus) string {
	lines := []string{titleStyle.Render("Scheduler")}
	if s == nil {
		lines = append(lines, helpStyle.Render("unavailable"))
	} else {
		state := statusOKStyle.Render("running")
		if !s.Running {
			state = errorStyle.Render("stopped")
		}
		lines = append(lines, state)
		for _, job := range s.Jobs {
			next := "n/a"
			if job.NextRun != nil {
				next = *job.NextRun
			}
			lines = append(lines, fmt.Sprintf("%-16s next %s", truncate(job.Name, 16), next))
		}
	}
	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (p *SystemPage) renderActions(a *api.ActionStatus, c *api.CookieStatus) string {
	lines := []string{titleStyle.Render("Jobs")}
	if a == nil {
		lines = append(lines, helpStyle.Render("unavailable"))
	} else {
		lines = append(lines,
			"scrape  "+runningLabel(a.ScrapeRunning),
			"trade   "+runningLabel(a.TradeRunning),
			"cycle   "+runningLabel(a.CycleRunning),
		)
		if a.LastScrape != nil {
			lines = append(lines, helpStyle.Render("last scrape "+*a.LastScrape))
		}
		if a.LastTrade != nil {
			lines = append(lines, helpStyle.Render("last trade  "+*a.LastTrade))
		}
	}

	lines = append(lines, "", titleStyle.Render("Senate cookies"))
	if c == nil {
		lines = append(lines, helpStyle.Render("unavailable"))
	} else if c.Valid {
		lines = append(lines, statusOKStyle.Render("valid"))
	} else {
		msg := c.Message
		if msg == "" {
			msg = "invalid"
		}
		lines = append(lines, errorStyle.Render(msg))
	}
	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderConfig dumps the schema-free backend config document as YAML, which
// reads better than raw JSON for nested settings.
func (p *SystemPage) renderConfig(cfg api.ConfigDoc) string {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return sectionStyle.Render(helpStyle.Render("config unrenderable: " + err.Error()))
	}
	text := strings.TrimRight(string(out), "\n")
	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Backend config"),
		text,
	))
}

// renderHealth summarizes the full health probe, one line per component. The
// backend reports a free-form map; anything that stringifies to "ok",
// "healthy" or true counts as green.
func (p *SystemPage) renderHealth(health map[string]any) string {
	lines := []string{titleStyle.Render("Health")}
	if health == nil {
		lines = append(lines, helpStyle.Render("unavailable"))
		return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	names := make([]string, 0, len(health))
	for name := range health {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		text := fmt.Sprintf("%v", health[name])
		rendered := errorStyle.Render(text)
		switch strings.ToLower(text) {
		case "ok", "healthy", "up", "true", "connected":
			rendered = statusOKStyle.Render(text)
		}
		lines = append(lines, fmt.Sprintf("%-12s %s", truncate(name, 12), rendered))
	}
	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func runningLabel(running bool) string {
	if running {
		return statusOKStyle.Render("running")
	}
	return helpStyle.Render("idle")
}
