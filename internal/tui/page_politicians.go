package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/poll"
)

const politiciansSource = "politicians"

// politiciansData pairs the whitelist with its reported size. The count comes
// from its own endpoint so it can disagree with len(Tracked) briefly during a
// mutation; the next refresh reconciles them.
type politiciansData struct {
	Tracked []api.Politician
	Count   *api.PoliticianCount
}

// politicianActionMsg reports the outcome of an add or remove call.
type politicianActionMsg struct {
	verb string
	name string
	err  error
}

// addForm is the inline add-politician form: two text fields plus a chamber
// toggle, with tab cycling focus between them.
type addForm struct {
	name    textinput.Model
	party   textinput.Model
	chamber string
	focus   int // 0 name, 1 party, 2 chamber
}

func newAddForm() *addForm {
	name := textinput.New()
	name.Placeholder = "Firstname Lastname"
	name.CharLimit = 64
	name.Width = 32
	name.Focus()

	party := textinput.New()
	party.Placeholder = "party (optional)"
	party.CharLimit = 16
	party.Width = 16

	return &addForm{name: name, party: party, chamber: "house"}
}

func (f *addForm) cycleFocus() {
	f.focus = (f.focus + 1) % 3
	f.name.Blur()
	f.party.Blur()
	switch f.focus {
	case 0:
		f.name.Focus()
	case 1:
		f.party.Focus()
	}
}

func (f *addForm) toggleChamber() {
	if f.chamber == "house" {
		f.chamber = "senate"
	} else {
		f.chamber = "house"
	}
}

// PoliticiansPage manages the whitelist of tracked members of congress.
type PoliticiansPage struct {
	client *api.Client
	poller *poll.Poller[politiciansData]
	table  table.Model
	keys   KeyMap
	width  int

	// form is non-nil while the add form is open.
	form *addForm
	// busy refuses a second add/remove while one is in flight.
	busy bool

	status    string
	statusErr bool
	statusAt  time.Time
}

// NewPoliticiansPage wires the whitelist view against the given client.
func NewPoliticiansPage(client *api.Client, interval time.Duration) *PoliticiansPage {
	p := &PoliticiansPage{
		client: client,
		keys:   DefaultKeyMap(),
	}
	p.poller = poll.New(politiciansSource, interval, func(ctx context.Context) (politiciansData, error) {
		var data politiciansData
		tracked, err := client.Politicians(ctx)
		if err != nil {
			return data, err
		}
		data.Tracked = tracked
		if count, err := client.PoliticianCount(ctx); err == nil {
			data.Count = &count
		}
		return data, nil
	})

	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Chamber", Width: 8},
		{Title: "Party", Width: 6},
		{Title: "Added", Width: 20},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(12))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorBlue).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(ColorWhite).Background(ColorNavy).Bold(true)
	t.SetStyles(styles)
	p.table = t

	return p
}

func (p *PoliticiansPage) ID() string    { return "politicians" }
func (p *PoliticiansPage) Title() string { return "Politicians" }

func (p *PoliticiansPage) Init() tea.Cmd { return p.poller.Start() }

func (p *PoliticiansPage) Blur() {
	p.poller.Stop()
	p.form = nil
}

// CapturingInput is true while the add form is open so global key bindings
// (quit, tab, digits) don't fire while the operator is typing a name.
func (p *PoliticiansPage) CapturingInput() bool { return p.form != nil }

func (p *PoliticiansPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.table.SetHeight(maxInt(3, msg.Height-9))
		return nil, nil

	case poll.TickMsg:
		return p.poller.HandleTick(msg), nil

	case poll.CompletedMsg[politiciansData]:
		if p.poller.Apply(msg) {
			p.syncTable()
		}
		return nil, nil

	case politicianActionMsg:
		p.busy = false
		if msg.err != nil {
			p.setStatus(fmt.Sprintf("%s %s failed: %v", msg.verb, msg.name, msg.err), true)
		} else {
			p.setStatus(fmt.Sprintf("%s %s", msg.verb, msg.name), false)
		}
		return p.poller.Refresh(), nil

	case tea.KeyMsg:
		if p.form != nil {
			return p.handleFormKey(msg), nil
		}
		return p.handleKey(msg), nil
	}
	return nil, nil
}

func (p *PoliticiansPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Refresh):
		return p.poller.Refresh()

	case key.Matches(msg, p.keys.Add):
		if p.busy {
			p.setStatus("a change is already in flight", true)
			return nil
		}
		p.form = newAddForm()
		return textinput.Blink

	case key.Matches(msg, p.keys.Delete):
		if p.busy {
			p.setStatus("a change is already in flight", true)
			return nil
		}
		sel, ok := p.selected()
		if !ok {
			return nil
		}
		return p.removeCmd(sel.Name)
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *PoliticiansPage) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	f := p.form
	switch msg.String() {
	case "esc":
		p.form = nil
		return nil
	case "tab":
		f.cycleFocus()
		return nil
	case "enter":
		name := strings.TrimSpace(f.name.Value())
		if name == "" {
			return nil
		}
		party := strings.TrimSpace(f.party.Value())
		chamber := f.chamber
		p.form = nil
		return p.addCmd(name, chamber, party)
	}

	if f.focus == 2 {
		switch msg.String() {
		case " ", "left", "right", "h", "s":
			f.toggleChamber()
		}
		return nil
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.party, cmd = f.party.Update(msg)
	}
	return cmd
}

func (p *PoliticiansPage) addCmd(name, chamber, party string) tea.Cmd {
	client := p.client
	p.busy = true
	pol := api.Politician{Name: name, Chamber: chamber}
	if party != "" {
		pol.Party = &party
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := client.AddPolitician(ctx, pol)
		return politicianActionMsg{verb: "added", name: name, err: err}
	}
}

func (p *PoliticiansPage) removeCmd(name string) tea.Cmd {
	client := p.client
	p.busy = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := client.RemovePolitician(ctx, name)
		return politicianActionMsg{verb: "removed", name: name, err: err}
	}
}

func (p *PoliticiansPage) selected() (api.Politician, bool) {
	st := p.poller.State()
	if st.Data == nil {
		return api.Politician{}, false
	}
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(st.Data.Tracked) {
		return api.Politician{}, false
	}
	return st.Data.Tracked[idx], true
}

func (p *PoliticiansPage) setStatus(s string, isErr bool) {
	p.status = s
	p.statusErr = isErr
	p.statusAt = time.Now()
}

func (p *PoliticiansPage) syncTable() {
	st := p.poller.State()
	if st.Data == nil {
		return
	}
	rows := make([]table.Row, 0, len(st.Data.Tracked))
	for _, pol := range st.Data.Tracked {
		rows = append(rows, table.Row{
			truncate(pol.Name, 28),
			pol.Chamber,
			deref(pol.Party),
			deref(pol.AddedAt),
		})
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(maxInt(0, len(rows)-1))
	}
}

func (p *PoliticiansPage) View(width, height int) string {
	p.width = width
	st := p.poller.State()

	header := renderPageHeader("Tracked Politicians", st, width)
	banner := renderErrorBanner(st.Err, width)

	countLine := ""
	if st.Data != nil {
		n := len(st.Data.Tracked)
		if st.Data.Count != nil {
			n = st.Data.Count.Count
		}
		countLine = helpStyle.Render(fmt.Sprintf("%d tracked", n))
	}

	status := p.status
	if status != "" && time.Since(p.statusAt) > statusClearAfter {
		status = ""
	}
	footer := renderStatusLine("a add · d remove · r refresh", status, p.statusErr, width)

	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	if p.form != nil {
		chamber := "chamber: " + p.form.chamber
		if p.form.focus == 2 {
			chamber = titleStyle.Render("chamber: "+p.form.chamber) + helpStyle.Render("  (space toggles)")
		}
		form := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Add politician"),
			p.form.name.View(),
			p.form.party.View(),
			chamber,
			helpStyle.Render("tab next field · enter saves · esc cancels"),
		)
		parts = append(parts, sectionStyle.Render(form))
	}
	parts = append(parts, p.table.View())
	if countLine != "" {
		parts = append(parts, countLine)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
