package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/lifecycle"
	"github.com/miguel-rf/congress-alpha/internal/poll"
	"github.com/miguel-rf/congress-alpha/internal/signal"
	"github.com/miguel-rf/congress-alpha/internal/viewstate"
)

const signalsSource = "signals"

// statusClearAfter is how long a transient action message stays visible.
const statusClearAfter = 5 * time.Second

// signalsData is the aggregate snapshot behind the signals page. The page
// list is the core payload; the pending/confirmation counts are best-effort
// and stay at -1 (unknown) when their calls fail.
type signalsData struct {
	Page         api.Paginated[api.Signal]
	PendingCount int
	ConfirmCount int
}

// SignalsPage is the trade-signal worklist: a polled, paginated snapshot of
// signals with the lifecycle verbs layered on top. All mutation goes through
// the lifecycle controller; the page itself never edits the snapshot.
type SignalsPage struct {
	client   *api.Client
	ctrl     *lifecycle.Controller
	store    *viewstate.Store
	poller   *poll.Poller[signalsData]
	table    table.Model
	keys     KeyMap
	log      zerolog.Logger
	pageSize int

	width  int
	height int

	modal     Modal
	status    string
	statusErr bool
	statusAt  time.Time
}

// NewSignalsPage wires the signals worklist against the given client.
func NewSignalsPage(client *api.Client, log zerolog.Logger, interval time.Duration, pageSize int) *SignalsPage {
	store := viewstate.New(pageSize)

	p := &SignalsPage{
		client:   client,
		ctrl:     lifecycle.New(client, log),
		store:    store,
		keys:     DefaultKeyMap(),
		log:      log,
		pageSize: pageSize,
	}
	p.poller = poll.New(signalsSource, interval, func(ctx context.Context) (signalsData, error) {
		data := signalsData{PendingCount: -1, ConfirmCount: -1}
		page, err := client.ListSignals(ctx, store.Query())
		if err != nil {
			return data, err
		}
		data.Page = page
		if pending, err := client.PendingSignals(ctx); err == nil {
			data.PendingCount = len(pending)
		}
		if confirms, err := client.ConfirmationSignals(ctx); err == nil {
			data.ConfirmCount = len(confirms)
		}
		return data, nil
	})

	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Ticker", Width: 7},
		{Title: "Politician", Width: 22},
		{Title: "Chamber", Width: 7},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 8},
		{Title: "Trade date", Width: 11},
		{Title: "Lag", Width: 4},
		{Title: "Status", Width: 18},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorBlue).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(ColorWhite).Background(ColorNavy).Bold(true)
	t.SetStyles(styles)
	p.table = t

	return p
}

func (p *SignalsPage) ID() string    { return "signals" }
func (p *SignalsPage) Title() string { return "Signals" }

func (p *SignalsPage) Init() tea.Cmd { return p.poller.Start() }

func (p *SignalsPage) Blur() { p.poller.Stop() }

func (p *SignalsPage) CapturingInput() bool { return p.modal != nil }

func (p *SignalsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.table.SetHeight(maxInt(3, msg.Height-8))
		return nil, nil

	case poll.TickMsg:
		return p.poller.HandleTick(msg), nil

	case poll.CompletedMsg[signalsData]:
		if p.poller.Apply(msg) {
			p.syncTable()
		}
		return nil, nil

	case signalDetailMsg:
		if msg.err != nil {
			p.setStatus(fmt.Sprintf("load signal: %v", msg.err), true)
			return nil, nil
		}
		p.modal = NewSignalDetailModal(msg.sig)
		return nil, nil

	case lifecycle.DoneMsg:
		p.ctrl.Settle(msg)
		p.reportAction(msg)
		// Refresh reconciles the view with backend-authoritative state,
		// success or failure alike.
		return p.poller.Refresh(), nil

	case tea.KeyMsg:
		if p.modal != nil {
			pop, cmd := p.modal.Update(msg)
			if pop {
				p.modal = nil
			}
			return cmd, nil
		}
		return p.handleKey(msg), nil
	}
	return nil, nil
}

func (p *SignalsPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Refresh):
		return p.poller.Refresh()

	case key.Matches(msg, p.keys.CycleFilter):
		p.store.CycleFilter()
		p.table.SetCursor(0)
		return p.poller.Refresh()

	case key.Matches(msg, p.keys.Next):
		if p.store.HasNext(p.snapshot().Pages) {
			p.store.SetPage(p.store.Page() + 1)
			p.table.SetCursor(0)
			return p.poller.Refresh()
		}
		return nil

	case key.Matches(msg, p.keys.Prev):
		if p.store.HasPrev() {
			p.store.SetPage(p.store.Page() - 1)
			p.table.SetCursor(0)
			return p.poller.Refresh()
		}
		return nil

	case key.Matches(msg, p.keys.Confirm):
		return p.dispatch("confirm", p.ctrl.Confirm)

	case key.Matches(msg, p.keys.Reject):
		return p.dispatch("reject", p.ctrl.Reject)

	case key.Matches(msg, p.keys.Delete):
		return p.dispatch("delete", p.ctrl.Delete)

	case key.Matches(msg, p.keys.MarkProcessed):
		return p.dispatch("mark processed", p.ctrl.MarkProcessed)

	case msg.String() == "enter":
		sig, ok := p.selected()
		if !ok || sig.ID == nil {
			return nil
		}
		return p.fetchDetail(*sig.ID)

	case key.Matches(msg, p.keys.DeleteAll):
		snap := p.snapshot()
		// Processed count across the whole list, not just this page. It is
		// only known when the pending-count sub-fetch succeeded; the modal
		// renders the unknown case as "?".
		processed := -1
		if st := p.poller.State(); st.Data != nil && st.Data.PendingCount >= 0 {
			processed = maxInt(0, snap.Total-st.Data.PendingCount)
		}
		p.modal = NewBulkDeleteModal(snap.Total, processed, p.dispatchBulk)
		return nil
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

// dispatch runs one lifecycle verb against the selected row. Refusals
// (locked row, illegal status, unsaved signal) surface in the status line
// without any network call.
func (p *SignalsPage) dispatch(label string, verb func(api.Signal) (tea.Cmd, error)) tea.Cmd {
	sig, ok := p.selected()
	if !ok {
		return nil
	}
	cmd, err := verb(sig)
	if err != nil {
		p.setStatus(err.Error(), true)
		return nil
	}
	p.setStatus(label+" "+sig.Ticker+"…", false)
	return cmd
}

// signalDetailMsg carries a freshly fetched single signal for the detail
// modal. The list snapshot may be seconds old; the modal shows live state.
type signalDetailMsg struct {
	sig api.Signal
	err error
}

func (p *SignalsPage) fetchDetail(id int64) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sig, err := client.GetSignal(ctx, id)
		return signalDetailMsg{sig: sig, err: err}
	}
}

func (p *SignalsPage) dispatchBulk(processedOnly bool) tea.Cmd {
	cmd, err := p.ctrl.DeleteAll(processedOnly)
	if err != nil {
		p.setStatus(err.Error(), true)
		return nil
	}
	p.setStatus("bulk delete dispatched…", false)
	return cmd
}

func (p *SignalsPage) reportAction(msg lifecycle.DoneMsg) {
	if msg.Err != nil {
		p.setStatus(fmt.Sprintf("%s failed: %v", msg.Verb, msg.Err), true)
		return
	}
	if msg.Verb == lifecycle.VerbDeleteAll && msg.Result.DeletedCount != nil {
		p.setStatus(fmt.Sprintf("deleted %d signals", *msg.Result.DeletedCount), false)
		return
	}
	text := msg.Result.Message
	if text == "" {
		text = string(msg.Verb) + " done"
	}
	p.setStatus(text, false)
}

func (p *SignalsPage) setStatus(s string, isErr bool) {
	p.status = s
	p.statusErr = isErr
	p.statusAt = time.Now()
}

// snapshot returns the current page of signals, or the documented fallback
// (empty items, total 0, page 1 of 1) before any fetch has succeeded.
func (p *SignalsPage) snapshot() api.Paginated[api.Signal] {
	if st := p.poller.State(); st.Data != nil {
		return st.Data.Page
	}
	return api.EmptyPage[api.Signal](p.pageSize)
}

func (p *SignalsPage) selected() (api.Signal, bool) {
	items := p.snapshot().Items
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(items) {
		return api.Signal{}, false
	}
	return items[idx], true
}

// syncTable rebuilds table rows from the snapshot and flags wire
// inconsistencies between the legacy processed bool and the status field.
func (p *SignalsPage) syncTable() {
	snap := p.snapshot()
	rows := make([]table.Row, 0, len(snap.Items))
	for _, s := range snap.Items {
		id := ""
		if s.ID != nil {
			id = strconv.FormatInt(*s.ID, 10)
		}
		label := signal.Of(s).Label()
		if s.ID != nil && p.ctrl.Locked(*s.ID) {
			label = "⏳ " + label
		}
		rows = append(rows, table.Row{
			id,
			s.Ticker,
			truncate(s.Politician, 22),
			s.Chamber,
			s.TradeType,
			formatAmount(s.AmountMidpoint),
			s.TradeDate,
			strconv.Itoa(s.LagDays),
			label,
		})

		if signal.Inconsistent(s) {
			p.log.Warn().Str("ticker", s.Ticker).Str("status", s.Status).Msg("signal processed flag contradicts status")
		}
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(maxInt(0, len(rows)-1))
	}
}

func (p *SignalsPage) View(width, height int) string {
	p.width = width
	p.height = height

	if p.modal != nil {
		return p.modal.View(width, height)
	}

	st := p.poller.State()
	snap := p.snapshot()

	header := renderPageHeader("Trade Signals", st, width)
	banner := renderErrorBanner(st.Err, width)

	nav := fmt.Sprintf("page %d/%d · %d signals · filter: %s", snap.Page, snap.Pages, snap.Total, p.store.Filter())
	if st.Data != nil {
		if st.Data.PendingCount >= 0 {
			nav += fmt.Sprintf(" · %d pending", st.Data.PendingCount)
		}
		if st.Data.ConfirmCount > 0 {
			nav += " · " + stalenessStyle.Render(fmt.Sprintf("%d awaiting confirm", st.Data.ConfirmCount))
		}
	}
	if p.store.HasPrev() {
		nav = "← " + nav
	}
	if p.store.HasNext(snap.Pages) {
		nav += " →"
	}

	detail := ""
	if sig, ok := p.selected(); ok {
		label := signal.Of(sig).Label()
		detail = lipgloss.NewStyle().Foreground(statusColor(label)).Render(label)
		if sig.AssetName != nil {
			detail += " · " + truncate(*sig.AssetName, 40)
		}
		detail += fmt.Sprintf(" · disclosed %s", sig.DisclosureDate)
		if sig.PDFURL != nil {
			detail += " · " + helpStyle.Render(*sig.PDFURL)
		}
	}

	status := p.status
	if status != "" && time.Since(p.statusAt) > statusClearAfter {
		status = ""
	}
	help := "enter detail · c confirm · x reject · d delete · p process · D bulk · f filter · n/b page · r refresh"
	footer := renderStatusLine(help, status, p.statusErr, width)

	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, p.table.View())
	if detail != "" {
		parts = append(parts, detail)
	}
	parts = append(parts, helpStyle.Render(nav), footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
