package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/poll"
)

const tradesSource = "trades"

// tradesData is the aggregate snapshot behind the Trades page. Each source
// degrades independently: a failed stats call leaves Stats nil while the
// trade list still renders, and vice versa.
type tradesData struct {
	Trades api.Paginated[api.Trade]
	Stats  *api.TradeStats
}

// TradesPage shows executed copy trades and their aggregate outcomes.
type TradesPage struct {
	poller *poll.Poller[tradesData]
	table  table.Model
	width  int
	height int
}

// NewTradesPage wires the trades view against the given client.
func NewTradesPage(client *api.Client, interval time.Duration) *TradesPage {
	p := &TradesPage{}
	p.poller = poll.New(tradesSource, interval, func(ctx context.Context) (tradesData, error) {
		var data tradesData
		var firstErr error
		collectErr := func(err error) {
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}

		trades, err := client.ListTrades(ctx, 1, 50)
		if err == nil {
			data.Trades = trades
		} else {
			data.Trades = api.EmptyPage[api.Trade](50)
			collectErr(err)
		}

		if stats, err := client.TradeStats(ctx); err == nil {
			data.Stats = &stats
		} else {
			collectErr(err)
		}

		// Partial data beats no data: only a fully failed cycle reports an
		// error to the poller.
		if data.Stats == nil && len(data.Trades.Items) == 0 && firstErr != nil {
			return data, firstErr
		}
		return data, nil
	})

	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Ticker", Width: 7},
		{Title: "Action", Width: 7},
		{Title: "Qty", Width: 8},
		{Title: "Price", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Executed", Width: 20},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorBlue).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(ColorWhite).Background(ColorNavy).Bold(true)
	t.SetStyles(styles)
	p.table = t

	return p
}

func (p *TradesPage) ID() string    { return "trades" }
func (p *TradesPage) Title() string { return "Trades" }

func (p *TradesPage) Init() tea.Cmd { return p.poller.Start() }

func (p *TradesPage) Blur() { p.poller.Stop() }

func (p *TradesPage) CapturingInput() bool { return false }

func (p *TradesPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.table.SetHeight(maxInt(3, msg.Height-14))
		return nil, nil

	case poll.TickMsg:
		return p.poller.HandleTick(msg), nil

	case poll.CompletedMsg[tradesData]:
		if p.poller.Apply(msg) {
			p.syncTable()
		}
		return nil, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return p.poller.Refresh(), nil
		}
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return cmd, nil
	}
	return nil, nil
}

func (p *TradesPage) syncTable() {
	st := p.poller.State()
	if st.Data == nil {
		return
	}
	rows := make([]table.Row, 0, len(st.Data.Trades.Items))
	for _, t := range st.Data.Trades.Items {
		id := ""
		if t.ID != nil {
			id = strconv.FormatInt(*t.ID, 10)
		}
		rows = append(rows, table.Row{
			id,
			t.Ticker,
			t.Action,
			fmt.Sprintf("%.2f", t.Quantity),
			formatMoney(t.Price),
			t.Status,
			deref(t.ExecutedAt),
		})
	}
	p.table.SetRows(rows)
}

func (p *TradesPage) View(width, height int) string {
	p.width = width
	st := p.poller.State()

	header := renderPageHeader("Executed Trades", st, width)
	banner := renderErrorBanner(st.Err, width)

	var statsPane string
	if st.Data != nil && st.Data.Stats != nil {
		statsPane = p.renderStats(st.Data.Stats, width)
	} else if st.Data != nil {
		statsPane = helpStyle.Render("stats unavailable")
	}

	footer := renderStatusLine("r refresh · tab next page", "", false, width)

	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, p.table.View())
	if statsPane != "" {
		parts = append(parts, statsPane)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStats draws invested volume per action as a small bar chart next to
// the totals. Buys render green, sells red.
func (p *TradesPage) renderStats(stats *api.TradeStats, width int) string {
	chartWidth := 24
	chartHeight := 5

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(3),
		barchart.WithNoAxis(),
	)

	actions := make([]string, 0, len(stats.ByAction))
	for action := range stats.ByAction {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		color := ColorGray
		switch strings.ToLower(action) {
		case "buy":
			color = ColorGreen
		case "sell":
			color = ColorRed
		}
		style := lipgloss.NewStyle().Foreground(color).Background(color)
		bc.Push(barchart.BarData{
			Label:  truncate(action, 4),
			Values: []barchart.BarValue{{Name: action, Value: stats.ByAction[action], Style: style}},
		})
	}
	bc.Draw()

	totals := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Stats"),
		fmt.Sprintf("trades    %d", stats.TotalTrades),
		fmt.Sprintf("ok        %d", stats.Successful),
		fmt.Sprintf("failed    %d", stats.Failed),
		fmt.Sprintf("invested  %s", formatMoney(stats.TotalInvested)),
	)

	return sectionStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, totals, "  ", bc.View()))
}
