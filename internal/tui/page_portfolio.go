package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/poll"
)

const portfolioSource = "portfolio"

// portfolioData aggregates three independent broker endpoints. Sub-fetches
// run concurrently and degrade independently; nil fields render as
// "unavailable" rather than blanking the page.
type portfolioData struct {
	Positions []api.Position
	Summary   *api.AccountSummary
	Cash      *api.CashBalance
}

// PortfolioPage shows the broker account driven by executed copy trades.
type PortfolioPage struct {
	poller *poll.Poller[portfolioData]
	table  table.Model
	width  int
}

// NewPortfolioPage wires the portfolio view against the given client.
func NewPortfolioPage(client *api.Client, interval time.Duration) *PortfolioPage {
	p := &PortfolioPage{}
	p.poller = poll.New(portfolioSource, interval, func(ctx context.Context) (portfolioData, error) {
		var data portfolioData
		var posErr, sumErr, cashErr error

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var positions []api.Position
			if positions, posErr = client.Positions(gctx); posErr == nil {
				data.Positions = positions
			}
			return nil
		})
		g.Go(func() error {
			var summary api.AccountSummary
			if summary, sumErr = client.AccountSummary(gctx); sumErr == nil {
				data.Summary = &summary
			}
			return nil
		})
		g.Go(func() error {
			var cash api.CashBalance
			if cash, cashErr = client.CashBalance(gctx); cashErr == nil {
				data.Cash = &cash
			}
			return nil
		})
		g.Wait()

		if posErr != nil && sumErr != nil && cashErr != nil {
			return data, posErr
		}
		return data, nil
	})

	columns := []table.Column{
		{Title: "Ticker", Width: 8},
		{Title: "Qty", Width: 9},
		{Title: "Avg", Width: 10},
		{Title: "Current", Width: 10},
		{Title: "P/L", Width: 10},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(12))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorBlue).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(ColorWhite).Background(ColorNavy).Bold(true)
	t.SetStyles(styles)
	p.table = t

	return p
}

func (p *PortfolioPage) ID() string    { return "portfolio" }
func (p *PortfolioPage) Title() string { return "Portfolio" }

func (p *PortfolioPage) Init() tea.Cmd { return p.poller.Start() }

func (p *PortfolioPage) Blur() { p.poller.Stop() }

func (p *PortfolioPage) CapturingInput() bool { return false }

func (p *PortfolioPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.table.SetHeight(maxInt(3, msg.Height-10))
		return nil, nil

	case poll.TickMsg:
		return p.poller.HandleTick(msg), nil

	case poll.CompletedMsg[portfolioData]:
		if p.poller.Apply(msg) {
			p.syncTable()
		}
		return nil, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return p.poller.Refresh(), nil
		}
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return cmd, nil
	}
	return nil, nil
}

func (p *PortfolioPage) syncTable() {
	st := p.poller.State()
	if st.Data == nil {
		return
	}
	rows := make([]table.Row, 0, len(st.Data.Positions))
	for _, pos := range st.Data.Positions {
		rows = append(rows, table.Row{
			pos.Ticker,
			fmt.Sprintf("%.2f", pos.Quantity),
			formatMoney(pos.AveragePrice),
			formatMoney(pos.CurrentPrice),
			formatSigned(pos.PPL),
		})
	}
	p.table.SetRows(rows)
}

func (p *PortfolioPage) View(width, height int) string {
	p.width = width
	st := p.poller.State()

	header := renderPageHeader("Portfolio", st, width)
	banner := renderErrorBanner(st.Err, width)

	summary := helpStyle.Render("account summary unavailable")
	if st.Data != nil && st.Data.Summary != nil {
		s := st.Data.Summary
		summary = fmt.Sprintf("total %s · invested %s · cash %s · result %s",
			formatMoney(s.Total), formatMoney(s.Invested), formatMoney(s.Cash), formatSigned(s.Result))
	}
	cash := ""
	if st.Data != nil && st.Data.Cash != nil {
		cash = helpStyle.Render(fmt.Sprintf("free cash %s", formatMoney(st.Data.Cash.Free)))
	}

	footer := renderStatusLine("r refresh · tab next page", "", false, width)

	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, sectionStyle.Width(width-2).Render(summary), p.table.View())
	if cash != "" {
		parts = append(parts, cash)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
