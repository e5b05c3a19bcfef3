package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListTrades fetches one page of executed trades.
func (c *Client) ListTrades(ctx context.Context, page, pageSize int) (Paginated[Trade], error) {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
	var out Paginated[Trade]
	err := c.do(ctx, http.MethodGet, "/api/trades", v, nil, &out)
	return out, err
}

// TradeStats fetches aggregate execution statistics.
func (c *Client) TradeStats(ctx context.Context) (TradeStats, error) {
	var out TradeStats
	err := c.do(ctx, http.MethodGet, "/api/trades/stats", nil, nil, &out)
	return out, err
}

// Positions fetches open broker positions.
func (c *Client) Positions(ctx context.Context) ([]Position, error) {
	var out []Position
	err := c.do(ctx, http.MethodGet, "/api/portfolio/positions", nil, nil, &out)
	return out, err
}

// AccountSummary fetches the broker account overview.
func (c *Client) AccountSummary(ctx context.Context) (AccountSummary, error) {
	var out AccountSummary
	err := c.do(ctx, http.MethodGet, "/api/portfolio/summary", nil, nil, &out)
	return out, err
}

// CashBalance fetches the free/invested cash split.
func (c *Client) CashBalance(ctx context.Context) (CashBalance, error) {
	var out CashBalance
	err := c.do(ctx, http.MethodGet, "/api/portfolio/cash", nil, nil, &out)
	return out, err
}

// Politicians fetches the tracked politician whitelist.
func (c *Client) Politicians(ctx context.Context) ([]Politician, error) {
	var out []Politician
	err := c.do(ctx, http.MethodGet, "/api/politicians", nil, nil, &out)
	return out, err
}

// PoliticianCount fetches the whitelist size.
func (c *Client) PoliticianCount(ctx context.Context) (PoliticianCount, error) {
	var out PoliticianCount
	err := c.do(ctx, http.MethodGet, "/api/politicians/count", nil, nil, &out)
	return out, err
}

// AddPolitician adds a politician to the whitelist.
func (c *Client) AddPolitician(ctx context.Context, p Politician) (Politician, error) {
	var out Politician
	err := c.do(ctx, http.MethodPost, "/api/politicians", nil, p, &out)
	return out, err
}

// RemovePolitician removes a politician from the whitelist by name.
func (c *Client) RemovePolitician(ctx context.Context, name string) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodDelete, "/api/politicians/"+url.PathEscape(name), nil, nil, &out)
	return out, err
}

// Logs tails recent backend log entries. level is optional.
func (c *Client) Logs(ctx context.Context, limit int, level string) ([]LogEntry, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if level != "" {
		v.Set("level", level)
	}
	var out []LogEntry
	err := c.do(ctx, http.MethodGet, "/api/logs", v, nil, &out)
	return out, err
}

// Config fetches the backend configuration document.
func (c *Client) Config(ctx context.Context) (ConfigDoc, error) {
	var out ConfigDoc
	err := c.do(ctx, http.MethodGet, "/api/config", nil, nil, &out)
	return out, err
}

// SchedulerStatus fetches the backend job scheduler state.
func (c *Client) SchedulerStatus(ctx context.Context) (SchedulerStatus, error) {
	var out SchedulerStatus
	err := c.do(ctx, http.MethodGet, "/api/scheduler/status", nil, nil, &out)
	return out, err
}

// ActionStatus reports which backend jobs are running right now.
func (c *Client) ActionStatus(ctx context.Context) (ActionStatus, error) {
	var out ActionStatus
	err := c.do(ctx, http.MethodGet, "/api/actions/status", nil, nil, &out)
	return out, err
}

// TriggerAction kicks off a backend job: "scrape", "trade" or "cycle".
// Fire-and-forget; progress is observed via ActionStatus on refresh.
func (c *Client) TriggerAction(ctx context.Context, job string) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, "/api/actions/"+url.PathEscape(job), nil, nil, &out)
	return out, err
}

// StopActions asks the backend to halt any running scrape or trade job.
func (c *Client) StopActions(ctx context.Context) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, "/api/actions/stop", nil, nil, &out)
	return out, err
}

// CookieStatus reports Senate scraper cookie health.
func (c *Client) CookieStatus(ctx context.Context) (CookieStatus, error) {
	var out CookieStatus
	err := c.do(ctx, http.MethodGet, "/api/actions/cookies", nil, nil, &out)
	return out, err
}

// UpdateCookies replaces the Senate scraper session cookies.
func (c *Client) UpdateCookies(ctx context.Context, cookies string) (ActionResult, error) {
	body := map[string]string{"cookies": cookies}
	var out ActionResult
	err := c.do(ctx, http.MethodPost, "/api/actions/cookies", nil, body, &out)
	return out, err
}

// Health probes the full backend health endpoint.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/api/actions/health/full", nil, nil, &out)
	return out, err
}

// ExpectedPages computes the page count the backend reports for a given
// total and page size.
func ExpectedPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
