package api

// Signal is a candidate trade derived from a disclosed congressional
// transaction. ID is assigned by the backend scraper; the client never
// constructs Signals.
//
// The backend exposes both a lifecycle Status string (newer schema) and the
// legacy Processed bool. Status is canonical on the client side; see
// internal/signal for the reconciliation rule.
type Signal struct {
	ID             *int64  `json:"id"`
	Ticker         string  `json:"ticker"`
	Politician     string  `json:"politician"`
	TradeType      string  `json:"trade_type"`
	AmountMidpoint float64 `json:"amount_midpoint"`
	TradeDate      string  `json:"trade_date"`
	DisclosureDate string  `json:"disclosure_date"`
	LagDays        int     `json:"lag_days"`
	SignalType     string  `json:"signal_type"`
	Chamber        string  `json:"chamber"`
	AssetName      *string `json:"asset_name"`
	PDFURL         *string `json:"pdf_url"`
	Status         string  `json:"status,omitempty"`
	Processed      bool    `json:"processed"`
	CreatedAt      *string `json:"created_at"`
}

// Paginated is one page of a filtered list query.
type Paginated[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Pages    int `json:"pages"`
}

// EmptyPage is the documented fallback snapshot rendered when a list fetch
// fails before any data has arrived.
func EmptyPage[T any](pageSize int) Paginated[T] {
	return Paginated[T]{Items: []T{}, Total: 0, Page: 1, PageSize: pageSize, Pages: 1}
}

// ActionResult is the backend acknowledgement for mutating signal calls.
type ActionResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	DeletedCount *int   `json:"deleted_count,omitempty"`
}

// Trade is an executed (or failed) copy trade.
type Trade struct {
	ID           *int64  `json:"id"`
	SignalID     *int64  `json:"signal_id"`
	Ticker       string  `json:"ticker"`
	Action       string  `json:"action"`
	Quantity     float64 `json:"quantity"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	ExecutedAt   *string `json:"executed_at"`
	ErrorMessage *string `json:"error_message"`
}

// TradeStats aggregates execution outcomes.
type TradeStats struct {
	TotalTrades   int                `json:"total_trades"`
	Successful    int                `json:"successful"`
	Failed        int                `json:"failed"`
	TotalInvested float64            `json:"total_invested"`
	ByTicker      map[string]int     `json:"by_ticker"`
	ByAction      map[string]float64 `json:"by_action"`
}

// Position is one open broker position.
type Position struct {
	Ticker       string  `json:"ticker"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
	CurrentPrice float64 `json:"current_price"`
	PPL          float64 `json:"ppl"`
}

// AccountSummary is the broker account overview.
type AccountSummary struct {
	Cash     float64 `json:"cash"`
	Invested float64 `json:"invested"`
	Result   float64 `json:"result"`
	Total    float64 `json:"total"`
}

// CashBalance is the free/invested cash split.
type CashBalance struct {
	Free     float64 `json:"free"`
	Total    float64 `json:"total"`
	Invested float64 `json:"invested"`
}

// Politician is a tracked member of congress.
type Politician struct {
	Name    string  `json:"name"`
	Chamber string  `json:"chamber"`
	Party   *string `json:"party,omitempty"`
	AddedAt *string `json:"added_at,omitempty"`
}

// PoliticianCount is the /politicians/count response.
type PoliticianCount struct {
	Count int `json:"count"`
}

// LogEntry is one backend log line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Logger    string `json:"logger"`
	Message   string `json:"message"`
}

// SchedulerJob is one scheduled backend job.
type SchedulerJob struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	NextRun *string `json:"next_run"`
}

// SchedulerStatus is the backend job scheduler state.
type SchedulerStatus struct {
	Running bool           `json:"running"`
	Jobs    []SchedulerJob `json:"jobs"`
}

// ActionStatus reports which backend jobs are currently running.
type ActionStatus struct {
	ScrapeRunning bool    `json:"scrape_running"`
	TradeRunning  bool    `json:"trade_running"`
	CycleRunning  bool    `json:"cycle_running"`
	LastScrape    *string `json:"last_scrape"`
	LastTrade     *string `json:"last_trade"`
}

// CookieStatus reports Senate scraper cookie health.
type CookieStatus struct {
	Valid     bool    `json:"valid"`
	ExpiresAt *string `json:"expires_at"`
	Message   string  `json:"message"`
}

// ConfigDoc is the backend configuration document. It is schema-free on
// purpose: the System page renders whatever the backend reports.
type ConfigDoc map[string]any
