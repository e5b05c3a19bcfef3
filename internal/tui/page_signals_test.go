package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/poll"
)

// drainCmds executes a command tree synchronously and returns the produced
// messages, flattening batches and dropping timer ticks so tests don't spin.
func drainCmds(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(poll.TickMsg); ok {
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// pump feeds every message a command produces back into the page until the
// command chain settles.
func pump(t *testing.T, p *SignalsPage, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range drainCmds(t, cmd) {
		next, _ := p.Update(msg)
		pump(t, p, next)
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newSignalsServer(t *testing.T, signals []api.Signal, pages int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		resp := api.Paginated[api.Signal]{
			Items:    signals,
			Total:    len(signals) * pages,
			Page:     page,
			PageSize: 20,
			Pages:    pages,
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testSignal(id int64, status string) api.Signal {
	return api.Signal{
		ID:             &id,
		Ticker:         "NVDA",
		Politician:     "Jane Doe",
		TradeType:      "purchase",
		AmountMidpoint: 32500,
		TradeDate:      "2026-08-01",
		DisclosureDate: "2026-08-20",
		LagDays:        19,
		SignalType:     "BUY",
		Chamber:        "house",
		Status:         status,
	}
}

func newTestSignalsPage(t *testing.T, baseURL string) *SignalsPage {
	t.Helper()
	client := api.NewClient(baseURL, api.WithTimeout(2*time.Second))
	return NewSignalsPage(client, zerolog.Nop(), time.Hour, 20)
}

func TestSignalsPage_FallbackSnapshotOnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	snap := p.snapshot()
	if len(snap.Items) != 0 || snap.Total != 0 || snap.Page != 1 || snap.Pages != 1 {
		t.Fatalf("fallback snapshot = %+v, want empty page 1/1", snap)
	}
	if p.poller.State().Err == nil {
		t.Fatal("expected fetch error to be retained")
	}
}

func TestSignalsPage_FailedRefreshKeepsData(t *testing.T) {
	t.Parallel()

	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, `{"detail": "down"}`, http.StatusBadGateway)
			return
		}
		resp := api.Paginated[api.Signal]{
			Items: []api.Signal{testSignal(1, "pending")},
			Total: 1, Page: 1, PageSize: 20, Pages: 1,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	if len(p.snapshot().Items) != 1 {
		t.Fatalf("items = %d, want 1", len(p.snapshot().Items))
	}

	fail = true
	cmd, _ := p.Update(keyMsg("r"))
	pump(t, p, cmd)

	if len(p.snapshot().Items) != 1 {
		t.Fatal("failed refresh cleared the snapshot")
	}
	if p.poller.State().Err == nil {
		t.Fatal("failed refresh should surface an error alongside stale data")
	}
}

func TestSignalsPage_FilterChangeResetsPage(t *testing.T) {
	t.Parallel()

	srv := newSignalsServer(t, []api.Signal{testSignal(1, "pending")}, 3)
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	cmd, _ := p.Update(keyMsg("n"))
	pump(t, p, cmd)
	if got := p.store.Page(); got != 2 {
		t.Fatalf("page after next = %d, want 2", got)
	}

	cmd, _ = p.Update(keyMsg("f"))
	pump(t, p, cmd)
	if got := p.store.Page(); got != 1 {
		t.Fatalf("page after filter change = %d, want 1", got)
	}
}

func TestSignalsPage_PaginationBounds(t *testing.T) {
	t.Parallel()

	srv := newSignalsServer(t, []api.Signal{testSignal(1, "pending")}, 1)
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	cmd, _ := p.Update(keyMsg("n"))
	if cmd != nil {
		t.Fatal("next on last page should be a no-op")
	}
	cmd, _ = p.Update(keyMsg("b"))
	if cmd != nil {
		t.Fatal("prev on first page should be a no-op")
	}
	if got := p.store.Page(); got != 1 {
		t.Fatalf("page = %d, want 1", got)
	}
}

func TestSignalsPage_ActionRefusedWhileLocked(t *testing.T) {
	t.Parallel()

	confirms := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			confirms++
			json.NewEncoder(w).Encode(api.ActionResult{Status: "success", Message: "confirmed"})
			return
		}
		resp := api.Paginated[api.Signal]{
			Items: []api.Signal{testSignal(7, "pending_confirmation")},
			Total: 1, Page: 1, PageSize: 20, Pages: 1,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	first, _ := p.Update(keyMsg("c"))
	if first == nil {
		t.Fatal("confirm on pending_confirmation should dispatch")
	}
	if !p.ctrl.Locked(7) {
		t.Fatal("row should be locked while the action is in flight")
	}

	second, _ := p.Update(keyMsg("c"))
	if second != nil {
		t.Fatal("second confirm on the same row should be refused locally")
	}
	if !p.statusErr {
		t.Fatal("refusal should surface in the status line")
	}

	pump(t, p, first)
	if confirms != 1 {
		t.Fatalf("confirm calls = %d, want exactly 1", confirms)
	}
	if p.ctrl.Locked(7) {
		t.Fatal("lock should release after the action settles")
	}
}

func TestSignalsPage_IllegalStatusNoNetworkCall(t *testing.T) {
	t.Parallel()

	posts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
			json.NewEncoder(w).Encode(api.ActionResult{Status: "success"})
			return
		}
		resp := api.Paginated[api.Signal]{
			Items: []api.Signal{testSignal(3, "executed")},
			Total: 1, Page: 1, PageSize: 20, Pages: 1,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	cmd, _ := p.Update(keyMsg("c"))
	if cmd != nil {
		t.Fatal("confirm on an executed signal should be refused locally")
	}
	if posts != 0 {
		t.Fatalf("posts = %d, want 0", posts)
	}
}

func TestSignalsPage_BulkModalUnknownProcessedCount(t *testing.T) {
	t.Parallel()

	// The pending endpoint fails here, so the processed count is unknown
	// rather than guessed from the visible page.
	srv := newSignalsServer(t, []api.Signal{testSignal(1, "executed")}, 2)
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	p.Update(keyMsg("D"))
	modal, ok := p.modal.(*BulkDeleteModal)
	if !ok {
		t.Fatalf("modal = %T, want *BulkDeleteModal", p.modal)
	}
	if modal.processed != -1 {
		t.Errorf("modal processed = %d, want -1 (unknown)", modal.processed)
	}
	if !strings.Contains(modal.View(80, 24), "(?)") {
		t.Error("unknown processed count should render as ?")
	}
}

func TestSignalsPage_BulkDeleteRequiresModal(t *testing.T) {
	t.Parallel()

	deletes := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			deletes++
			n := 2
			json.NewEncoder(w).Encode(api.ActionResult{Status: "success", DeletedCount: &n})
		case r.URL.Path == "/api/signals/pending":
			// 5 unprocessed signals exist across the whole list.
			json.NewEncoder(w).Encode([]api.Signal{
				testSignal(1, "pending"), testSignal(2, "pending"), testSignal(3, "pending"),
				testSignal(4, "pending"), testSignal(5, "pending"),
			})
		case r.URL.Path == "/api/signals/confirmations":
			json.NewEncoder(w).Encode([]api.Signal{})
		default:
			// Page 1 of a 25-signal list spanning two pages.
			resp := api.Paginated[api.Signal]{
				Items: []api.Signal{testSignal(1, "executed"), testSignal(2, "pending")},
				Total: 25, Page: 1, PageSize: 20, Pages: 2,
			}
			json.NewEncoder(w).Encode(resp)
		}
	}))
	defer srv.Close()

	p := newTestSignalsPage(t, srv.URL)
	pump(t, p, p.Init())
	defer p.Blur()

	cmd, _ := p.Update(keyMsg("D"))
	if cmd != nil {
		t.Fatal("opening the modal must not dispatch anything")
	}
	if p.modal == nil {
		t.Fatal("bulk delete should open the confirm modal")
	}
	if !p.CapturingInput() {
		t.Fatal("modal should capture input")
	}
	modal, ok := p.modal.(*BulkDeleteModal)
	if !ok {
		t.Fatalf("modal = %T, want *BulkDeleteModal", p.modal)
	}
	// List-wide counts, not page-local: total minus backend pending count.
	if modal.total != 25 {
		t.Errorf("modal total = %d, want 25", modal.total)
	}
	if modal.processed != 20 {
		t.Errorf("modal processed = %d, want 20 (list-wide, not this page)", modal.processed)
	}
	if deletes != 0 {
		t.Fatalf("deletes before confirmation = %d, want 0", deletes)
	}

	// Escape cancels without touching the backend.
	cmd, _ = p.Update(tea.KeyMsg{Type: tea.KeyEscape})
	pump(t, p, cmd)
	if p.modal != nil {
		t.Fatal("escape should close the modal")
	}
	if deletes != 0 {
		t.Fatalf("deletes after cancel = %d, want 0", deletes)
	}

	// Reopen and confirm the full wipe.
	p.Update(keyMsg("D"))
	cmd, _ = p.Update(keyMsg("a"))
	pump(t, p, cmd)
	if deletes != 1 {
		t.Fatalf("deletes after confirm = %d, want 1", deletes)
	}
	if p.ctrl.BulkInFlight() {
		t.Fatal("bulk flag should clear after settle")
	}
}
