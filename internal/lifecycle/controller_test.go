package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/miguel-rf/congress-alpha/internal/api"
)

// fakeGateway counts calls and returns canned results.
type fakeGateway struct {
	confirmCalls   int
	rejectCalls    int
	deleteCalls    int
	deleteAllCalls int
	processCalls   int

	deletedCount int
	err          error
}

func (g *fakeGateway) ConfirmSignal(_ context.Context, _ int64) (api.ActionResult, error) {
	g.confirmCalls++
	return api.ActionResult{Status: "success"}, g.err
}

func (g *fakeGateway) RejectSignal(_ context.Context, _ int64) (api.ActionResult, error) {
	g.rejectCalls++
	return api.ActionResult{Status: "success"}, g.err
}

func (g *fakeGateway) DeleteSignal(_ context.Context, _ int64) (api.ActionResult, error) {
	g.deleteCalls++
	return api.ActionResult{Status: "success"}, g.err
}

func (g *fakeGateway) DeleteAllSignals(_ context.Context, _ bool) (api.ActionResult, error) {
	g.deleteAllCalls++
	n := g.deletedCount
	return api.ActionResult{Status: "success", DeletedCount: &n}, g.err
}

func (g *fakeGateway) MarkSignalProcessed(_ context.Context, _ int64) (api.ActionResult, error) {
	g.processCalls++
	return api.ActionResult{Status: "success"}, g.err
}

func sig(id int64, status string) api.Signal {
	return api.Signal{ID: &id, Ticker: "NVDA", Status: status}
}

func TestConfirm_OnlyFromPendingConfirmation(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	c := New(gw, zerolog.Nop())

	for _, status := range []string{"pending", "confirmed", "rejected", "executed"} {
		cmd, err := c.Confirm(sig(1, status))
		if cmd != nil || err == nil {
			t.Errorf("confirm from %q should be refused", status)
		}
		var ise *IllegalStatusError
		if !errors.As(err, &ise) {
			t.Errorf("confirm from %q: error = %v, want IllegalStatusError", status, err)
		}
	}
	if gw.confirmCalls != 0 {
		t.Fatalf("refused confirms must not hit the network, got %d calls", gw.confirmCalls)
	}

	cmd, err := c.Confirm(sig(1, "pending_confirmation"))
	if err != nil {
		t.Fatalf("confirm from pending_confirmation: %v", err)
	}
	done := cmd().(DoneMsg)
	if done.Verb != VerbConfirm || done.ID != 1 || done.Err != nil {
		t.Errorf("done = %+v", done)
	}
	if gw.confirmCalls != 1 {
		t.Errorf("confirm calls = %d, want 1", gw.confirmCalls)
	}
}

func TestConcurrentActionsOnSameIDRefused(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	c := New(gw, zerolog.Nop())

	cmd, err := c.Confirm(sig(7, "pending_confirmation"))
	if err != nil {
		t.Fatal(err)
	}
	if !c.Locked(7) {
		t.Fatal("id 7 should be locked while the confirm is in flight")
	}

	// A delete racing the confirm on the same id never reaches the backend.
	if _, err := c.Delete(sig(7, "pending_confirmation")); !errors.Is(err, ErrActionInFlight) {
		t.Errorf("delete during confirm: error = %v, want ErrActionInFlight", err)
	}
	if gw.deleteCalls != 0 {
		t.Error("refused delete must not execute")
	}

	// A different id proceeds independently.
	if _, err := c.Delete(sig(8, "pending")); err != nil {
		t.Errorf("delete on unrelated id: %v", err)
	}

	// Settling releases the lock even though only one of confirm+delete ran.
	done := cmd().(DoneMsg)
	c.Settle(done)
	if c.Locked(7) {
		t.Error("lock should release on settle")
	}
	if _, err := c.Delete(sig(7, "pending_confirmation")); err != nil {
		t.Errorf("delete after settle: %v", err)
	}
}

func TestLockReleasedOnFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{err: errors.New("backend exploded")}
	c := New(gw, zerolog.Nop())

	cmd, err := c.Reject(sig(3, "pending_confirmation"))
	if err != nil {
		t.Fatal(err)
	}
	done := cmd().(DoneMsg)
	if done.Err == nil {
		t.Fatal("expected failure from gateway")
	}
	c.Settle(done)
	if c.Locked(3) {
		t.Error("lock must release on failure so retry is possible")
	}
}

func TestDeleteAll(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{deletedCount: 5}
	c := New(gw, zerolog.Nop())

	cmd, err := c.DeleteAll(true)
	if err != nil {
		t.Fatal(err)
	}
	if !c.BulkInFlight() {
		t.Error("bulk flag should be set while the delete runs")
	}
	if _, err := c.DeleteAll(false); !errors.Is(err, ErrBulkInFlight) {
		t.Errorf("second bulk delete: error = %v, want ErrBulkInFlight", err)
	}

	done := cmd().(DoneMsg)
	if done.Result.DeletedCount == nil || *done.Result.DeletedCount != 5 {
		t.Errorf("deleted count = %v, want 5", done.Result.DeletedCount)
	}
	c.Settle(done)
	if c.BulkInFlight() {
		t.Error("bulk flag should clear on settle")
	}
	if gw.deleteAllCalls != 1 {
		t.Errorf("deleteAll calls = %d, want 1", gw.deleteAllCalls)
	}
}

func TestUnsavedSignalRefused(t *testing.T) {
	t.Parallel()

	c := New(&fakeGateway{}, zerolog.Nop())
	if _, err := c.Delete(api.Signal{Ticker: "AAPL"}); !errors.Is(err, ErrUnsaved) {
		t.Errorf("error = %v, want ErrUnsaved", err)
	}
}

func TestMarkProcessedFromPending(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	c := New(gw, zerolog.Nop())

	if _, err := c.MarkProcessed(sig(2, "pending")); err != nil {
		t.Errorf("mark-processed from pending: %v", err)
	}
	if _, err := c.MarkProcessed(sig(4, "executed")); err == nil {
		t.Error("mark-processed from executed should be refused")
	}
}
