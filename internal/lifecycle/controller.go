// Package lifecycle maps operator intents on trade signals onto backend
// calls. Every single-entity verb is gated twice before any network call:
// the status machine decides whether the verb is legal for the row, and the
// per-entity ActionLock refuses a second in-flight action on the same id.
// Completions always release the lock and are reconciled by asking the
// signal poller to refresh; the snapshot is never mutated optimistically.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/poll"
	"github.com/miguel-rf/congress-alpha/internal/signal"
)

// Verb is a client-initiated signal action.
type Verb string

const (
	VerbConfirm       Verb = "confirm"
	VerbReject        Verb = "reject"
	VerbDelete        Verb = "delete"
	VerbDeleteAll     Verb = "delete-all"
	VerbMarkProcessed Verb = "mark-processed"
)

// Gateway is the slice of the API client the controller needs.
type Gateway interface {
	ConfirmSignal(ctx context.Context, id int64) (api.ActionResult, error)
	RejectSignal(ctx context.Context, id int64) (api.ActionResult, error)
	DeleteSignal(ctx context.Context, id int64) (api.ActionResult, error)
	DeleteAllSignals(ctx context.Context, processedOnly bool) (api.ActionResult, error)
	MarkSignalProcessed(ctx context.Context, id int64) (api.ActionResult, error)
}

// DoneMsg reports one settled action back to the update loop. ID is zero for
// bulk deletes.
type DoneMsg struct {
	Verb   Verb
	ID     int64
	Result api.ActionResult
	Err    error
}

// Refusal reasons. These are client-side: no network call was made.
var (
	ErrActionInFlight = errors.New("an action on this signal is already in flight")
	ErrBulkInFlight   = errors.New("a bulk delete is already in flight")
	ErrUnsaved        = errors.New("signal has no backend id yet")
)

// IllegalStatusError is returned when a verb is not legal from the signal's
// current status.
type IllegalStatusError struct {
	Verb   Verb
	Status signal.Status
}

func (e *IllegalStatusError) Error() string {
	return fmt.Sprintf("cannot %s a signal in status %q", e.Verb, e.Status)
}

// Controller dispatches signal actions.
type Controller struct {
	gw      Gateway
	locks   *poll.ActionLock
	timeout time.Duration
	bulk    bool
	log     zerolog.Logger
}

// New creates a Controller over the given gateway.
func New(gw Gateway, log zerolog.Logger) *Controller {
	return &Controller{
		gw:      gw,
		locks:   poll.NewActionLock(),
		timeout: 30 * time.Second,
		log:     log,
	}
}

// Locked reports whether an action on id is in flight; the view disables
// that row's verbs.
func (c *Controller) Locked(id int64) bool { return c.locks.Held(id) }

// BulkInFlight reports whether a bulk delete is running.
func (c *Controller) BulkInFlight() bool { return c.bulk }

// Confirm requests backend execution of a signal awaiting confirmation.
func (c *Controller) Confirm(s api.Signal) (tea.Cmd, error) {
	return c.entityVerb(VerbConfirm, s, c.gw.ConfirmSignal)
}

// Reject declines a signal awaiting confirmation.
func (c *Controller) Reject(s api.Signal) (tea.Cmd, error) {
	return c.entityVerb(VerbReject, s, c.gw.RejectSignal)
}

// MarkProcessed sets the legacy processed flag, bypassing confirm/reject.
func (c *Controller) MarkProcessed(s api.Signal) (tea.Cmd, error) {
	return c.entityVerb(VerbMarkProcessed, s, c.gw.MarkSignalProcessed)
}

// Delete removes a signal; legal from any status.
func (c *Controller) Delete(s api.Signal) (tea.Cmd, error) {
	return c.entityVerb(VerbDelete, s, c.gw.DeleteSignal)
}

// DeleteAll removes signals in bulk. Callers must have taken the explicit
// user confirmation step before dispatching; this is irreversible.
func (c *Controller) DeleteAll(processedOnly bool) (tea.Cmd, error) {
	if c.bulk {
		return nil, ErrBulkInFlight
	}
	c.bulk = true
	timeout := c.timeout
	gw := c.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := gw.DeleteAllSignals(ctx, processedOnly)
		return DoneMsg{Verb: VerbDeleteAll, Result: res, Err: err}
	}, nil
}

// Settle releases the lock for a finished action, success or failure, so a
// retry is always possible. The caller follows up with a poller refresh.
func (c *Controller) Settle(msg DoneMsg) {
	if msg.Verb == VerbDeleteAll {
		c.bulk = false
	} else {
		c.locks.Release(msg.ID)
	}
	if msg.Err != nil {
		c.log.Warn().Str("verb", string(msg.Verb)).Int64("id", msg.ID).Err(msg.Err).Msg("signal action failed")
		return
	}
	c.log.Info().Str("verb", string(msg.Verb)).Int64("id", msg.ID).Str("message", msg.Result.Message).Msg("signal action done")
}

// legal is the exhaustive client-side transition check.
func legal(verb Verb, st signal.Status) bool {
	switch verb {
	case VerbConfirm:
		return st.CanConfirm()
	case VerbReject:
		return st.CanReject()
	case VerbMarkProcessed:
		return st.CanMarkProcessed()
	case VerbDelete:
		return true
	default:
		return false
	}
}

func (c *Controller) entityVerb(verb Verb, s api.Signal, call func(context.Context, int64) (api.ActionResult, error)) (tea.Cmd, error) {
	if s.ID == nil {
		return nil, ErrUnsaved
	}
	st := signal.Of(s)
	if !legal(verb, st) {
		return nil, &IllegalStatusError{Verb: verb, Status: st}
	}
	id := *s.ID
	if !c.locks.TryAcquire(id) {
		return nil, ErrActionInFlight
	}
	timeout := c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := call(ctx, id)
		return DoneMsg{Verb: verb, ID: id, Result: res, Err: err}
	}, nil
}
