// Package signal holds the client-side lifecycle model for trade signals:
// the closed status set and the per-verb transition predicates that decide
// which actions are legal for a row. The backend owns all actual
// transitions; this package only gates what the client may request.
package signal

import "github.com/miguel-rf/congress-alpha/internal/api"

// Status is the lifecycle state of a signal.
type Status string

const (
	StatusPending             Status = "pending"
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
	StatusRejected            Status = "rejected"
	StatusExecuted            Status = "executed"
)

// known maps every wire spelling the backend has used to its Status.
var known = map[string]Status{
	"pending":              StatusPending,
	"pending_confirmation": StatusPendingConfirmation,
	"confirmed":            StatusConfirmed,
	"rejected":             StatusRejected,
	"executed":             StatusExecuted,
}

// Parse resolves a wire status string. ok is false for unknown or empty
// values, which callers fall back from via the legacy processed bool.
func Parse(s string) (Status, bool) {
	st, ok := known[s]
	return st, ok
}

// Of returns the canonical status of a wire signal. Newer backends send an
// explicit status field; older ones only carry the processed bool, where
// processed means the trade already fired.
func Of(s api.Signal) Status {
	if st, ok := Parse(s.Status); ok {
		return st
	}
	if s.Processed {
		return StatusExecuted
	}
	return StatusPending
}

// Inconsistent reports a wire signal whose legacy processed flag contradicts
// its status field, in either direction: processed set while the lifecycle
// says the signal is still in flight, or an executed status without the flag.
// Confirmed is compatible with both flag values since execution may still be
// settling. Callers log these rather than silently reconciling.
func Inconsistent(s api.Signal) bool {
	st, ok := Parse(s.Status)
	if !ok {
		return false
	}
	if s.Processed {
		return st != StatusExecuted && st != StatusConfirmed
	}
	return st == StatusExecuted
}

// Terminal reports whether no further client verb besides delete applies.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusExecuted
}

// CanConfirm reports whether a confirm request is legal from s.
func (s Status) CanConfirm() bool { return s == StatusPendingConfirmation }

// CanReject reports whether a reject request is legal from s.
func (s Status) CanReject() bool { return s == StatusPendingConfirmation }

// CanMarkProcessed reports whether the legacy mark-processed shortcut is
// legal from s.
func (s Status) CanMarkProcessed() bool {
	return s == StatusPending || s == StatusPendingConfirmation
}

// Label is the human-readable form shown in tables.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusPendingConfirmation:
		return "awaiting confirm"
	case StatusConfirmed:
		return "confirmed"
	case StatusRejected:
		return "rejected"
	case StatusExecuted:
		return "executed"
	default:
		return string(s)
	}
}
