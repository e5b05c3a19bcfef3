package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListSignalsQuery are the parameters of the paginated signal list call.
// Processed is a tri-state: nil means no filter.
type ListSignalsQuery struct {
	Page      int
	PageSize  int
	Processed *bool
}

func (q ListSignalsQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Processed != nil {
		v.Set("processed", strconv.FormatBool(*q.Processed))
	}
	return v
}

// ListSignals fetches one page of trade signals.
func (c *Client) ListSignals(ctx context.Context, q ListSignalsQuery) (Paginated[Signal], error) {
	var out Paginated[Signal]
	err := c.do(ctx, http.MethodGet, "/api/signals", q.values(), nil, &out)
	return out, err
}

// PendingSignals fetches all unprocessed signals.
func (c *Client) PendingSignals(ctx context.Context) ([]Signal, error) {
	var out []Signal
	err := c.do(ctx, http.MethodGet, "/api/signals/pending", nil, nil, &out)
	return out, err
}

// ConfirmationSignals fetches signals awaiting operator confirmation.
func (c *Client) ConfirmationSignals(ctx context.Context) ([]Signal, error) {
	var out []Signal
	err := c.do(ctx, http.MethodGet, "/api/signals/confirmations", nil, nil, &out)
	return out, err
}

// GetSignal fetches a single signal by id.
func (c *Client) GetSignal(ctx context.Context, id int64) (Signal, error) {
	var out Signal
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/signals/%d", id), nil, nil, &out)
	return out, err
}

// ConfirmSignal asks the backend to execute the trade for a signal.
func (c *Client) ConfirmSignal(ctx context.Context, id int64) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/signals/%d/confirm", id), nil, nil, &out)
	return out, err
}

// RejectSignal declines a signal awaiting confirmation.
func (c *Client) RejectSignal(ctx context.Context, id int64) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/signals/%d/reject", id), nil, nil, &out)
	return out, err
}

// MarkSignalProcessed sets the legacy processed flag, bypassing the
// confirm/reject flow.
func (c *Client) MarkSignalProcessed(ctx context.Context, id int64) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/signals/%d/process", id), nil, nil, &out)
	return out, err
}

// DeleteSignal removes one signal from the backend store.
func (c *Client) DeleteSignal(ctx context.Context, id int64) (ActionResult, error) {
	var out ActionResult
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/signals/%d", id), nil, nil, &out)
	return out, err
}

// DeleteAllSignals removes signals in bulk. With processedOnly it removes
// only executed/processed rows; otherwise it wipes everything. The returned
// DeletedCount reports what the backend actually removed.
func (c *Client) DeleteAllSignals(ctx context.Context, processedOnly bool) (ActionResult, error) {
	v := url.Values{}
	v.Set("processed_only", strconv.FormatBool(processedOnly))
	var out ActionResult
	err := c.do(ctx, http.MethodDelete, "/api/signals", v, nil, &out)
	return out, err
}
