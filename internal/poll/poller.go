// Package poll is the generic poll-refresh engine behind every page: run a
// fetch once immediately, re-run it on a fixed interval, allow out-of-band
// refreshes, and reconcile overlapping completions so the newest issued
// fetch always wins.
//
// A Poller is owned by exactly one Bubble Tea model. Every method must be
// called from that model's Update loop; fetches themselves run as tea.Cmds
// off the loop and report back via CompletedMsg, so the loop remains the
// single writer of State.
package poll

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg fires on the poller's interval. Source routes it to its owner.
type TickMsg struct {
	Source string
	At     time.Time
}

// CompletedMsg carries one settled fetch back to the update loop.
type CompletedMsg[T any] struct {
	Source string
	Seq    uint64
	Data   T
	Err    error
	At     time.Time
}

// FetchFunc loads one snapshot. It must honor ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller schedules a FetchFunc and owns the resulting State.
type Poller[T any] struct {
	source   string
	interval time.Duration
	fetch    FetchFunc[T]

	ctx    context.Context
	cancel context.CancelFunc

	issued   uint64 // highest sequence number handed to a fetch
	applied  uint64 // highest sequence number whose completion was applied
	inFlight int
	running  bool

	state State[T]
}

// New creates a stopped poller. source must be unique per program; it routes
// tick and completion messages when several pollers share one update loop.
func New[T any](source string, interval time.Duration, fetch FetchFunc[T]) *Poller[T] {
	return &Poller[T]{source: source, interval: interval, fetch: fetch}
}

// Source returns the poller's routing key.
func (p *Poller[T]) Source() string { return p.source }

// State returns the current poll state.
func (p *Poller[T]) State() State[T] { return p.state }

// Running reports whether Start has been called without a matching Stop.
func (p *Poller[T]) Running() bool { return p.running }

// Start begins polling: one immediate fetch plus the interval ticker.
// Restarting a stopped poller keeps its last snapshot visible.
func (p *Poller[T]) Start() tea.Cmd {
	if p.running {
		return nil
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.running = true
	if p.settled() {
		p.state.Refreshing = true
	} else {
		p.state.Loading = true
	}
	return tea.Batch(p.fetchCmd(), p.tickCmd())
}

// Stop halts the ticker and cancels any in-flight fetch. A tick or
// completion already in the mailbox is dropped when it arrives.
func (p *Poller[T]) Stop() {
	if !p.running {
		return
	}
	p.running = false
	p.cancel()
	p.state.Loading = false
	p.state.Refreshing = false
}

// Refresh triggers an out-of-band fetch. The interval ticker keeps its
// phase. Returns nil when the poller is stopped.
func (p *Poller[T]) Refresh() tea.Cmd {
	if !p.running {
		return nil
	}
	if p.settled() {
		p.state.Refreshing = true
	}
	return p.fetchCmd()
}

// HandleTick processes an interval tick. Ticks for other sources and ticks
// arriving after Stop are ignored; a tick that finds a fetch still in flight
// skips this cycle rather than stacking another request behind it.
func (p *Poller[T]) HandleTick(msg TickMsg) tea.Cmd {
	if msg.Source != p.source || !p.running {
		return nil
	}
	next := p.tickCmd()
	if p.inFlight > 0 {
		return next
	}
	if p.settled() {
		p.state.Refreshing = true
	}
	return tea.Batch(p.fetchCmd(), next)
}

// Apply folds a settled fetch into the state. It reports whether the
// snapshot changed. Completions from superseded fetches only settle the
// in-flight bookkeeping: the sequence rule guarantees the displayed data
// always comes from the highest-numbered fetch that has completed.
func (p *Poller[T]) Apply(msg CompletedMsg[T]) bool {
	if msg.Source != p.source {
		return false
	}
	if p.inFlight > 0 {
		p.inFlight--
	}
	settled := p.inFlight == 0

	if !p.running || msg.Seq <= p.applied {
		if settled {
			p.state.Loading = false
			p.state.Refreshing = false
		}
		return false
	}
	p.applied = msg.Seq

	p.state.Loading = false
	p.state.Refreshing = !settled

	if msg.Err != nil {
		p.state.Err = msg.Err
		return false
	}
	data := msg.Data
	p.state.Data = &data
	p.state.Err = nil
	p.state.LastUpdated = msg.At
	return true
}

// settled reports whether the first fetch has completed, successfully or
// not. Loading covers the window before that; every later fetch is a
// refresh, even when the first one failed and no data exists yet.
func (p *Poller[T]) settled() bool { return p.applied > 0 }

func (p *Poller[T]) tickCmd() tea.Cmd {
	src := p.source
	return tea.Tick(p.interval, func(t time.Time) tea.Msg {
		return TickMsg{Source: src, At: t}
	})
}

func (p *Poller[T]) fetchCmd() tea.Cmd {
	p.issued++
	p.inFlight++
	seq := p.issued
	src := p.source
	ctx := p.ctx
	fetch := p.fetch
	return func() tea.Msg {
		data, err := fetch(ctx)
		return CompletedMsg[T]{Source: src, Seq: seq, Data: data, Err: err, At: time.Now()}
	}
}
