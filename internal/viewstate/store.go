// Package viewstate holds the filter and pagination state driving the
// signal list query. It derives the exact fetch parameters and the Prev/Next
// affordances; it never rewrites an out-of-range page itself, since the
// backend clamps on fetch.
package viewstate

import (
	"sync"

	"github.com/miguel-rf/congress-alpha/internal/api"
)

// Filter is the tri-state processed filter.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterProcessed
)

func (f Filter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterProcessed:
		return "processed"
	default:
		return "all"
	}
}

// Store holds the current list query state. The update loop mutates it while
// fetch goroutines read Query, so access is mutex-guarded.
type Store struct {
	mu       sync.Mutex
	page     int
	pageSize int
	filter   Filter
}

// New creates a Store at page 1 with no filter.
func New(pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Store{page: 1, pageSize: pageSize, filter: FilterAll}
}

// Page returns the requested page, always ≥ 1.
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Filter returns the active processed filter.
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetPage moves to the given page, preserving the filter. Pages below 1 are
// pinned to 1.
func (s *Store) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// SetFilter switches the processed filter. Navigating to a filter starts at
// its first page; the previous page is deliberately not preserved.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.page = 1
}

// CycleFilter advances all → pending → processed → all.
func (s *Store) CycleFilter() {
	s.SetFilter((s.Filter() + 1) % 3)
}

// Query derives the list call parameters for the current state.
func (s *Store) Query() api.ListSignalsQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := api.ListSignalsQuery{Page: s.page, PageSize: s.pageSize}
	switch s.filter {
	case FilterPending:
		v := false
		q.Processed = &v
	case FilterProcessed:
		v := true
		q.Processed = &v
	}
	return q
}

// HasPrev reports whether a Prev affordance should render.
func (s *Store) HasPrev() bool { return s.Page() > 1 }

// HasNext reports whether a Next affordance should render given the page
// count of the current snapshot.
func (s *Store) HasNext(pages int) bool { return s.Page() < pages }
