package poll

import "time"

// State is the observable condition of one poller. Data survives failed
// fetches: a fetch error sets Err but never clears the last good snapshot.
type State[T any] struct {
	// Data is the last successful fetch result, nil before the first one.
	Data *T
	// Err is the error of the most recent settled fetch, nil after success.
	Err error
	// Loading is true only until the first fetch settles, success or not.
	Loading bool
	// Refreshing is true while any non-initial fetch is in flight.
	Refreshing bool
	// LastUpdated is the completion time of the last successful fetch.
	LastUpdated time.Time
}

// HasData reports whether a snapshot has ever been received.
func (s State[T]) HasData() bool { return s.Data != nil }
