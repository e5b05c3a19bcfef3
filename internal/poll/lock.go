package poll

// ActionLock guards against duplicate in-flight mutating actions on the same
// entity. At most one action per id; unrelated ids are independent. Like the
// pollers, it is owned by the update loop and needs no mutex.
type ActionLock struct {
	held map[int64]struct{}
}

// NewActionLock creates an empty lock set.
func NewActionLock() *ActionLock {
	return &ActionLock{held: make(map[int64]struct{})}
}

// TryAcquire claims id. It returns false if an action on id is already in
// flight.
func (l *ActionLock) TryAcquire(id int64) bool {
	if _, ok := l.held[id]; ok {
		return false
	}
	l.held[id] = struct{}{}
	return true
}

// Release frees id. Releasing an unheld id is a no-op, so callers can
// release unconditionally on every exit path.
func (l *ActionLock) Release(id int64) {
	delete(l.held, id)
}

// Held reports whether an action on id is in flight.
func (l *ActionLock) Held(id int64) bool {
	_, ok := l.held[id]
	return ok
}

// Len returns the number of in-flight actions.
func (l *ActionLock) Len() int { return len(l.held) }
