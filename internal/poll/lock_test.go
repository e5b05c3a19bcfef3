package poll

import "testing"

func TestActionLock(t *testing.T) {
	t.Parallel()

	l := NewActionLock()

	if !l.TryAcquire(1) {
		t.Fatal("fresh id should acquire")
	}
	if l.TryAcquire(1) {
		t.Error("second acquire on the same id must be refused")
	}
	if !l.Held(1) {
		t.Error("id 1 should be held")
	}

	// Unrelated ids are independent.
	if !l.TryAcquire(2) {
		t.Error("unrelated id should acquire while 1 is held")
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}

	l.Release(1)
	if l.Held(1) {
		t.Error("released id should not be held")
	}
	if !l.TryAcquire(1) {
		t.Error("released id should be acquirable again")
	}

	// Releasing an unheld id is a no-op.
	l.Release(99)
	if l.Len() != 2 {
		t.Errorf("Len = %d after no-op release, want 2", l.Len())
	}
}
