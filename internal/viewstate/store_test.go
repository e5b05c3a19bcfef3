package viewstate

import "testing"

func TestFilterChangeResetsPage(t *testing.T) {
	t.Parallel()

	s := New(20)
	s.SetFilter(FilterPending)
	s.SetPage(3)

	s.SetFilter(FilterProcessed)
	if s.Page() != 1 {
		t.Errorf("page = %d after filter change, want 1", s.Page())
	}

	q := s.Query()
	if q.Page != 1 {
		t.Errorf("query page = %d, want 1", q.Page)
	}
	if q.Processed == nil || *q.Processed != true {
		t.Error("processed filter should derive processed=true")
	}
}

func TestPageChangePreservesFilter(t *testing.T) {
	t.Parallel()

	s := New(20)
	s.SetFilter(FilterPending)
	s.SetPage(2)

	if s.Filter() != FilterPending {
		t.Errorf("filter = %v after page change, want pending", s.Filter())
	}
	q := s.Query()
	if q.Page != 2 || q.Processed == nil || *q.Processed != false {
		t.Errorf("query = %+v, want page 2 with processed=false", q)
	}
}

func TestQueryDefaults(t *testing.T) {
	t.Parallel()

	s := New(20)
	q := s.Query()
	if q.Page != 1 || q.PageSize != 20 {
		t.Errorf("query = %+v, want page 1 size 20", q)
	}
	if q.Processed != nil {
		t.Error("unset filter should not send a processed param")
	}
}

func TestCycleFilter(t *testing.T) {
	t.Parallel()

	s := New(20)
	want := []Filter{FilterPending, FilterProcessed, FilterAll, FilterPending}
	for i, w := range want {
		s.CycleFilter()
		if s.Filter() != w {
			t.Fatalf("cycle %d: filter = %v, want %v", i, s.Filter(), w)
		}
	}
}

func TestAffordances(t *testing.T) {
	t.Parallel()

	s := New(20)
	if s.HasPrev() {
		t.Error("no Prev on page 1")
	}
	if !s.HasNext(2) {
		t.Error("Next should show on page 1 of 2")
	}

	s.SetPage(2)
	if !s.HasPrev() {
		t.Error("Prev should show on page 2")
	}
	if s.HasNext(2) {
		t.Error("no Next on the last page")
	}

	// Out-of-range requests are not silently rewritten.
	s.SetPage(9)
	if s.Page() != 9 {
		t.Errorf("page = %d, want 9 (backend clamps, not the store)", s.Page())
	}
	s.SetPage(0)
	if s.Page() != 1 {
		t.Errorf("page = %d, want pinned to 1", s.Page())
	}
}
