package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListSignals_QueryParams(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":1,"ticker":"NVDA","politician":"A","processed":false}],"total":25,"page":2,"page_size":20,"pages":2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	processed := true
	page, err := c.ListSignals(context.Background(), ListSignalsQuery{Page: 2, PageSize: 20, Processed: &processed})
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "page=2&page_size=20&processed=true" {
		t.Errorf("query = %q", gotQuery)
	}
	if page.Total != 25 || page.Page != 2 || page.Pages != 2 {
		t.Errorf("page = %+v", page)
	}
	if len(page.Items) != 1 || page.Items[0].Ticker != "NVDA" {
		t.Errorf("items = %+v", page.Items)
	}
}

func TestErrorDetailParsed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Signal not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetSignal(context.Background(), 42)

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error = %T, want *HTTPError", err)
	}
	if herr.Status != http.StatusNotFound || herr.Message != "Signal not found" {
		t.Errorf("herr = %+v", herr)
	}
}

func TestErrorBodyUnparseableFallsBack(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.TradeStats(context.Background())

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error = %T, want *HTTPError", err)
	}
	if herr.Message != "Unknown error" {
		t.Errorf("message = %q, want the fixed fallback", herr.Message)
	}
}

func TestNetworkErrorKind(t *testing.T) {
	t.Parallel()

	// A server that is immediately closed leaves nothing listening.
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, WithTimeout(2*time.Second))
	_, err := c.PendingSignals(context.Background())

	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("error = %T (%v), want *NetworkError", err, err)
	}
}

func TestDecodeErrorKind(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Politicians(context.Background())

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("error = %T, want *DecodeError", err)
	}
}

func TestDeleteAllSendsProcessedOnly(t *testing.T) {
	t.Parallel()

	var gotMethod, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"status":"success","message":"deleted","deleted_count":5}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.DeleteAllSignals(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotQuery != "processed_only=true" {
		t.Errorf("request = %s ?%s", gotMethod, gotQuery)
	}
	if res.DeletedCount == nil || *res.DeletedCount != 5 {
		t.Errorf("deleted_count = %v, want 5", res.DeletedCount)
	}
}

func TestStopActionsRoute(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"success","message":"jobs stopped"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.StopActions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/actions/stop" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if res.Message != "jobs stopped" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestExpectedPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 20, 2},
		{100, 20, 5},
		{5, 0, 1},
	}
	for _, tc := range cases {
		if got := ExpectedPages(tc.total, tc.pageSize); got != tc.want {
			t.Errorf("ExpectedPages(%d, %d) = %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}
