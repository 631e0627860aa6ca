package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sports-tracker/internal/metrics"
)

func newTestClient(cfg Config) *Client {
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Millisecond
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewRecorder()
	}
	return New(cfg)
}

func TestFetchJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected Accept header, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("expected User-Agent header")
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(Config{})
	defer c.Close()

	data, err := c.FetchJSON(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("unexpected body: %s", data)
	}
}

func TestFetchJSONDeduplicatesConcurrentCalls(t *testing.T) {
	var requests atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		<-release
		w.Write([]byte(`{"n":1}`))
	}))
	defer srv.Close()

	rec := metrics.NewRecorder()
	c := newTestClient(Config{Metrics: rec})
	defer c.Close()

	var wg sync.WaitGroup
	results := make([]string, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := c.FetchJSON(context.Background(), srv.URL)
			results[i], errs[i] = string(data), err
		}(i)
	}

	// Let both callers register before the handler responds.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		if results[i] != `{"n":1}` {
			t.Fatalf("caller %d: unexpected body: %s", i, results[i])
		}
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected a single upstream request, got %d", got)
	}
	if rec.DedupHits() != 1 {
		t.Fatalf("expected 1 dedup hit, got %d", rec.DedupHits())
	}
}

func TestFetchJSONSecondGenerationDispatchesFresh(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(Config{})
	defer c.Close()

	for i := 0; i < 2; i++ {
		if _, err := c.FetchJSON(context.Background(), srv.URL); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if got := requests.Load(); got != 2 {
		t.Fatalf("expected 2 upstream requests, got %d", got)
	}
}

func TestFetchJSONRetriesRateLimit(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	rec := metrics.NewRecorder()
	c := newTestClient(Config{Metrics: rec})
	defer c.Close()

	data, err := c.FetchJSON(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("unexpected body: %s", data)
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if rec.RateLimitHits() != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", rec.RateLimitHits())
	}
}

func TestFetchJSONRetriesExhausted(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(Config{MaxRetries: 2})
	defer c.Close()

	_, err := c.FetchJSON(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}

	var fe *Error
	if !errors.As(err, &fe) || fe.Reason != ReasonRetriesExhausted {
		t.Fatalf("expected retries-exhausted error, got %v", err)
	}
	var inner *Error
	if !errors.As(fe.Err, &inner) || inner.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected wrapped status error, got %v", fe.Err)
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected initial attempt plus 2 retries, got %d", got)
	}
}

func TestFetchJSONAttemptTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(Config{Timeout: 30 * time.Millisecond, MaxRetries: 1})
	defer c.Close()

	_, err := c.FetchJSON(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Reason != ReasonRetriesExhausted {
		t.Fatalf("expected retries-exhausted error, got %v", err)
	}
	var inner *Error
	if !errors.As(fe.Err, &inner) || inner.Reason != ReasonTimeout {
		t.Fatalf("expected wrapped timeout, got %v", fe.Err)
	}
}

func TestConcurrencyGate(t *testing.T) {
	var active, peak atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		<-release
		active.Add(-1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(Config{MaxConcurrent: 2})
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := srv.URL + "/" + string(rune('a'+i))
			if _, err := c.FetchJSON(context.Background(), url); err != nil {
				t.Errorf("fetch %d: %v", i, err)
			}
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := peak.Load(); got > 2 {
		t.Fatalf("expected at most 2 concurrent requests, saw %d", got)
	}
}

func TestCloseRejectsNewCalls(t *testing.T) {
	c := newTestClient(Config{})
	c.Close()

	if _, err := c.FetchJSON(context.Background(), "http://example.invalid"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestCloseReleasesQueuedWaiters(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(Config{MaxConcurrent: 1})

	started := make(chan struct{})
	go func() {
		close(started)
		c.FetchJSON(context.Background(), srv.URL+"/first")
	}()
	<-started
	time.Sleep(50 * time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.FetchJSON(context.Background(), srv.URL+"/second")
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)

	c.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed for queued waiter, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("queued waiter was not released on Close")
	}
}

func TestQueuedWaiterHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(Config{MaxConcurrent: 1})
	defer c.Close()

	go c.FetchJSON(context.Background(), srv.URL+"/first")
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.FetchJSON(ctx, srv.URL+"/second")
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled waiter did not return")
	}
}
