package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"sports-tracker/internal/logging"
	"sports-tracker/internal/metrics"
)

const (
	defaultMaxConcurrent  = 3
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second
	defaultUserAgent      = "sports-tracker/1.0"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls the fetch client.
type Config struct {
	MaxConcurrent int
	Timeout       time.Duration // per attempt
	MaxRetries    int
	// RetryBaseDelay is the base for both retry schedules (exponential for
	// 429, linear otherwise). Tests shrink it to avoid real sleeps.
	RetryBaseDelay time.Duration
	UserAgent      string
	HTTPClient     *http.Client
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
}

// call is one in-flight request shared by deduplicated callers. data and err
// are written exactly once, before done is closed.
type call struct {
	done chan struct{}
	data json.RawMessage
	err  error
}

// Client is a bounded-concurrency JSON fetcher with per-URL request
// deduplication and retry/backoff. At most MaxConcurrent requests are in
// flight process-wide; additional callers queue FIFO.
type Client struct {
	httpClient    httpDoer
	maxConcurrent int
	timeout       time.Duration
	maxRetries    int
	retryBase     time.Duration
	userAgent     string
	logger        *slog.Logger
	metrics       *metrics.Recorder

	mu       sync.Mutex
	active   int
	queue    []chan struct{}
	inflight map[string]*call
	closed   bool
}

// New constructs a Client with sane defaults.
func New(cfg Config) *Client {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = defaultRetryBaseDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{}
	}
	return &Client{
		httpClient:    doer,
		maxConcurrent: cfg.MaxConcurrent,
		timeout:       cfg.Timeout,
		maxRetries:    cfg.MaxRetries,
		retryBase:     cfg.RetryBaseDelay,
		userAgent:     cfg.UserAgent,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		inflight:      make(map[string]*call),
	}
}

// FetchJSON performs a GET against url and returns the raw JSON body.
// A call issued while an identical URL is already in flight joins the
// pending result instead of dispatching a second request. Retries belong to
// the original call only; once the shared result resolves, the dedup entry
// is gone and later calls start fresh.
func (c *Client) FetchJSON(ctx context.Context, url string) (json.RawMessage, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if existing, ok := c.inflight[url]; ok {
		c.mu.Unlock()
		c.metrics.RecordDedupHit()
		select {
		case <-existing.done:
			return existing.data, existing.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[url] = cl
	c.mu.Unlock()

	cl.data, cl.err = c.fetchWithRetry(ctx, url)

	c.mu.Lock()
	delete(c.inflight, url)
	c.mu.Unlock()
	close(cl.done)

	return cl.data, cl.err
}

func (c *Client) fetchWithRetry(ctx context.Context, url string) (json.RawMessage, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	rateLimited := rateLimitBackOff(c.retryBase)
	generic := newLinearBackOff(c.retryBase)

	var lastErr error
	for attempt := 0; ; attempt++ {
		data, err := c.attempt(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, ErrClosed) {
			return nil, err
		}
		if attempt >= c.maxRetries {
			break
		}

		var delay time.Duration
		if IsRateLimited(err) {
			c.metrics.RecordRateLimit()
			delay = rateLimited.NextBackOff()
			if delay == backoff.Stop {
				break
			}
		} else {
			delay = generic.NextBackOff()
		}

		logging.Warn(c.logger, "fetch retry",
			logging.FieldURL, url,
			logging.FieldAttempt, attempt+1,
			logging.FieldDelayMS, delay.Milliseconds(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, &Error{URL: url, Reason: ReasonRetriesExhausted, Err: lastErr}
}

// attempt performs a single bounded GET.
func (c *Client) attempt(ctx context.Context, url string) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	data, err := c.doRequest(attemptCtx, url)
	c.metrics.RecordFetchAttempt(time.Since(start), err)

	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, &Error{URL: url, Reason: ReasonTimeout, Err: err}
	}
	return data, err
}

func (c *Client) doRequest(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, &Error{URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &Error{URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode, Err: errors.New("empty response body")}
	}
	return json.RawMessage(body), nil
}

// acquire claims an in-flight slot, queueing FIFO when the gate is full.
func (c *Client) acquire(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.active < c.maxConcurrent {
		c.active++
		c.mu.Unlock()
		return nil
	}
	wait := make(chan struct{})
	c.queue = append(c.queue, wait)
	c.mu.Unlock()

	select {
	case <-wait:
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrClosed
		}
		c.mu.Unlock()
		return nil
	case <-ctx.Done():
		c.abandonWaiter(wait)
		return ctx.Err()
	}
}

// release hands the slot to the oldest queued waiter, or frees it.
func (c *Client) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		select {
		case <-next:
			// Waiter already gave up (context cancelled); try the next one.
			continue
		default:
		}
		close(next)
		return
	}
	c.active--
}

// abandonWaiter removes a cancelled waiter from the queue. If the slot was
// already granted, it is passed on so it is not leaked.
func (c *Client) abandonWaiter(wait chan struct{}) {
	c.mu.Lock()
	for i, w := range c.queue {
		if w == wait {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			close(wait)
			c.mu.Unlock()
			return
		}
	}
	c.mu.Unlock()
	// Not queued anymore: the slot was granted concurrently with
	// cancellation. Give it back.
	c.release()
}

// Close tears the client down: queued waiters are released immediately with
// ErrClosed, the dedup map is cleared, and no further requests are accepted.
// Requests already on the wire are not aborted; their callers observe the
// eventual result.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	queued := c.queue
	c.queue = nil
	c.inflight = make(map[string]*call)
	c.mu.Unlock()

	for _, wait := range queued {
		close(wait)
	}
}
