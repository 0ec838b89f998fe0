package resource

import (
	"context"
	"sync"
	"time"

	"github.com/supernitin06/erp-tenants-sub000/core"
)

const (
	defaultRetention = 60 * time.Second
	defaultTimeout   = 15 * time.Second

	fallbackPending = "Working on it..."
	fallbackSuccess = "Done"
	fallbackFailure = "Something went wrong"
)

type (
	// Notifier receives the transient user-facing toasts: a pending toast per
	// mutation that resolves in place, and an error toast per failed query.
	Notifier interface {
		Pending(message string) string
		Resolve(id string, success bool, message string)
		Error(message string) string
	}

	Options struct {
		// Skip suppresses execution, e.g. while a required argument is not
		// yet known.
		Skip bool
	}

	ClientOptions struct {
		Transport Transport
		Notifier  Notifier
		Logger    core.Logger
		// Retention is how long an entry outlives its last subscriber.
		Retention      time.Duration
		RequestTimeout time.Duration
	}

	// Client is the shared process-wide resource cache. Only the client
	// itself mutates entries; screens are read-only consumers plus
	// mutation-initiators.
	Client struct {
		transport Transport
		notifier  Notifier
		logger    core.Logger
		retention time.Duration
		timeout   time.Duration

		mu      sync.Mutex
		entries map[string]*entry
	}

	entry struct {
		key      string
		tags     []Tag
		status   Status
		data     interface{}
		err      error
		stale    bool
		subs     int
		released time.Time
		gen      int
		done     chan struct{}
		refetch  func()
	}

	// Handle is one subscription to one cache key. Closing it releases the
	// subscription; the entry survives for the retention window.
	Handle[T any] struct {
		c    *Client
		e    *entry
		skip bool
		once sync.Once
	}
)

func NewClient(opts ClientOptions) *Client {
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultTimeout
	}
	return &Client{
		transport: opts.Transport,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		retention: opts.Retention,
		timeout:   opts.RequestTimeout,
		entries:   make(map[string]*entry),
	}
}

// Subscribe registers a read on (endpoint, args). The first subscriber
// triggers the fetch; concurrent subscribers share the in-flight call;
// identical re-subscription before invalidation is a cache hit.
func Subscribe[A, T any](c *Client, ep Endpoint[A, T], args A, opts ...Options) *Handle[T] {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Skip {
		return &Handle[T]{skip: true}
	}

	key, err := ep.key(args)
	if err != nil {
		return &Handle[T]{skip: true}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(time.Now())

	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key, status: StatusUninitialized}
		if ep.Provides != nil {
			e.tags = ep.Provides(args)
		}
		e.refetch = func() { c.startFetchLocked(e, func() (interface{}, error) { return fetch(c, ep, args) }) }
		c.entries[key] = e
	}
	e.subs++
	if e.status == StatusUninitialized || e.status == StatusError || e.stale {
		e.refetch()
	}
	return &Handle[T]{c: c, e: e}
}

// Mutate runs a write. Invalidation happens strictly after the mutation's
// own success response is observed; the pending toast resolves in place.
func Mutate[A, T any](ctx context.Context, c *Client, ep Endpoint[A, T], args A) (T, error) {
	var zero T

	pending := ep.Pending
	if pending == "" {
		pending = fallbackPending
	}
	toastID := c.notifier.Pending(pending)

	req, err := ep.request(args)
	if err != nil {
		c.notifier.Resolve(toastID, false, fallbackFailure)
		return zero, err
	}

	resp, rtErr := c.transport.RoundTrip(ctx, req)
	if rtErr != nil {
		rErr := core.NewResourceError(0, "", rtErr)
		c.notifier.Resolve(toastID, false, toastMessage(rErr, fallbackFailure))
		return zero, rErr
	}
	if resp.Status >= 300 {
		rErr := core.NewResourceError(resp.Status, messageFromBody(resp.Body), nil)
		c.notifier.Resolve(toastID, false, toastMessage(rErr, fallbackFailure))
		return zero, rErr
	}

	data, err := ep.decode(resp.Body)
	if err != nil {
		c.notifier.Resolve(toastID, false, fallbackFailure)
		return zero, err
	}

	msg := messageFromBody(resp.Body)
	if msg == "" {
		msg = fallbackSuccess
	}
	c.notifier.Resolve(toastID, true, msg)

	if ep.Invalidates != nil {
		c.Invalidate(ep.Invalidates(args))
	}
	return data, nil
}

// Invalidate staleness-marks every entry whose provided tags intersect the
// given set. Entries with live subscribers refetch immediately as new,
// independently-ordered tasks; idle entries refetch on next subscription.
func (c *Client) Invalidate(tags []Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if !Intersects(e.tags, tags) {
			continue
		}
		if e.subs > 0 {
			e.refetch()
		} else {
			e.stale = true
		}
	}
}

// Janitor drops entries past their retention window until ctx is done.
// Sweeps also happen lazily on every subscription.
func (c *Client) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.mu.Lock()
			c.sweepLocked(now)
			c.mu.Unlock()
		}
	}
}

// startFetchLocked begins a new fetch generation. A resolution belonging to
// a superseded generation is discarded, as is one arriving after the last
// subscriber left.
func (c *Client) startFetchLocked(e *entry, run func() (interface{}, error)) {
	// bumping the generation also orphans any in-flight fetch this one
	// replaces (an invalidation can race a running fetch)
	e.status = StatusLoading
	e.stale = false
	e.gen++
	gen := e.gen
	done := make(chan struct{})
	e.done = done

	go func() {
		defer close(done)
		data, err := run()

		c.mu.Lock()
		if e.gen != gen {
			c.mu.Unlock()
			return
		}
		if e.subs == 0 {
			// completes but its result is discarded; a later subscriber refetches
			e.status = StatusUninitialized
			e.data = nil
			e.err = nil
			c.mu.Unlock()
			return
		}
		if err != nil {
			e.status = StatusError
			e.err = err
			e.data = nil
		} else {
			e.status = StatusSuccess
			e.data = data
			e.err = nil
		}
		c.mu.Unlock()

		if err != nil {
			c.notifier.Error(toastMessage(err, fallbackFailure))
			if c.logger != nil {
				c.logger.Warn("resource: query failed", e.key, err)
			}
		}
	}()
}

func fetch[A, T any](c *Client, ep Endpoint[A, T], args A) (interface{}, error) {
	req, err := ep.request(args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	resp, rtErr := c.transport.RoundTrip(ctx, req)
	if rtErr != nil {
		return nil, core.NewResourceError(0, "", rtErr)
	}
	if resp.Status >= 300 {
		return nil, core.NewResourceError(resp.Status, messageFromBody(resp.Body), nil)
	}
	return ep.decode(resp.Body)
}

func (c *Client) sweepLocked(now time.Time) {
	for key, e := range c.entries {
		if e.subs == 0 && e.status != StatusLoading && !e.released.IsZero() && now.Sub(e.released) > c.retention {
			delete(c.entries, key)
		}
	}
}

// Snapshot returns the entry's current state without blocking.
func (h *Handle[T]) Snapshot() Result[T] {
	var res Result[T]
	if h.skip {
		return res
	}
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	res.Status = h.e.status
	res.Err = h.e.err
	if data, ok := h.e.data.(T); ok {
		res.Data = data
	}
	return res
}

// Wait blocks until the entry leaves the loading state or ctx is done.
func (h *Handle[T]) Wait(ctx context.Context) Result[T] {
	if h.skip {
		return Result[T]{}
	}
	for {
		h.c.mu.Lock()
		status := h.e.status
		done := h.e.done
		h.c.mu.Unlock()
		if status != StatusLoading {
			return h.Snapshot()
		}
		select {
		case <-done:
		case <-ctx.Done():
			return Result[T]{Status: StatusLoading, Err: ctx.Err()}
		}
	}
}

// Close releases the subscription. The entry is garbage-collected once the
// retention window elapses with no subscribers.
func (h *Handle[T]) Close() {
	if h.skip {
		return
	}
	h.once.Do(func() {
		h.c.mu.Lock()
		defer h.c.mu.Unlock()
		h.e.subs--
		if h.e.subs <= 0 {
			h.e.subs = 0
			h.e.released = time.Now()
		}
	})
}

func toastMessage(err error, fallback string) string {
	if rErr, ok := err.(*core.ResourceError); ok && rErr.Message != "" {
		return rErr.Message
	}
	return fallback
}

type nopNotifier struct{}

func (nopNotifier) Pending(string) string        { return "" }
func (nopNotifier) Resolve(string, bool, string) {}
func (nopNotifier) Error(string) string          { return "" }
