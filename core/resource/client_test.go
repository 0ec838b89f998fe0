package resource

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supernitin06/erp-tenants-sub000/core"
)

type fakeTransport struct {
	mu        sync.Mutex
	counts    map[string]int
	responses map[string]*Response
	errs      map[string]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		counts:    make(map[string]int),
		responses: make(map[string]*Response),
		errs:      make(map[string]error),
	}
}

func (f *fakeTransport) respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = &Response{Status: status, Body: []byte(body)}
}

func (f *fakeTransport) fail(method, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method+" "+path] = err
}

func (f *fakeTransport) RoundTrip(_ context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := req.Method + " " + req.Path
	f.counts[key]++
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if resp, ok := f.responses[key]; ok {
		return resp, nil
	}
	return &Response{Status: 404, Body: []byte(`{"message":"no such route"}`)}, nil
}

func (f *fakeTransport) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[method+" "+path]
}

type toast struct {
	id      string
	status  string
	message string
}

type fakeNotifier struct {
	mu     sync.Mutex
	next   int
	toasts []toast
}

func (f *fakeNotifier) Pending(message string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := strconv.Itoa(f.next)
	f.toasts = append(f.toasts, toast{id: id, status: "pending", message: message})
	return id
}

func (f *fakeNotifier) Resolve(id string, success bool, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := "error"
	if success {
		status = "success"
	}
	for i := range f.toasts {
		if f.toasts[i].id == id {
			f.toasts[i].status = status
			f.toasts[i].message = message
			return
		}
	}
}

func (f *fakeNotifier) Error(message string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := strconv.Itoa(f.next)
	f.toasts = append(f.toasts, toast{id: id, status: "error", message: message})
	return id
}

func (f *fakeNotifier) all() []toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]toast, len(f.toasts))
	copy(out, f.toasts)
	return out
}

type bookArgs struct {
	LibraryID int `json:"libraryId"`
}

type book struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func bookScope(libraryID int) []Tag {
	return []Tag{{Type: TagBook, Scope: strconv.Itoa(libraryID)}}
}

var listBooks = Endpoint[bookArgs, List[book]]{
	Name:   "listBooks",
	Method: "GET",
	Path: func(a bookArgs) string {
		return fmt.Sprintf("/api/v1/books?libraryId=%d", a.LibraryID)
	},
	Provides: func(a bookArgs) []Tag { return bookScope(a.LibraryID) },
	Transform: func(raw []byte) (List[book], error) {
		return UnwrapList[book](raw, "books")
	},
}

type removeBookArgs struct {
	LibraryID int    `json:"libraryId"`
	BookID    string `json:"bookId"`
}

var removeBook = Endpoint[removeBookArgs, Ack]{
	Name:   "removeBook",
	Method: "DELETE",
	Path: func(a removeBookArgs) string {
		return "/api/v1/books/" + a.BookID
	},
	Invalidates: func(a removeBookArgs) []Tag { return bookScope(a.LibraryID) },
	Pending:     "Removing book...",
	Transform: func(raw []byte) (Ack, error) {
		return Ack{Message: messageFromBody(raw)}, nil
	},
}

func testClient(transport Transport, notifier Notifier) *Client {
	return NewClient(ClientOptions{
		Transport:      transport,
		Notifier:       notifier,
		Retention:      time.Minute,
		RequestTimeout: time.Second,
	})
}

func TestSubscribeSharesOneFetch(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 200,
		`{"books":[{"id":"b1","title":"Go"}]}`)
	c := testClient(transport, nil)

	h1 := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h1.Close()
	res := h1.Wait(context.Background())
	require.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Data.Items, 1)

	// identical args resolve from cache, no second round trip
	h2 := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h2.Close()
	res = h2.Wait(context.Background())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "Go", res.Data.Items[0].Title)

	assert.Equal(t, 1, transport.count("GET", "/api/v1/books?libraryId=7"))
}

func TestDistinctArgsAreDistinctEntries(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 200, `{"books":[]}`)
	transport.respond("GET", "/api/v1/books?libraryId=9", 200, `{"books":[]}`)
	c := testClient(transport, nil)

	h7 := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h7.Close()
	h9 := Subscribe(c, listBooks, bookArgs{LibraryID: 9})
	defer h9.Close()
	h7.Wait(context.Background())
	h9.Wait(context.Background())

	assert.Equal(t, 1, transport.count("GET", "/api/v1/books?libraryId=7"))
	assert.Equal(t, 1, transport.count("GET", "/api/v1/books?libraryId=9"))
}

func TestMutateInvalidatesMatchingScopeOnly(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 200, `{"books":[{"id":"b1","title":"Go"}]}`)
	transport.respond("GET", "/api/v1/books?libraryId=9", 200, `{"books":[]}`)
	transport.respond("DELETE", "/api/v1/books/b1", 200, `{"message":"Book removed"}`)
	notifier := &fakeNotifier{}
	c := testClient(transport, notifier)

	h7 := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h7.Close()
	h9 := Subscribe(c, listBooks, bookArgs{LibraryID: 9})
	defer h9.Close()
	h7.Wait(context.Background())
	h9.Wait(context.Background())

	ack, err := Mutate(context.Background(), c, removeBook, removeBookArgs{LibraryID: 7, BookID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, "Book removed", ack.Message)

	// library 7 refetches because a live subscriber holds it
	h7.Wait(context.Background())
	assert.Equal(t, 2, transport.count("GET", "/api/v1/books?libraryId=7"))
	assert.Equal(t, 1, transport.count("GET", "/api/v1/books?libraryId=9"))

	toasts := notifier.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, "success", toasts[0].status)
	assert.Equal(t, "Book removed", toasts[0].message)
}

func TestIdleStaleEntryRefetchesOnResubscribe(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 200, `{"books":[]}`)
	c := testClient(transport, nil)

	h := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	h.Wait(context.Background())
	h.Close()

	// no subscriber left; invalidation marks stale without a round trip
	c.Invalidate(bookScope(7))
	assert.Equal(t, 1, transport.count("GET", "/api/v1/books?libraryId=7"))

	h = Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h.Close()
	h.Wait(context.Background())
	assert.Equal(t, 2, transport.count("GET", "/api/v1/books?libraryId=7"))
}

func TestMutateFailureResolvesToastWithServerMessage(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("DELETE", "/api/v1/books/b1", 409, `{"message":"Book is checked out"}`)
	notifier := &fakeNotifier{}
	c := testClient(transport, notifier)

	_, err := Mutate(context.Background(), c, removeBook, removeBookArgs{LibraryID: 7, BookID: "b1"})
	require.Error(t, err)
	rErr, ok := err.(*core.ResourceError)
	require.True(t, ok, "want *core.ResourceError, got %T", err)
	assert.Equal(t, 409, rErr.Status)

	toasts := notifier.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, "error", toasts[0].status)
	assert.Equal(t, "Book is checked out", toasts[0].message)
}

func TestMutateFailureDoesNotInvalidate(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 200, `{"books":[]}`)
	transport.respond("DELETE", "/api/v1/books/b1", 500, `{"message":"boom"}`)
	c := testClient(transport, nil)

	h := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h.Close()
	h.Wait(context.Background())

	_, err := Mutate(context.Background(), c, removeBook, removeBookArgs{LibraryID: 7, BookID: "b1"})
	require.Error(t, err)

	h.Wait(context.Background())
	assert.Equal(t, 1, transport.count("GET", "/api/v1/books?libraryId=7"),
		"a failed mutation must not trigger refetches")
}

func TestQueryErrorRaisesToast(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 503, `{"message":"upstream down"}`)
	notifier := &fakeNotifier{}
	c := testClient(transport, notifier)

	h := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h.Close()
	res := h.Wait(context.Background())
	require.Equal(t, StatusError, res.Status)
	rErr, ok := res.Err.(*core.ResourceError)
	require.True(t, ok)
	assert.Equal(t, 503, rErr.Status)

	toasts := notifier.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, "error", toasts[0].status)
	assert.Equal(t, "upstream down", toasts[0].message)
}

func TestErroredEntryRetriesOnResubscribe(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 503, `{}`)
	c := testClient(transport, nil)

	h := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	res := h.Wait(context.Background())
	require.Equal(t, StatusError, res.Status)
	h.Close()

	transport.respond("GET", "/api/v1/books?libraryId=7", 200, `{"books":[]}`)
	h = Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h.Close()
	res = h.Wait(context.Background())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 2, transport.count("GET", "/api/v1/books?libraryId=7"))
}

func TestSkipHandleIsInert(t *testing.T) {
	transport := newFakeTransport()
	c := testClient(transport, nil)

	h := Subscribe(c, listBooks, bookArgs{LibraryID: 7}, Options{Skip: true})
	defer h.Close()

	res := h.Snapshot()
	assert.Equal(t, StatusUninitialized, res.Status)
	res = h.Wait(context.Background())
	assert.Equal(t, StatusUninitialized, res.Status)
	assert.Equal(t, 0, transport.count("GET", "/api/v1/books?libraryId=7"))
}

func TestRetentionSweepDropsIdleEntries(t *testing.T) {
	transport := newFakeTransport()
	transport.respond("GET", "/api/v1/books?libraryId=7", 200, `{"books":[]}`)
	c := NewClient(ClientOptions{
		Transport:      transport,
		Retention:      10 * time.Millisecond,
		RequestTimeout: time.Second,
	})

	h := Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	h.Wait(context.Background())
	h.Close()

	time.Sleep(30 * time.Millisecond)

	// the lazy sweep on subscription drops the expired entry, so this is a
	// fresh fetch rather than a cache hit
	h = Subscribe(c, listBooks, bookArgs{LibraryID: 7})
	defer h.Close()
	h.Wait(context.Background())
	assert.Equal(t, 2, transport.count("GET", "/api/v1/books?libraryId=7"))
}
