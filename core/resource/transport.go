package resource

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

type (
	// Request is one backend call. Path is relative to the transport's base
	// URL and may carry a query string. Token, when set, overrides the
	// transport's token source for this call.
	Request struct {
		Method string
		Path   string
		Body   []byte
		Token  string
	}

	Response struct {
		Status int
		Body   []byte
	}

	// Transport executes requests against the backend. The HTTP
	// implementation is used in production; tests substitute counters.
	Transport interface {
		RoundTrip(ctx context.Context, req *Request) (*Response, error)
	}
)

// HTTPTransport is the JSON-over-HTTP Transport. It forwards the bearer
// credential from its token source on every request.
type HTTPTransport struct {
	base        string
	client      *http.Client
	tokenSource func() string
}

var _ Transport = (*HTTPTransport)(nil)

func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		base:   baseURL,
		client: &http.Client{},
	}
}

// SetTokenSource wires the session store in after construction; the store
// itself needs the transport to authenticate, so the hookup is two-phase.
func (t *HTTPTransport) SetTokenSource(fn func() string) {
	t.tokenSource = fn
}

func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.base+req.Path, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	token := req.Token
	if token == "" && t.tokenSource != nil {
		token = t.tokenSource()
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "round trip")
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}
