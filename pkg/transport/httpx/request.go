// pkg/transport/httpx/request.go
package httpx

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/3liz/qjazz/pkg/server"
)

const maxBodySize = 10 << 20 // 10 MB

// owsRequest adapts an HTTP request to the dispatch Request contract.
// OGC query parameters are matched case-insensitively.
type owsRequest struct {
	inner *http.Request
	query url.Values // keys upper-cased
	body  []byte
}

func newOwsRequest(r *http.Request) *owsRequest {
	q := url.Values{}
	for k, vs := range r.URL.Query() {
		q[strings.ToUpper(k)] = vs
	}
	return &owsRequest{inner: r, query: q}
}

func (r *owsRequest) Params() server.Params {
	return server.Params{
		Service:  r.query.Get("SERVICE"),
		Version:  r.query.Get("VERSION"),
		Request:  r.query.Get("REQUEST"),
		Filename: r.query.Get("FILE_NAME"),
	}
}

// ParseInput captures the request body. Oversized or unreadable input
// is a parse failure answered with a 400-class error by the pipeline.
func (r *owsRequest) ParseInput() error {
	if r.inner.Body == nil || r.inner.Method == http.MethodGet {
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(r.inner.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(b) > maxBodySize {
		return fmt.Errorf("request body exceeds %d bytes", maxBodySize)
	}
	r.body = b
	return nil
}

// Body returns the captured raw input, valid after ParseInput.
func (r *owsRequest) Body() []byte { return r.body }

// Header exposes the underlying HTTP headers to handlers.
func (r *owsRequest) Header(name string) string { return r.inner.Header.Get(name) }
