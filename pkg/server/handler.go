// pkg/server/handler.go
package server

// RequestHandler is the short-lived adapter wrapping one request and
// its response. It is created at dispatch entry, registered into the
// server interface for the duration of the call, and deregistered by
// the guard on exit.
type RequestHandler struct {
	req  Request
	resp Response

	// set by filters as an out-of-band stop signal
	exceptionRaised bool
}

func NewRequestHandler(req Request, resp Response) *RequestHandler {
	return &RequestHandler{req: req, resp: resp}
}

func (h *RequestHandler) Request() Request   { return h.req }
func (h *RequestHandler) Response() Response { return h.resp }

// ParseInput runs the request's parser collaborator, if any. Requests
// without raw input to parse need no parse step.
func (h *RequestHandler) ParseInput() error {
	if p, ok := h.req.(Parser); ok {
		return p.ParseInput()
	}
	return nil
}

// SetExceptionRaised flags the dispatch as aborted by a filter. The
// pipeline treats it like a stop signal at the next stage boundary.
func (h *RequestHandler) SetExceptionRaised() { h.exceptionRaised = true }

func (h *RequestHandler) ExceptionRaised() bool { return h.exceptionRaised }

// SetResponseHeader forwards a header onto the response.
func (h *RequestHandler) SetResponseHeader(name, value string) {
	h.resp.SetHeader(name, value)
}
