// pkg/transport/httpx/response.go
package httpx

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"

	"github.com/3liz/qjazz/pkg/server"
)

// ctxFeedback reports cancellation when either the HTTP request
// context is done or a filter/handler canceled it explicitly.
type ctxFeedback struct {
	ctx      context.Context
	canceled bool
}

func (f *ctxFeedback) IsCanceled() bool {
	if f.canceled {
		return true
	}
	select {
	case <-f.ctx.Done():
		return true
	default:
		return false
	}
}

func (f *ctxFeedback) Cancel() { f.canceled = true }

// owsResponse buffers the dispatch output and flushes it to the
// ResponseWriter on the first Finish or SendError; later calls are
// no-ops, so the pipeline's one-finalization guarantee holds on the
// wire too.
type owsResponse struct {
	w        http.ResponseWriter
	status   int
	body     bytes.Buffer
	feedback *ctxFeedback
	finished bool
}

func newOwsResponse(w http.ResponseWriter, ctx context.Context) *owsResponse {
	return &owsResponse{w: w, status: http.StatusOK, feedback: &ctxFeedback{ctx: ctx}}
}

func (r *owsResponse) SetHeader(name, value string) {
	r.w.Header().Set(name, value)
}

func (r *owsResponse) SetStatus(code int) { r.status = code }

func (r *owsResponse) WriteBody(b []byte) (int, error) { return r.body.Write(b) }

func (r *owsResponse) SendError(status int, message string) {
	if r.finished {
		return
	}
	r.status = status
	r.body.Reset()
	r.body.WriteString(message)
	r.flush()
}

type serviceException struct {
	XMLName xml.Name `xml:"ServiceException"`
	Code    string   `xml:"code,attr"`
	Message string   `xml:",chardata"`
}

type serviceExceptionReport struct {
	XMLName   xml.Name         `xml:"ServiceExceptionReport"`
	Version   string           `xml:"version,attr"`
	Exception serviceException `xml:"ServiceException"`
}

// Write renders a structured error in the OGC service exception shape.
func (r *owsResponse) Write(se server.StructuredError) {
	if r.finished {
		return
	}
	r.status = se.StatusCode()
	r.body.Reset()
	out, err := xml.MarshalIndent(serviceExceptionReport{
		Version: "1.3.0",
		Exception: serviceException{
			Code:    se.ErrorCode(),
			Message: se.Error(),
		},
	}, "", " ")
	if err != nil {
		r.body.WriteString(se.Error())
		return
	}
	r.w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	r.body.WriteString(xml.Header)
	r.body.Write(out)
}

func (r *owsResponse) Finish() {
	if r.finished {
		return
	}
	r.flush()
}

func (r *owsResponse) Feedback() server.Feedback { return r.feedback }

func (r *owsResponse) flush() {
	r.finished = true
	r.w.WriteHeader(r.status)
	_, _ = r.w.Write(r.body.Bytes())
}
