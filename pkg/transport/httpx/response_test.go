package httpx

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/3liz/qjazz/pkg/server"
	"github.com/stretchr/testify/assert"
)

func TestOwsResponseSingleFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newOwsResponse(rec, context.Background())

	resp.SetHeader("Content-Type", "text/xml")
	_, _ = resp.WriteBody([]byte("<ok/>"))
	resp.Finish()

	// Later finalization attempts must not touch the wire again.
	resp.Finish()
	resp.SendError(500, "too late")

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "<ok/>", rec.Body.String())
}

func TestOwsResponseSendError(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newOwsResponse(rec, context.Background())

	_, _ = resp.WriteBody([]byte("partial output"))
	resp.SendError(500, "Internal Server Error")

	assert.Equal(t, 500, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
}

func TestOwsResponseStructuredError(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newOwsResponse(rec, context.Background())

	resp.Write(&server.ServiceError{Code: "InvalidParameterValue", Message: "bad CRS", Status: 400})
	resp.Finish()

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "ServiceExceptionReport")
	assert.Contains(t, rec.Body.String(), "bad CRS")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/xml")
}

func TestOwsResponseFeedback(t *testing.T) {
	t.Run("explicit cancel", func(t *testing.T) {
		resp := newOwsResponse(httptest.NewRecorder(), context.Background())
		assert.False(t, resp.Feedback().IsCanceled())
		resp.Feedback().Cancel()
		assert.True(t, resp.Feedback().IsCanceled())
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		resp := newOwsResponse(httptest.NewRecorder(), ctx)
		assert.False(t, resp.Feedback().IsCanceled())
		cancel()
		assert.True(t, resp.Feedback().IsCanceled())
	})
}
