// pkg/server/types.go
package server

import "context"

// Params are the protocol parameters extracted from a request's query.
// Filename, when set, is an output filename hint used to attach a
// content-disposition header before the service executes.
type Params struct {
	Service  string
	Version  string
	Request  string
	Filename string
}

// Request is the inbound server request as seen by the pipeline. The
// pipeline never mutates it except through the Parser collaborator.
type Request interface {
	Params() Params
}

// Parser is implemented by requests that carry raw input needing a
// parse step before dispatch. ParseInput must be safe to call once per
// dispatch; a non-nil error is classified as a parse failure.
type Parser interface {
	ParseInput() error
}

// Feedback is an optional cancellation handle attached to a response.
// Filters and handlers may cancel it at any point; the pipeline polls
// it after each filter stage.
type Feedback interface {
	IsCanceled() bool
	Cancel()
}

// Response is the outbound side of one dispatch. The pipeline
// guarantees at most one Finish/SendError per dispatch call.
type Response interface {
	SetHeader(name, value string)
	SendError(status int, message string)
	Write(err StructuredError)
	Finish()
	Feedback() Feedback
}

// Project is a loaded project a request executes against. Path is the
// identifying config file path bound into the server interface for the
// duration of a dispatch.
type Project struct {
	Path string
	Name string
}

// FilterContext is the request-scoped state handed to every filter
// hook. Project is nil until the dispatcher binds it, so it is only
// visible from OnProjectReady onward.
type FilterContext struct {
	Handler  *RequestHandler
	Request  Request
	Response Response
	Project  *Project
}

// Filter is a plugin-supplied observer with three lifecycle hooks.
// Each hook returns a continue signal; false stops the remaining
// filters for that stage only. A hook may instead (or additionally)
// flag the handler as having raised, or cancel the response feedback.
type Filter interface {
	OnRequestReady(fc *FilterContext) (bool, error)
	OnProjectReady(fc *FilterContext) (bool, error)
	OnResponseComplete(fc *FilterContext) (bool, error)
}

// Service is a protocol handler selected by (service, version).
type Service interface {
	ExecuteRequest(req Request, resp Response, project *Project) error
}

// ApiContext bundles the request-scoped state for a capability handler.
type ApiContext struct {
	RootPath string
	Request  Request
	Response Response
	Project  *Project
	Iface    *ServerInterface
}

// Api is a named capability handler not tied to a service/version pair.
type Api interface {
	RootPath() string
	ExecuteRequest(ctx *ApiContext) error
}

// AccessControl is the per-request access-control cache handle. The
// pipeline invalidates it once at the start of each dispatch.
type AccessControl interface {
	UnresolveFilterFeatures()
}

// Report is the per-dispatch record handed to the monitor.
type Report struct {
	Service    string `json:"service"`
	Request    string `json:"request"`
	Project    string `json:"project,omitempty"`
	Api        string `json:"api,omitempty"`
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
}

// Monitor receives one report per dispatch that reached response I/O.
type Monitor interface {
	Publish(ctx context.Context, r Report) error
}
