// pkg/server/dispatch.go
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Dispatch outcomes, as reported to the monitor and metrics observer.
const (
	OutcomeOK             = "ok"
	OutcomeFilterStop     = "filter_stop"
	OutcomeParseError     = "parse_error"
	OutcomeServiceError   = "service_error"
	OutcomeInternalError  = "internal_error"
	OutcomeUnknownService = "unknown_service"
	OutcomeFault          = "fault"
)

// ObserveFunc receives one report per dispatch that reached response
// I/O; metrics hook in.
type ObserveFunc func(r Report)

type Option func(*Dispatcher)

func WithMonitor(m Monitor) Option       { return func(d *Dispatcher) { d.monitor = m } }
func WithObserver(fn ObserveFunc) Option { return func(d *Dispatcher) { d.observe = fn } }

// Dispatcher runs one request at a time through the filter chain and
// the resolved handler. It is synchronous and must not be entered
// concurrently: the active-project slot on the server interface is
// unkeyed shared state, so the host serializes calls (one dispatcher
// per worker, or an external mutex).
type Dispatcher struct {
	iface   *ServerInterface
	log     *zap.Logger
	monitor Monitor
	observe ObserveFunc

	publishTimeout time.Duration
}

func NewDispatcher(iface *ServerInterface, log *zap.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		iface:          iface,
		log:            log,
		publishTimeout: 2 * time.Second,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dispatcher) Iface() *ServerInterface { return d.iface }

// Dispatch runs one request through the pipeline.
//
// A nil return means the response was finalized, whatever the outcome:
// normal completion, filter stop, parse error, structured service
// error, or a sanitized internal error. A non-nil return means no
// response I/O happened (unknown api, missing project) or a fault
// escaped every stage boundary; the caller owns the response then.
func (d *Dispatcher) Dispatch(req Request, resp Response, project *Project, apiName string) (err error) {
	start := time.Now()
	outcome := OutcomeOK

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("unhandled fault in dispatch",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			outcome = OutcomeFault
			err = &UnhandledFaultError{Value: r}
		}
		if err == nil || outcome == OutcomeFault {
			d.report(req, project, apiName, outcome, time.Since(start))
		}
	}()

	// Stale per-request access-control state must not leak into a new
	// request.
	if ac := d.iface.AccessControls(); ac != nil {
		ac.UnresolveFilterFeatures()
	}

	var api Api
	if apiName != "" {
		if api = d.iface.Registry().GetApi(apiName); api == nil {
			return &ApiNotFoundError{Name: apiName}
		}
	} else if project == nil {
		return ErrProjectRequired
	}

	handler := NewRequestHandler(req, resp)
	if perr := handler.ParseInput(); perr != nil {
		d.log.Error("parse input exception", zap.String("message", perr.Error()))
		if api != nil {
			resp.Write(&ServiceError{Code: "Bad request error", Message: perr.Error(), Status: 400})
		} else {
			resp.Write(&ServiceError{Code: "RequestNotWellFormed", Message: perr.Error(), Status: 400})
		}
		resp.Finish()
		outcome = OutcomeParseError
		// Parse failures are expected and already answered; not a
		// pipeline failure.
		return nil
	}

	if project != nil {
		d.iface.SetConfigFilePath(project.Path)
	} else {
		d.iface.SetConfigFilePath("")
	}
	d.iface.SetRequestHandler(handler)

	guard := acquireGuard(d.iface)
	defer guard.Release()

	chain := &filterChain{filters: d.iface.Filters(), log: d.log}
	fc := &FilterContext{Handler: handler, Request: req, Response: resp}

	if !chain.run(StageRequestReady, fc) {
		outcome = OutcomeFilterStop
		return nil
	}

	// Single write point for the active-project slot; the guard clears
	// it on every exit path.
	d.iface.bindActiveProject(project)
	fc.Project = project

	if !chain.run(StageProjectReady, fc) {
		outcome = OutcomeFilterStop
		return nil
	}

	finalized, herr := d.execute(api, req, resp, project, handler)
	if herr != nil {
		outcome = d.writeHandlerError(resp, herr)
		return nil
	}
	if finalized {
		outcome = OutcomeUnknownService
		return nil
	}

	if chain.run(StageResponseComplete, fc) {
		resp.Finish()
	}
	return nil
}

// execute resolves and runs the handler inside its own fault boundary.
// finalized reports that the response was already finished on a normal
// negative outcome (unknown service); err carries handler failures for
// classification by the caller.
func (d *Dispatcher) execute(api Api, req Request, resp Response, project *Project, handler *RequestHandler) (finalized bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	if api != nil {
		err = api.ExecuteRequest(&ApiContext{
			RootPath: api.RootPath(),
			Request:  req,
			Response: resp,
			Project:  project,
			Iface:    d.iface,
		})
		return false, err
	}

	// Filters may have changed parameters, so they are read here and
	// not before the filter stages.
	params := req.Params()
	if params.Filename != "" {
		handler.SetResponseHeader(
			"Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", params.Filename),
		)
	}

	svc := d.iface.Registry().GetService(params.Service, params.Version)
	if svc == nil {
		resp.Write(&ServiceError{
			Code:    "Service configuration error",
			Message: "Service unknown or unsupported",
		})
		resp.Finish()
		return true, nil
	}

	return false, svc.ExecuteRequest(req, resp, project)
}

// writeHandlerError classifies a handler failure. Structured service
// errors are written as-is; anything else is sanitized so plugin
// internals never reach the client.
func (d *Dispatcher) writeHandlerError(resp Response, err error) string {
	if se, ok := asStructured(err); ok {
		resp.Write(se)
		resp.Finish()
		return OutcomeServiceError
	}
	writeInternalError(resp, err, "request execute", d.log)
	return OutcomeInternalError
}

func asStructured(err error) (StructuredError, bool) {
	var se StructuredError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func (d *Dispatcher) report(req Request, project *Project, apiName, outcome string, elapsed time.Duration) {
	params := req.Params()
	r := Report{
		Service:    params.Service,
		Request:    params.Request,
		Api:        apiName,
		Outcome:    outcome,
		DurationMS: elapsed.Milliseconds(),
	}
	if project != nil {
		r.Project = project.Name
	}
	if d.observe != nil {
		d.observe(r)
	}
	if d.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
		defer cancel()
		if err := d.monitor.Publish(ctx, r); err != nil {
			d.log.Warn("monitor publish failed", zap.Error(err))
		}
	}
}
