// pkg/transport/httpx/ows.go
package httpx

import (
	"errors"
	"net/http"
	"sync"

	"github.com/3liz/qjazz/pkg/manifest"
	"github.com/3liz/qjazz/pkg/middleware/auth"
	"github.com/3liz/qjazz/pkg/middleware/logger"
	hmetrics "github.com/3liz/qjazz/pkg/middleware/metrics"
	"github.com/3liz/qjazz/pkg/server"
	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type BuildDeps struct {
	Dispatcher *server.Dispatcher
	Projects   ProjectResolver
	Auth       *auth.Middleware
	LogMW      *logger.Middleware
	Metrics    http.Handler
	Router     Router
	Log        *zap.Logger
}

// Gateway translates HTTP requests into dispatch calls. Dispatch is
// serialized: the active-project slot on the server interface is
// shared state and the pipeline requires mutual exclusion from its
// host.
type Gateway struct {
	dispatcher *server.Dispatcher
	projects   ProjectResolver
	defProject string
	log        *zap.Logger

	mu sync.Mutex
}

// BuildGateway assembles the gateway routes and middleware stack.
func BuildGateway(cfg manifest.Config, d BuildDeps) http.Handler {
	g := &Gateway{
		dispatcher: d.Dispatcher,
		projects:   d.Projects,
		defProject: cfg.Projects.Default,
		log:        d.Log,
	}

	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer)
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}
	r.Use(hmetrics.Collect())
	if d.Auth != nil && d.Auth.Enabled() {
		r.Use(d.Auth.Middleware())
	}

	if d.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}
	r.Get("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	ows := http.HandlerFunc(g.handleOws)
	r.Get("/ows", ows)
	r.Post("/ows", ows)
	r.Handle(http.MethodGet, "/api/{name}/*", http.HandlerFunc(g.handleApi))
	r.Handle(http.MethodPost, "/api/{name}/*", http.HandlerFunc(g.handleApi))

	return r.Mux()
}

func (g *Gateway) handleOws(w http.ResponseWriter, r *http.Request) {
	req := newOwsRequest(r)
	resp := newOwsResponse(w, r.Context())

	name := req.query.Get("MAP")
	if name == "" {
		name = g.defProject
	}
	project, err := g.projects.Resolve(name)
	if err != nil {
		// OWS requests need a project before the pipeline runs.
		resp.Write(&server.ServiceError{
			Code:    "Project configuration error",
			Message: "Project not found or unavailable",
			Status:  400,
		})
		resp.Finish()
		g.log.Warn("project resolve failed", zap.String("map", name), zap.Error(err))
		return
	}

	g.dispatch(w, req, resp, project, "")
}

func (g *Gateway) handleApi(w http.ResponseWriter, r *http.Request) {
	req := newOwsRequest(r)
	resp := newOwsResponse(w, r.Context())

	var project *server.Project
	if name := req.query.Get("MAP"); name != "" {
		if p, err := g.projects.Resolve(name); err == nil {
			project = p
		}
	}

	g.dispatch(w, req, resp, project, chi.URLParam(r, "name"))
}

func (g *Gateway) dispatch(w http.ResponseWriter, req *owsRequest, resp *owsResponse, project *server.Project, apiName string) {
	g.mu.Lock()
	err := g.dispatcher.Dispatch(req, resp, project, apiName)
	g.mu.Unlock()
	if err == nil {
		return
	}

	// Precondition failures and faults wrote no response.
	var notFound *server.ApiNotFoundError
	switch {
	case errors.As(err, &notFound):
		http.Error(w, "api not found", http.StatusNotFound)
	case errors.Is(err, server.ErrProjectRequired):
		http.Error(w, "project required", http.StatusBadRequest)
	default:
		g.log.Error("dispatch failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
