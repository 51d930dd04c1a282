package httpx

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/3liz/qjazz/pkg/manifest"
	"github.com/3liz/qjazz/pkg/middleware/auth"
	"github.com/3liz/qjazz/pkg/middleware/logger"
	"github.com/3liz/qjazz/pkg/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// bodyWriter is the wider response surface concrete services use to
// stream payloads.
type bodyWriter interface {
	SetHeader(name, value string)
	WriteBody(b []byte) (int, error)
}

type capabilitiesService struct{ calls int }

func (s *capabilitiesService) ExecuteRequest(req server.Request, resp server.Response, project *server.Project) error {
	s.calls++
	w, ok := resp.(bodyWriter)
	if !ok {
		return &server.ServiceError{Code: "Internal", Message: "response cannot stream", Status: 500}
	}
	w.SetHeader("Content-Type", "text/xml; charset=utf-8")
	_, err := w.WriteBody([]byte("<WMS_Capabilities/>"))
	return err
}

type echoApi struct{ calls int }

func (a *echoApi) RootPath() string { return "/wfs3" }

func (a *echoApi) ExecuteRequest(ctx *server.ApiContext) error {
	a.calls++
	if w, ok := ctx.Response.(bodyWriter); ok {
		w.SetHeader("Content-Type", "application/json")
		_, _ = w.WriteBody([]byte(`{"links":[]}`))
	}
	return nil
}

type gatewayFixture struct {
	handler http.Handler
	service *capabilitiesService
	api     *echoApi
}

func newGatewayFixture(t *testing.T, man manifest.Config) *gatewayFixture {
	t.Helper()

	if man.Projects.RootDir == "" {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "demo.qgs"), []byte("<qgis/>"), 0o644))
		man.Projects.RootDir = root
	}

	reg := server.NewServiceRegistry()
	svc := &capabilitiesService{}
	api := &echoApi{}
	reg.RegisterService("WMS", "1.3.0", svc)
	reg.RegisterApi("wfs3", api)

	iface := server.NewServerInterface(reg)
	d := server.NewDispatcher(iface, zap.NewNop())

	h := BuildGateway(man, BuildDeps{
		Dispatcher: d,
		Projects:   DirResolver{Root: man.Projects.RootDir},
		Auth:       auth.ProvideAuthentication(man),
		LogMW:      logger.NewMiddleware(zap.NewNop()),
		Router:     NewChi(),
		Log:        zap.NewNop(),
	})
	return &gatewayFixture{handler: h, service: svc, api: api}
}

func (g *gatewayFixture) do(method, target string, hdrs map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdrs {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	return rec
}

func TestGatewayOwsDispatch(t *testing.T) {
	g := newGatewayFixture(t, manifest.Config{})

	rec := g.do(http.MethodGet, "/ows?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetCapabilities&MAP=demo", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<WMS_Capabilities/>", rec.Body.String())
	assert.Equal(t, 1, g.service.calls)
}

func TestGatewayParamsCaseInsensitive(t *testing.T) {
	g := newGatewayFixture(t, manifest.Config{})

	rec := g.do(http.MethodGet, "/ows?service=wms&version=1.3.0&request=GetMap&map=demo", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, g.service.calls)
}

func TestGatewayUnknownService(t *testing.T) {
	g := newGatewayFixture(t, manifest.Config{})

	rec := g.do(http.MethodGet, "/ows?SERVICE=WCS&MAP=demo", nil)
	assert.Contains(t, rec.Body.String(), "Service unknown or unsupported")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/xml")
	assert.Equal(t, 0, g.service.calls)
}

func TestGatewayMissingProject(t *testing.T) {
	g := newGatewayFixture(t, manifest.Config{})

	rec := g.do(http.MethodGet, "/ows?SERVICE=WMS", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project not found or unavailable")
}

func TestGatewayDefaultProject(t *testing.T) {
	g := newGatewayFixture(t, manifest.Config{Projects: manifest.Projects{Default: "demo"}})

	rec := g.do(http.MethodGet, "/ows?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetMap", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, g.service.calls)
}

func TestGatewayApiDispatch(t *testing.T) {
	g := newGatewayFixture(t, manifest.Config{})

	rec := g.do(http.MethodGet, "/api/wfs3/collections", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"links":[]}`, rec.Body.String())
	assert.Equal(t, 1, g.api.calls)

	rec = g.do(http.MethodGet, "/api/absent/collections", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGatewayHealthz(t *testing.T) {
	g := newGatewayFixture(t, manifest.Config{})

	rec := g.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGatewayAuthGuard(t *testing.T) {
	man := manifest.Config{Auth: manifest.Auth{Secret: "sekrit", Issuer: "qjazz"}}
	g := newGatewayFixture(t, man)

	rec := g.do(http.MethodGet, "/ows?SERVICE=WMS&MAP=demo", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	claims := jwt.RegisteredClaims{
		Subject:   "ops",
		Issuer:    "qjazz",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("sekrit"))
	require.NoError(t, err)

	rec = g.do(http.MethodGet, "/ows?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetMap&MAP=demo", map[string]string{
		"Authorization": "Bearer " + tok,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, g.service.calls)
}
