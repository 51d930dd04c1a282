// pkg/serverfx/serverfx.go
package serverfx

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/3liz/qjazz/pkg/electrician"
	"github.com/3liz/qjazz/pkg/manifest"
	"github.com/3liz/qjazz/pkg/middleware/auth"
	"github.com/3liz/qjazz/pkg/middleware/logger"
	"github.com/3liz/qjazz/pkg/middleware/metrics"
	"github.com/3liz/qjazz/pkg/server"
	"github.com/3liz/qjazz/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Providers ----------

func provideManifest(cfg Config) (manifest.Config, error) {
	cfgPath := envOr(cfg.ManifestEnv, cfg.DefaultManifest)
	man, err := manifest.Load(cfgPath)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("manifest load failed (%s): %w", cfgPath, err)
	}
	return man, nil
}

func provideRegistry() *server.ServiceRegistry { return server.NewServiceRegistry() }

func provideServerInterface(reg *server.ServiceRegistry) *server.ServerInterface {
	return server.NewServerInterface(reg)
}

func provideMonitor(man manifest.Config, zl *zap.Logger) (server.Monitor, error) {
	if man.Monitor.Topic == "" {
		return nil, nil
	}
	relay, err := electrician.NewMonitorRelayFromEnv()
	if err != nil {
		return nil, err
	}
	zl.Info("monitor relay enabled", zap.String("topic", man.Monitor.Topic))
	return electrician.NewReportMonitor(relay, man.Monitor.Topic), nil
}

// applyFilters installs the manifest filter table onto the server
// interface. Unknown names are a config defect worth surfacing, but
// not fatal: the worker still serves without that filter.
func applyFilters(iface *server.ServerInterface, man manifest.Config, zl *zap.Logger) {
	for _, spec := range man.Filters {
		if spec.Disabled {
			continue
		}
		factory, ok := server.LookupFilterFactory(spec.Name)
		if !ok {
			zl.Warn("unknown filter in manifest", zap.String("name", spec.Name))
			continue
		}
		iface.RegisterFilter(spec.Name, spec.Priority, factory())
		zl.Info("filter registered", zap.String("name", spec.Name), zap.Int("priority", spec.Priority))
	}
}

func provideDispatcher(iface *server.ServerInterface, mon server.Monitor, zl *zap.Logger) *server.Dispatcher {
	opts := []server.Option{server.WithObserver(metrics.DispatchObserver())}
	if mon != nil {
		opts = append(opts, server.WithMonitor(mon))
	}
	return server.NewDispatcher(iface, zl, opts...)
}

func provideGateway(
	cfg Config,
	man manifest.Config,
	d *server.Dispatcher,
	a *auth.Middleware,
	lm *logger.Middleware,
	/* name:"metrics" */ m http.Handler,
	r httpx.Router,
	zl *zap.Logger,
) http.Handler {
	return httpx.BuildGateway(man, httpx.BuildDeps{
		Dispatcher: d,
		Projects:   httpx.DirResolver{Root: man.Projects.RootDir},
		Auth:       a,
		LogMW:      lm,
		Metrics:    m,
		Router:     r,
		Log:        zl.Named(cfg.Service),
	})
}

// ---------- Lifecycle ----------

type serverDeps struct {
	fx.In
	Logger   *zap.Logger
	Manifest manifest.Config
	App      http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	addr := envOr(cfg.ListenEnv, "")
	if addr == "" {
		addr = d.Manifest.Server.Listen
	}
	if addr == "" {
		addr = ":4000"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  msOr(d.Manifest.Server.ReadTimeoutMS, 15*time.Second),
		WriteTimeout: msOr(d.Manifest.Server.WriteTimeoutMS, 30*time.Second),
		IdleTimeout:  msOr(d.Manifest.Server.IdleTimeoutMS, 60*time.Second),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				d.Logger.Info("server listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					d.Logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func msOr(ms int, def time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
