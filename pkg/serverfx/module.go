// pkg/serverfx/module.go
package serverfx

import (
	"github.com/3liz/qjazz/pkg/middleware/auth"
	"github.com/3liz/qjazz/pkg/middleware/logger"
	"github.com/3liz/qjazz/pkg/middleware/metrics"
	"github.com/3liz/qjazz/pkg/transport/httpx"
	"go.uber.org/fx"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs/metrics tags only
	ManifestEnv     string // e.g., QJAZZ_MANIFEST
	DefaultManifest string // e.g., "qjazz.toml"
	ListenEnv       string // SERVER_LISTEN_ADDRESS
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }

func defaultConfig() Config {
	return Config{
		Service:         "qjazz",
		ManifestEnv:     "QJAZZ_MANIFEST",
		DefaultManifest: "qjazz.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
	}
}

// Module returns a complete Fx option set; add app-specific
// fx.Invoke(...) alongside to register services, apis and filters.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		// Config into DI
		fx.Provide(func() Config { return cfg }),
		fx.Provide(provideManifest),
		// Core middleware
		auth.Module,
		logger.Module,
		metrics.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		// Dispatch pipeline
		fx.Provide(provideRegistry),
		fx.Provide(provideServerInterface),
		fx.Provide(provideMonitor),
		fx.Provide(provideDispatcher),
		// Gateway
		fx.Provide(fx.Annotate(
			provideGateway,
			fx.ParamTags(``, ``, ``, ``, ``, `name:"metrics"`, ``, ``),
			fx.ResultTags(`name:"app"`),
		)),
		// Manifest filter table
		fx.Invoke(applyFilters),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}
