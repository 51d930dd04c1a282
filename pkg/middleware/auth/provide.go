// middleware/auth/provide.go
package auth

import (
	"time"

	"github.com/3liz/qjazz/pkg/manifest"
	"go.uber.org/fx"
)

// ProvideAuthentication wires the guard from the manifest [auth]
// section. An empty secret yields a disabled guard.
func ProvideAuthentication(cfg manifest.Config) *Middleware {
	leeway := 60 * time.Second
	if cfg.Auth.LeewaySeconds > 0 {
		leeway = time.Duration(cfg.Auth.LeewaySeconds) * time.Second
	}
	return &Middleware{
		secret:   []byte(cfg.Auth.Secret),
		issuer:   cfg.Auth.Issuer,
		audience: cfg.Auth.Audience,
		leeway:   leeway,
	}
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
