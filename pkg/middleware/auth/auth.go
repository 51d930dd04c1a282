// middleware/auth/auth.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Middleware guards gateway routes with a bearer token. With no secret
// configured the guard is disabled and every request passes.
type Middleware struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

type ctxKey int

const userKey ctxKey = 0

// User is the validated token identity stored on the request context.
type User struct {
	Subject string
	Roles   []string
}

func (m *Middleware) Enabled() bool { return m != nil && len(m.secret) > 0 }

func (m *Middleware) validateToken(raw string) (User, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.leeway),
	)

	var claims struct {
		jwt.RegisteredClaims
		Roles []string `json:"roles"`
	}

	tok, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return User{}, errors.New("invalid token")
	}

	if m.issuer != "" && claims.Issuer != m.issuer {
		return User{}, errors.New("bad issuer")
	}

	if m.audience != "" {
		found := false
		for _, a := range claims.Audience {
			if a == m.audience {
				found = true
				break
			}
		}
		if !found {
			return User{}, errors.New("bad audience")
		}
	}

	if claims.Subject == "" {
		return User{}, errors.New("missing subject")
	}

	return User{Subject: claims.Subject, Roles: claims.Roles}, nil
}

// Middleware rejects requests without a valid bearer token when the
// guard is enabled.
func (m *Middleware) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.Enabled() {
				next.ServeHTTP(w, r)
				return
			}
			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			u, err := m.validateToken(raw)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

// GetUser returns the identity stored by the guard, if any.
func GetUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
