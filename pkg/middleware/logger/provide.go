// middleware/logger/provide.go
package logger

import (
	"github.com/3liz/qjazz/pkg/manifest"
	"go.uber.org/zap"
)

func ProvideLogger(cfg manifest.Config) *zap.Logger {
	return NewLogAt(cfg.Logging.Dir, "qjazz.log", ParseLevel(cfg.Logging.Level))
}

func ProvideLoggerMiddleware(cfg manifest.Config) *Middleware {
	return NewMiddleware(NewLog(cfg.Logging.Dir, "http-access.log"))
}
