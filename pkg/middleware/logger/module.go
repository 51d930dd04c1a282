// middleware/logger/module.go
package logger

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideLoggerMiddleware),
)
