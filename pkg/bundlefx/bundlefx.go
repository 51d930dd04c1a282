// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/3liz/qjazz/pkg/middleware/auth"
	"github.com/3liz/qjazz/pkg/middleware/logger"
	"github.com/3liz/qjazz/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provided to fx
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
