package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/voyage-estimator/internal/application/common"
)

// PrometheusMiddleware records duration and outcome of every mediator request.
// Request names drop their package prefix, so "*commands.SaveEstimateCommand"
// is labelled "SaveEstimateCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		done := collector.Started(common.RequestName(request))
		start := time.Now()
		response, err := next(ctx, request)
		done(time.Since(start).Seconds(), err == nil)
		return response, err
	}
}
