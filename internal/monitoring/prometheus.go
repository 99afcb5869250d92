package monitoring

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupPrometheusMetrics mounts the Prometheus scrape endpoint. Request
// counters live in internal/metrics and are fed by the metrics middleware.
func SetupPrometheusMetrics(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
