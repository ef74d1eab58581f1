package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// PageCacheRequests counts page cache lookups by result (hit, miss).
	PageCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_requests_total",
		Help: "Total number of page cache lookups by result",
	}, []string{"result"})

	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector.
// The collector registers with the default Prometheus registry once; later
// calls return the same instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

// PageCacheMetrics counts hits and misses reported by the cache middleware
// through the X-Cache response header. It must wrap the cache middleware.
func PageCacheMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		switch c.GetRespHeader("X-Cache") {
		case "hit":
			PageCacheRequests.WithLabelValues("hit").Inc()
		case "miss":
			PageCacheRequests.WithLabelValues("miss").Inc()
		}
		return err
	}
}
