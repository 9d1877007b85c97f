package observability

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageCacheRequests counts index page cache lookups by result (hit, miss, error).
	PageCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_page_cache_requests_total",
		Help: "Index page cache lookups by result",
	}, []string{"result"})

	// PageCacheClears counts explicit page cache invalidations.
	PageCacheClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_page_cache_clears_total",
		Help: "Number of times the page cache was cleared",
	})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ContentCreated counts created posts and comments.
	ContentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_content_created_total",
		Help: "Posts and comments created",
	}, []string{"kind"})

	// SubscriptionChanges counts follow and unfollow operations that changed state.
	SubscriptionChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_subscription_changes_total",
		Help: "Follow edges created or removed",
	}, []string{"action"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// HTTPMetrics returns the process-wide fiberprometheus collector. Its
// collectors register on the default registry, which rejects duplicates, so
// it is built once.
func HTTPMetrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(ServiceName)
	})
	return prom
}
