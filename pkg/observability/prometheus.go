package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "avatarshuffle"

// Prometheus implements RunHooks, CacheHooks and HTTPHooks with Prometheus
// collectors.
type Prometheus struct {
	runs         *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	draws        *prometheus.CounterVec
	nodes        *prometheus.CounterVec
	generated    *prometheus.CounterVec
	genDuration  prometheus.Histogram
	cacheEvents  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
// It panics if registration fails, like [prometheus.MustRegister].
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Selector draws by result.",
		}, []string{"result"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Visited shape nodes by outcome and kind.",
		}, []string{"outcome", "kind"}),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatars_total",
			Help:      "Avatar images requested and received.",
		}, []string{"direction"}),
		genDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Wall time of an avatar generation call.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type.",
		}, []string{"event", "key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_requests_total",
			Help:      "Outgoing HTTP requests by host and status.",
		}, []string{"method", "host", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_duration_seconds",
			Help:      "Outgoing HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "host"}),
	}
	reg.MustRegister(p.runs, p.runDuration, p.draws, p.nodes, p.generated,
		p.genDuration, p.cacheEvents, p.httpRequests, p.httpDuration)
	return p
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnRunStart(context.Context, string, string, int) {}

func (p *Prometheus) OnRunComplete(_ context.Context, _ string, _ RunSummary, d time.Duration, err error) {
	p.runs.WithLabelValues(outcome(err)).Inc()
	p.runDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnDraw(_ context.Context, _ string, err error) {
	result := "drawn"
	if err != nil {
		result = "empty_pool"
	}
	p.draws.WithLabelValues(result).Inc()
}

func (p *Prometheus) OnNodeApplied(_ context.Context, kind string) {
	p.nodes.WithLabelValues("applied", kind).Inc()
}

func (p *Prometheus) OnNodeSkipped(_ context.Context, kind, _ string) {
	p.nodes.WithLabelValues("skipped", kind).Inc()
}

func (p *Prometheus) OnNodeFailed(_ context.Context, kind string, _ error) {
	p.nodes.WithLabelValues("failed", kind).Inc()
}

func (p *Prometheus) OnGenerate(_ context.Context, requested, received int, d time.Duration, _ error) {
	p.generated.WithLabelValues("requested").Add(float64(requested))
	p.generated.WithLabelValues("received").Add(float64(received))
	p.genDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.cacheEvents.WithLabelValues("set", keyType).Inc()
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, host, _ string, _ error) {
	p.httpRequests.WithLabelValues(method, host, "error").Inc()
}

var (
	_ RunHooks   = (*Prometheus)(nil)
	_ CacheHooks = (*Prometheus)(nil)
	_ HTTPHooks  = (*Prometheus)(nil)
)
