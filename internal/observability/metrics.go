// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/strike"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the planner, strike and HTTP metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	PlanCycles     *prometheus.CounterVec
	PlanDuration   prometheus.Histogram
	Candidates     *prometheus.HistogramVec
	Strikes        *prometheus.CounterVec
	StrikeDuration prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
	FeedClients    prometheus.Gauge
}

// NewCollector registers metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	cycles, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cuebot_plan_cycles_total",
		Help: "Planning cycles, labeled by outcome and selected shot kind.",
	}, []string{"outcome", "kind"}), "cuebot_plan_cycles_total")
	if err != nil {
		return nil, err
	}

	planDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cuebot_plan_duration_seconds",
		Help:    "Time spent enumerating and selecting a shot.",
		Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}), "cuebot_plan_duration_seconds")
	if err != nil {
		return nil, err
	}

	candidates, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cuebot_plan_candidates",
		Help:    "Feasible candidates found per cycle, by enumeration.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	}, []string{"enumeration"}), "cuebot_plan_candidates")
	if err != nil {
		return nil, err
	}

	strikes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cuebot_strikes_total",
		Help: "Strike cycles, labeled by power level and result.",
	}, []string{"level", "result"}), "cuebot_strikes_total")
	if err != nil {
		return nil, err
	}

	strikeDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cuebot_strike_duration_seconds",
		Help:    "Wall time of a full strike cycle, approach to home.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}), "cuebot_strike_duration_seconds")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cuebot_http_requests_total",
		Help: "Handled HTTP requests, labeled by method, route and status.",
	}, []string{"method", "route", "status"}), "cuebot_http_requests_total")
	if err != nil {
		return nil, err
	}

	feed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cuebot_feed_clients",
		Help: "Connected live feed websocket clients.",
	}), "cuebot_feed_clients")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		PlanCycles:     cycles,
		PlanDuration:   planDuration,
		Candidates:     candidates,
		Strikes:        strikes,
		StrikeDuration: strikeDuration,
		HTTPRequests:   requests,
		FeedClients:    feed,
	}, nil
}

// ObservePlan records one planning cycle.
func (c *Collector) ObservePlan(plan planner.Plan, err error, took time.Duration) {
	if c == nil {
		return
	}
	outcome, kind := "planned", "none"
	switch {
	case errors.Is(err, planner.ErrNoFeasibleShot):
		outcome = "no_shot"
	case err != nil:
		outcome = "rejected"
	case plan.Shot.Kind().IsReflected():
		kind = "reflected"
	default:
		kind = "direct"
	}
	c.PlanCycles.WithLabelValues(outcome, kind).Inc()
	c.PlanDuration.Observe(took.Seconds())
	if err == nil || errors.Is(err, planner.ErrNoFeasibleShot) {
		c.Candidates.WithLabelValues("direct").Observe(float64(plan.Direct))
		c.Candidates.WithLabelValues("reflected").Observe(float64(plan.Reflected))
	}
}

// ObserveStrike records one strike cycle.
func (c *Collector) ObserveStrike(report strike.Report, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	level := report.Level.Name
	if level == "" {
		level = "none"
	}
	c.Strikes.WithLabelValues(level, result).Inc()
	if report.Duration > 0 {
		c.StrikeDuration.Observe(report.Duration.Seconds())
	}
}

// SetFeedClients satisfies the ws hub's client-count hook.
func (c *Collector) SetFeedClients(n int) {
	if c == nil {
		return
	}
	c.FeedClients.Set(float64(n))
}

// GinMiddleware counts requests by matched route.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		if c == nil {
			return
		}
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.HTTPRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
