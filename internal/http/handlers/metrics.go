package handlers

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const metricsNamespace = "todolist"

var (
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
)

func InitPrometheusMetrics() {
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Total number of handled HTTP requests.",
		},
		[]string{"route", "method", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request durations in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// RequestLogger wraps the router handler with an access log and, when
// InitPrometheusMetrics has run, per-route request metrics. Metrics are
// labelled by route template rather than raw path, so path parameters
// do not blow up label cardinality.
func RequestLogger(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		duration := time.Since(start)

		route := string(ctx.Path())
		if v, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && v != "" {
			route = v
		}
		method := string(ctx.Method())
		status := ctx.Response.StatusCode()

		if requestsTotal != nil {
			requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
		}

		log.Info().
			Str("method", method).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("duration", duration).
			Str("ip", ctx.RemoteAddr().String()).
			Msg("request")
	}
}

// MetricsHandler serves the Prometheus text exposition for this
// service's own metric families. Runtime collector families from the
// default registry are filtered out by namespace prefix.
func MetricsHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("failed to gather metrics")
			return
		}

		filtered := make([]*dto.MetricFamily, 0, len(metricFamilies))
		for _, mf := range metricFamilies {
			if strings.HasPrefix(mf.GetName(), metricsNamespace+"_") {
				filtered = append(filtered, mf)
			}
		}

		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, format)
		for _, mf := range filtered {
			if err := encoder.Encode(mf); err != nil {
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				ctx.SetBodyString("failed to encode metrics")
				return
			}
		}

		ctx.SetContentType(string(format))
		ctx.Response.Header.Set("Cache-Control", "no-store")
		ctx.SetBody(buf.Bytes())
	}
}
