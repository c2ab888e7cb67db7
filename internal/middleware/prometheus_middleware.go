package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMiddleware считает HTTP-метрики для обработчиков net/http.
// Использование:
//
//	mw, _ := middleware.NewPrometheusMiddleware("sandbox", reg)
//	mw.RegisterMetricsEndpoint(mux, reg)
//
// Метрики:
// * http_request_duration_seconds{code,method,path} - histogram
// * http_requests_inflight - gauge
// * http_request_errors_total{method,path,status} - counter (4xx/5xx)
type PrometheusMiddleware struct {
	reqDuration *prometheus.HistogramVec
	reqInflight prometheus.Gauge
	reqErrors   *prometheus.CounterVec
}

// NewPrometheusMiddleware создаёт middleware и регистрирует метрики в reg
func NewPrometheusMiddleware(service string, reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	pm := &PrometheusMiddleware{
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"code", "method", "path"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: service,
			Name:      "http_requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_request_errors_total",
			Help:      "Общее число запросов, завершившихся ошибкой (4xx/5xx).",
		}, []string{"method", "path", "status"}),
	}

	for _, c := range []prometheus.Collector{pm.reqDuration, pm.reqInflight, pm.reqErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return pm, nil
}

// Wrap оборачивает обработчик маршрута path
func (pm *PrometheusMiddleware) Wrap(path string, next http.Handler) http.Handler {
	duration := pm.reqDuration.MustCurryWith(prometheus.Labels{"path": path})
	h := promhttp.InstrumentHandlerDuration(duration, pm.countErrors(path, next))
	return promhttp.InstrumentHandlerInFlight(pm.reqInflight, h)
}

func (pm *PrometheusMiddleware) countErrors(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// Ошибочные статусы >=400
		if rec.status >= 400 {
			pm.reqErrors.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		}
	})
}

// RegisterMetricsEndpoint добавляет GET /metrics с метриками из g
func (pm *PrometheusMiddleware) RegisterMetricsEndpoint(mux *http.ServeMux, g prometheus.Gatherer) {
	mux.Handle("/metrics", pm.Wrap("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
