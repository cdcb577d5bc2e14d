package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qa"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Requests served, by route pattern and status code.",
	}, []string{"route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time to serve a request, by route pattern.",
		Buckets:   []float64{.005, .025, .1, .25, .5, 1, 2.5, 10},
	}, []string{"route"})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "job_queue_depth",
		Help:      "Jobs accepted but not yet picked up by a worker.",
	})

	dispatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatcher_wakeups_total",
		Help:      "Times the dispatcher was woken to hand out work.",
	})

	busyWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workers_busy",
		Help:      "Workers currently running a job.",
	})

	jobSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Wall time of background jobs, by job type and final status.",
		Buckets:   []float64{.1, .5, 1, 2, 5, 10, 30, 60, 300, 900},
	}, []string{"type", "status"})

	upstreamSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_call_duration_seconds",
		Help:      "Latency of embedding, completion, vector and extraction calls.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
	}, []string{"call"})

	answers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_total",
		Help:      "Answers written by the generator, by answer status.",
	}, []string{"status"})

	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_http_requests_total",
		Help:      "Requests sent to model providers, by status code and method.",
	}, []string{"code", "method"})

	evaluationScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "evaluation_overall_score",
		Help:      "Overall score of finished evaluations.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
)

// HttpStatusRecorder remembers the status written by the handler.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status  int
	written bool
}

func NewHttpStatusRecorder(w http.ResponseWriter) *HttpStatusRecorder {
	return &HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

// WriteHeader keeps the first status only, matching net/http.
func (r *HttpStatusRecorder) WriteHeader(code int) {
	if !r.written {
		r.Status = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *HttpStatusRecorder) Write(b []byte) (int, error) {
	r.written = true
	return r.ResponseWriter.Write(b)
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func ObserveRequest(route string, status int, took time.Duration) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route).Observe(took.Seconds())
}

func IncrementJobsInQueue() { queueDepth.Inc() }

func DecrementJobsInQueue() { queueDepth.Dec() }

func StartDispatcherSignalCount() { dispatches.Inc() }

func IncrementActiveWorkerCount() { busyWorkers.Inc() }

func DecrementActiveWorkerCount() { busyWorkers.Dec() }

// CaptureExecutionMetrics records how long a call to an outside dependency took.
func CaptureExecutionMetrics(call string, took time.Duration) {
	upstreamSeconds.WithLabelValues(call).Observe(took.Seconds())
}

func CaptureJobMetrics(jobType string, status string, took time.Duration) {
	jobSeconds.WithLabelValues(jobType, status).Observe(took.Seconds())
}

func RecordAnswer(status string) {
	answers.WithLabelValues(status).Inc()
}

func ObserveEvaluationScore(score float64) {
	evaluationScores.Observe(score)
}

// InstrumentTransport counts every outgoing provider request by status code.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(upstreamRequests, next)
}
