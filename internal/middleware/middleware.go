package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/handlers"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var logger = logger_i.NewLogger("middleware")

// rejection is what a guard returns when the request must not reach the handler.
type rejection struct {
	code       int
	message    string
	retryAfter time.Duration
}

// scope is the per request state handed from guard to guard.
type scope struct {
	w   http.ResponseWriter
	r   *http.Request
	log *logger_i.Logger
}

type guard func(*scope) *rejection

var guards = []guard{withTrace, withinRate}

// Wrap runs the guards in front of next and records status and latency per route pattern.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := metrics.NewHttpStatusRecorder(w)
		s := &scope{w: rec, r: r, log: logger}

		if rej := runGuards(s); rej != nil {
			reject(s, rej)
		} else {
			s.log.Debug("Request accepted", "method", s.r.Method, "path", s.r.URL.Path)
			next(rec, s.r)
		}

		metrics.ObserveRequest(routeLabel(s.r), rec.Status, time.Since(started))
	}
}

func runGuards(s *scope) *rejection {
	for _, g := range guards {
		if rej := g(s); rej != nil {
			return rej
		}
	}
	return nil
}

func reject(s *scope, rej *rejection) {
	if rej.retryAfter > 0 {
		secs := int(rej.retryAfter.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		s.w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	s.log.Warn("Request rejected", "code", rej.code, "reason", rej.message, "remote", s.r.RemoteAddr)
	handlers.WriteErrorResponse(s.w, rej.code, "", rej.message)
}

// routeLabel prefers the chi route pattern so ids do not explode the label set.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
