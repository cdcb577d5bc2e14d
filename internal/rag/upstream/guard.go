// Package upstream throttles and retries calls to the embedding and generation services.
package upstream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Guard struct {
	service    string
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *logger_i.Logger
}

func NewGuard(service string, rps float64, maxRetries int) *Guard {
	if rps <= 0 {
		rps = config.UpstreamCallsPerSec
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Guard{
		service:    service,
		limiter:    rate.NewLimiter(rate.Limit(rps), config.UpstreamBurstPerCall),
		maxRetries: maxRetries,
		baseDelay:  config.UpstreamBaseDelay,
		maxDelay:   config.UpstreamMaxDelay,
		logger:     logger_i.NewLogger("upstream_" + service),
	}
}

func (g *Guard) Service() string { return g.service }

// Do runs call under the rate limit, retrying transient failures with capped
// exponential backoff. The final error is an UpstreamServiceError.
func Do[T any](ctx context.Context, g *Guard, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return zero, appErrors.NewUpstreamError(g.service, err)
		}

		res, err := call(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == g.maxRetries {
			break
		}
		delay := g.retryDelay(attempt)
		g.logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("Retrying upstream call", "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return zero, appErrors.NewUpstreamError(g.service, ctx.Err())
		case <-time.After(delay):
		}
	}
	return zero, appErrors.NewUpstreamError(g.service, lastErr)
}

func (g *Guard) retryDelay(attempt int) time.Duration {
	d := g.baseDelay << attempt
	if d > g.maxDelay || d <= 0 {
		d = g.maxDelay
	}
	return d
}

// Retryable reports rate limiting and server side failures. Cancellation and
// client errors are final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return retryableStatus(gErr.Code)
	}
	var oErr *openai.Error
	if errors.As(err, &oErr) {
		return retryableStatus(oErr.StatusCode)
	}
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted, codes.Unavailable, codes.Aborted:
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
