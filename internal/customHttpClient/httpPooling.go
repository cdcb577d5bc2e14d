// Package customHttpClient builds the one http.Client every llm and embedding sdk
// shares, so keep-alive connections are reused across providers.
package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
)

const traceHeader = "X-Trace-Id"

var (
	once   sync.Once
	pooled *http.Client
)

func GetPooledClient() *http.Client {
	once.Do(func() {
		pooled = NewClient(newTransport())
	})
	return pooled
}

// NewClient layers trace propagation and request metrics over base.
func NewClient(base http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: metrics.InstrumentTransport(traced{next: base}),
		Timeout:   config.UpstreamHTTPTimeout,
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = config.MaxIdleConns
	t.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
	t.IdleConnTimeout = config.IdleConnTimeout
	return t
}

// traced forwards the request trace id to the provider so its logs can be matched up.
type traced struct {
	next http.RoundTripper
}

func (t traced) RoundTrip(req *http.Request) (*http.Response, error) {
	trace, _ := req.Context().Value(config.TRACE_ID_KEY).(string)
	if trace == "" || req.Header.Get(traceHeader) != "" {
		return t.next.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	out.Header.Set(traceHeader, trace)
	return t.next.RoundTrip(out)
}
