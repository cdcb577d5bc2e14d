package customHttpClient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PropagatesTrace(t *testing.T) {
	seen := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get(traceHeader)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(http.DefaultTransport)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-42")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL+"/v1/embeddings", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, req.Header.Get(traceHeader), "caller request must not be mutated")

	req, _ = http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "trace-42", <-seen)
	assert.Equal(t, "", <-seen)
}

func TestGetPooledClient_Shared(t *testing.T) {
	assert.Same(t, GetPooledClient(), GetPooledClient())
	assert.Equal(t, config.UpstreamHTTPTimeout, GetPooledClient().Timeout)
}
