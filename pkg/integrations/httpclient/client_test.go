package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

// newRecordingClient returns a client whose backoff waits are recorded
// instead of slept.
func newRecordingClient(delays *[]time.Duration) *Client {
	c := New()
	c.wait = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return c
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := NewRetryPolicy()
	assert.Equal(t, 500*time.Millisecond, p.Backoff(0))
	assert.Equal(t, 1000*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 2000*time.Millisecond, p.Backoff(2))
}

func TestRetryPolicy_RetryableStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected bool
	}{
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{408, true},
		{429, false},
		{500, true},
		{503, true},
	}

	p := NewRetryPolicy()
	for _, tt := range tests {
		assert.Equal(t, tt.expected, p.RetryableStatus(tt.status), "status %d", tt.status)
	}
}

func TestClient_Do_RetriesServerErrorsThenSurfacesAPIError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	var delays []time.Duration
	c := newRecordingClient(&delays)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	assert.Nil(t, resp)

	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, integrations.KindAPI, e.Kind)
	assert.Equal(t, 503, e.Status)
	assert.Equal(t, "maintenance", e.Message)

	assert.Equal(t, int32(4), atomic.LoadInt32(&calls), "one attempt plus three retries")
	require.Len(t, delays, 3)
	for i := 1; i < len(delays); i++ {
		assert.Greater(t, delays[i], delays[i-1], "delays must strictly increase")
	}
}

func TestClient_Do_AuthFailureIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var delays []time.Duration
	c := newRecordingClient(&delays)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	_, err := c.Do(req)

	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, integrations.KindAuth, e.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, delays)
}

func TestClient_Do_ClientErrorsReturnImmediately(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected integrations.ErrorKind
	}{
		{name: "bad request", status: 400, expected: integrations.KindAPI},
		{name: "forbidden", status: 403, expected: integrations.KindAuth},
		{name: "not found", status: 404, expected: integrations.KindNotFound},
		{name: "rate limited", status: 429, expected: integrations.KindAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var delays []time.Duration
			c := newRecordingClient(&delays)

			req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
			_, err := c.Do(req)

			e, ok := integrations.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expected, e.Kind)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
			assert.Empty(t, delays)
		})
	}
}

func TestClient_Do_RecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var delays []time.Duration
	c := newRecordingClient(&delays)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	resp, err := c.Do(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, delays)
}

func TestClient_Do_ReplaysJSONBodyOnRetry(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	var delays []time.Duration
	c := newRecordingClient(&delays)

	req, err := NewJSONRequest(context.Background(), http.MethodPost, server.URL, map[string]string{"ref": "main"})
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.JSONEq(t, `{"ref":"main"}`, bodies[1])
}

func TestClient_Do_NonReplayableBodyExecutesOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var delays []time.Duration
	c := newRecordingClient(&delays)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, io.NopCloser(strings.NewReader("stream")))
	req.GetBody = nil

	_, err := c.Do(req)
	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 500, e.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, delays)
}

func TestClient_Do_ConnectionFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	var delays []time.Duration
	c := newRecordingClient(&delays)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, target, nil)
	_, err := c.Do(req)

	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, integrations.KindNetwork, e.Kind)
	assert.Len(t, delays, 3, "connection failures are retried")
}

func TestClient_Do_CancelledContextStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := New()
	c.wait = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	_, err := c.Do(req)

	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, integrations.KindNetwork, e.Kind)
	assert.Equal(t, "Request cancelled", e.Message)
}

func TestResponse_LooksLikeHTML(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		expected    bool
	}{
		{name: "json", contentType: "application/json", body: `[]`, expected: false},
		{name: "html content type", contentType: "text/html; charset=utf-8", body: `x`, expected: true},
		{name: "doctype without content type", body: "  <!DOCTYPE html><html>", expected: true},
		{name: "html tag", body: "<html lang=en>", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Header: http.Header{}, Body: []byte(tt.body)}
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.expected, r.LooksLikeHTML())
		})
	}
}

func TestResponse_DecodeJSON(t *testing.T) {
	r := &Response{Body: []byte(`{"id": 7}`)}
	var v struct {
		ID int `json:"id"`
	}
	require.NoError(t, r.DecodeJSON(&v))
	assert.Equal(t, 7, v.ID)

	bad := &Response{Body: []byte(`not json`)}
	err := bad.DecodeJSON(&v)
	e, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, integrations.KindConfig, e.Kind)
	assert.Contains(t, e.Message, "not json")
}

func TestClient_Do_ResponseSizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "at limit", body: `{"a":"12345"}`},
		{name: "over limit", body: `{"a":"123456"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(WithMaxResponseBytes(13))
			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
			require.NoError(t, err)

			resp, err := c.Do(req)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(resp.Body))
				return
			}

			assert.Nil(t, resp)
			e, ok := integrations.AsError(err)
			require.True(t, ok)
			assert.Equal(t, integrations.KindConfig, e.Kind)
			assert.Equal(t, "Response body exceeds size limit (limit 13 bytes)", e.Message)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "oversized responses are not retried")
		})
	}
}
