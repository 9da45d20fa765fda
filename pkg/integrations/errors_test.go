package integrations

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusToError_BoundaryCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected ErrorKind
	}{
		{name: "bad request", status: 400, expected: KindAPI},
		{name: "unauthorized", status: 401, expected: KindAuth},
		{name: "forbidden", status: 403, expected: KindAuth},
		{name: "not found", status: 404, expected: KindNotFound},
		{name: "request timeout", status: 408, expected: KindAPI},
		{name: "too many requests", status: 429, expected: KindAPI},
		{name: "internal server error", status: 500, expected: KindAPI},
		{name: "service unavailable", status: 503, expected: KindAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StatusToError(tt.status, "boom")
			assert.Equal(t, tt.expected, err.Kind)
			if tt.expected == KindAPI {
				assert.Equal(t, tt.status, err.Status)
				assert.Equal(t, "boom", err.Message)
			}
		})
	}
}

func TestStatusToError_TotalAndDeterministic(t *testing.T) {
	for status := 100; status <= 599; status++ {
		first := StatusToError(status, "")
		second := StatusToError(status, "")
		require.Equal(t, first, second, "status %d", status)

		switch status {
		case 401, 403:
			assert.Equal(t, KindAuth, first.Kind, "status %d", status)
		case 404:
			assert.Equal(t, KindNotFound, first.Kind, "status %d", status)
		default:
			assert.Equal(t, KindAPI, first.Kind, "status %d", status)
			assert.Equal(t, status, first.Status)
		}
	}
}

func TestStatusToError_DefaultMessage(t *testing.T) {
	err := StatusToError(502, "")
	assert.Equal(t, "HTTP 502", err.Message)
	assert.Equal(t, "API error (status 502): HTTP 502", err.Error())
}

func TestError_Display(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{name: "network", err: NetworkError("Connection refused"), expected: "Network error: Connection refused"},
		{name: "auth", err: AuthError("Invalid token"), expected: "Authentication error: Invalid token"},
		{name: "api", err: APIError(418, "teapot"), expected: "API error (status 418): teapot"},
		{name: "config", err: ConfigError("missing token"), expected: "Configuration error: missing token"},
		{name: "not found", err: NotFound(), expected: "Resource not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_JSONTaggedUnion(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{name: "network", err: NetworkError("down"), expected: `{"type":"NetworkError","message":"down"}`},
		{name: "auth", err: StatusToError(401, "nope"), expected: `{"type":"AuthError","message":"nope"}`},
		{name: "api", err: APIError(503, "busy"), expected: `{"type":"ApiError","status":503,"message":"busy"}`},
		{name: "config", err: ConfigError("bad"), expected: `{"type":"ConfigError","message":"bad"}`},
		{name: "not found", err: StatusToError(404, "gone"), expected: `{"type":"NotFound"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.err)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestError_UnmarshalRejectsUnknownType(t *testing.T) {
	var e Error
	assert.Error(t, json.Unmarshal([]byte(`{"type":"Boom"}`), &e))

	require.NoError(t, json.Unmarshal([]byte(`{"type":"ApiError","status":500,"message":"x"}`), &e))
	assert.Equal(t, APIError(500, "x"), &e)
}

func TestError_IsMatchesKind(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", StatusToError(404, ""))
	assert.True(t, errors.Is(wrapped, NotFound()))
	assert.False(t, errors.Is(wrapped, AuthError("")))
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestFromTransportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "deadline", err: context.DeadlineExceeded, expected: "Request timed out"},
		{name: "net timeout", err: timeoutError{}, expected: "Request timed out"},
		{name: "dial", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, expected: "Failed to connect to server"},
		{name: "cancelled", err: context.Canceled, expected: "Request cancelled"},
		{name: "other", err: errors.New("tls handshake"), expected: "tls handshake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromTransportError(tt.err)
			assert.Equal(t, KindNetwork, e.Kind)
			assert.Equal(t, tt.expected, e.Message)
		})
	}
}

func TestClassify_KeepsTaxonomyErrors(t *testing.T) {
	original := ConfigError("x")
	assert.Same(t, original, Classify(fmt.Errorf("wrapped: %w", original)))
	assert.Nil(t, Classify(nil))
}

func TestParseError_TruncatesSnippet(t *testing.T) {
	body := make([]byte, 0, 500)
	for i := 0; i < 500; i++ {
		body = append(body, 'a')
	}
	e := ParseError(errors.New("invalid character"), body)
	assert.Equal(t, KindConfig, e.Kind)
	assert.Contains(t, e.Message, "invalid character")
	assert.Contains(t, e.Message, "...")
	assert.Less(t, len(e.Message), 300)
}

func TestIntegration_CredentialsKey(t *testing.T) {
	i := Integration{ID: "gl-1"}
	assert.Equal(t, "gl-1", i.CredentialsKey())

	i.CredentialsRef = StringPtr("")
	assert.Equal(t, "gl-1", i.CredentialsKey())

	i.CredentialsRef = StringPtr("shared-gitlab")
	assert.Equal(t, "shared-gitlab", i.CredentialsKey())
}

func TestParseIntegrationType(t *testing.T) {
	typ, err := ParseIntegrationType("GitLab")
	require.NoError(t, err)
	assert.Equal(t, TypeGitLab, typ)
	assert.Equal(t, "GitLab", typ.DisplayName())

	_, err = ParseIntegrationType("bitbucket")
	assert.Error(t, err)
}
