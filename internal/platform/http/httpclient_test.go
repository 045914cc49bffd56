package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{name: "configured timeout", timeout: 30 * time.Second, expectedTimeout: 30 * time.Second},
		{name: "zero falls back to default", timeout: 0, expectedTimeout: DefaultModelTimeout},
		{name: "negative falls back to default", timeout: -time.Second, expectedTimeout: DefaultModelTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewModelClient(tt.timeout)

			assert.Equal(t, tt.expectedTimeout, c.Timeout)
			tr, ok := c.Transport.(*http.Transport)
			require.True(t, ok)
			assert.Zero(t, tr.ResponseHeaderTimeout)
			assert.Equal(t, 8, tr.MaxIdleConnsPerHost)
			assert.True(t, tr.ForceAttemptHTTP2)
		})
	}
}

// TestNewModelClient_Timeout は応答の遅いモデルAPIがクライアントのタイムアウトで打ち切られることを検証します。
func TestNewModelClient_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	resp, err := NewModelClient(50 * time.Millisecond).Get(srv.URL)
	if resp != nil {
		_ = resp.Body.Close()
	}

	assert.Error(t, err)
}
