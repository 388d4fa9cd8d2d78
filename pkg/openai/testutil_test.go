package openai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestClient creates a client pointed at a throwaway server running the
// given handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

// requireAuth asserts the standard headers every request must carry.
func requireAuth(t *testing.T, r *http.Request) {
	t.Helper()
	require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
}

// writeJSON responds with a canned JSON body.
func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}
