package ghapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{
		BaseURL:    srv.URL,
		Token:      "test-token",
		Repository: "DataDeltas/autoCMSCheck",
		Branch:     "main",
		UserAgent:  "autoCMSCheck-test",
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetContents_DecodesWrappedBase64(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The API wraps base64 payloads at 60 columns; the client must strip
	// the line breaks before decoding.
	encoded := base64.StdEncoding.EncodeToString([]byte("1756400000\n3\n"))
	wrapped := encoded[:8] + "\n" + encoded[8:]
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/DataDeltas/autoCMSCheck/contents/session_state.txt", r.URL.Path)
		require.Equal(t, "main", r.URL.Query().Get("ref"))
		require.Equal(t, "token test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"content": wrapped, "sha": "abc123"})
	})

	// --- Act ---
	data, sha, err := newTestClient(t, handler).GetContents(context.Background(), "session_state.txt")

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "1756400000\n3\n", string(data))
	require.Equal(t, "abc123", sha)
}

func TestGetContents_NotFound(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, _, err := newTestClient(t, handler).GetContents(context.Background(), "missing.txt")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetContents_RateLimited(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := newTestClient(t, handler).GetContents(context.Background(), "session_state.txt")

	require.ErrorIs(t, err, ErrRateLimited)
}

func TestPutContents_SendsShaWhenOverwriting(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var body map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"content":{"sha":"newsha"}}`)
	})

	// --- Act ---
	sha, err := newTestClient(t, handler).PutContents(
		context.Background(), "session_state.txt", []byte("1756400000\n4\n"), "oldsha", "Update session_state.txt")

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "newsha", sha)
	require.Equal(t, "oldsha", body["sha"])
	require.Equal(t, "main", body["branch"])
	decoded, decErr := base64.StdEncoding.DecodeString(body["content"])
	require.NoError(t, decErr)
	require.Equal(t, "1756400000\n4\n", string(decoded))
}

func TestPutContents_OmitsShaWhenCreating(t *testing.T) {
	t.Parallel()

	var body map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"content":{"sha":"firstsha"}}`)
	})

	sha, err := newTestClient(t, handler).PutContents(
		context.Background(), "session_state.txt", []byte("1756400000\n1\n"), "", "Create session_state.txt")

	require.NoError(t, err)
	require.Equal(t, "firstsha", sha)
	_, hasSHA := body["sha"]
	require.False(t, hasSHA)
}

func TestDeleteContents(t *testing.T) {
	t.Parallel()

	var body map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	})

	err := newTestClient(t, handler).DeleteContents(
		context.Background(), "session_state.txt", "oldsha", "Remove session_state.txt")

	require.NoError(t, err)
	require.Equal(t, "oldsha", body["sha"])
}

func TestCountInProgressRuns(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/DataDeltas/autoCMSCheck/actions/workflows/check.yml/runs", r.URL.Path)
		require.Equal(t, "in_progress", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count":2}`)
	})

	count, err := newTestClient(t, handler).CountInProgressRuns(context.Background(), "check.yml")

	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	var body map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/repos/DataDeltas/autoCMSCheck/dispatches", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	})

	err := newTestClient(t, handler).Dispatch(context.Background(), "continue-session")

	require.NoError(t, err)
	require.Equal(t, "continue-session", body["event_type"])
}

func TestDispatch_Rejected(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := newTestClient(t, handler).Dispatch(context.Background(), "continue-session")

	require.Error(t, err)
}
