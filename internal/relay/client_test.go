// ABOUTME: Tests for the gateway HTTP client.
// ABOUTME: Covers success passthrough and degraded replies on failure.

package relay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendMessageSuccess(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		threadID := "thread-42"
		json.NewEncoder(w).Encode(Reply{Text: "Hello there", ThreadID: &threadID})
	}))
	defer srv.Close()

	client := New(srv.URL, testLogger())
	reply := client.SendMessage(context.Background(), "user-1", "hi")

	assert.Equal(t, "user-1", gotBody.UserID)
	assert.Equal(t, "hi", gotBody.Message)
	assert.Equal(t, "Hello there", reply.Text)
	require.NotNil(t, reply.ThreadID)
	assert.Equal(t, "thread-42", *reply.ThreadID)
}

func TestSendMessageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, testLogger())
	reply := client.SendMessage(context.Background(), "user-1", "hi")

	assert.Equal(t, ConnectFailureText, reply.Text)
	assert.Nil(t, reply.ThreadID)
}

func TestSendMessageConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, testLogger())
	reply := client.SendMessage(context.Background(), "user-1", "hi")

	assert.Equal(t, ConnectFailureText, reply.Text)
	assert.Nil(t, reply.ThreadID)
}

func TestSendMessageMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := New(srv.URL, testLogger())
	reply := client.SendMessage(context.Background(), "user-1", "hi")

	assert.Equal(t, ConnectFailureText, reply.Text)
}

func TestSendMessageTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		json.NewEncoder(w).Encode(Reply{Text: "ok"})
	}))
	defer srv.Close()

	client := New(srv.URL+"/", testLogger())
	reply := client.SendMessage(context.Background(), "user-1", "hi")
	assert.Equal(t, "ok", reply.Text)
}

func TestResetThread(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"message": "Thread reset successfully", "userId": "user-7"})
	}))
	defer srv.Close()

	client := New(srv.URL, testLogger())
	client.ResetThread(context.Background(), "user-7")

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/thread/user-7", gotPath)
}

func TestResetThreadSwallowsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, testLogger())
	// Must not panic or surface anything.
	client.ResetThread(context.Background(), "user-7")
}
