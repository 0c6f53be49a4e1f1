// ABOUTME: Tests for the embedded web UI file server.
// ABOUTME: Verifies the index page, content types, and cache headers.

package assets

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileServerServesIndex(t *testing.T) {
	srv := httptest.NewServer(FileServer())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestFileServerContentTypes(t *testing.T) {
	srv := httptest.NewServer(FileServer())
	defer srv.Close()

	tests := []struct {
		path        string
		contentType string
	}{
		{"/script.js", "application/javascript"},
		{"/style.css", "text/css; charset=utf-8"},
	}

	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, tt.path)
		assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"), tt.path)
		assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"), tt.path)
	}
}

func TestFileServerUnknownPath(t *testing.T) {
	srv := httptest.NewServer(FileServer())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/missing.txt")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
