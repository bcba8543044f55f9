package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Development = true

	srv, err := NewServer(cfg, nil, "test")
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestNewServerRejectsBadIgnorePattern(t *testing.T) {
	cfg := config.Default()
	cfg.Index.Ignore = []string{"[unclosed"}

	_, err := NewServer(cfg, nil, "test")
	assert.Error(t, err)
}

func TestRoutesRegistered(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/health", "/commands", "/metrics", "/metrics/json"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestResponsesAreCompressed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestAnnounceFeedsLaunchFolder(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()

	srv.Announce(context.Background(), dir)

	req := httptest.NewRequest(http.MethodPost, "/invoke/launch_folder", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result types.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Success)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, result.Data["path"])
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
