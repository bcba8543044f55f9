package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/sidenote/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/sidenote/backend/internal/service"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	provider := filesystem.NewProvider(filesystem.Options{Metrics: metrics}, nil, nil)
	registry := service.NewRegistry()
	require.NoError(t, registry.Register(provider))
	t.Cleanup(func() {
		provider.Watcher().Close()
		metrics.Close()
	})

	h := NewHandlers(registry, metrics, "test", nil)
	router := gin.New()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/commands", h.ListCommands)
	router.POST("/invoke/:command", h.Invoke)
	router.GET("/metrics", MetricsHandler(reg))
	router.GET("/metrics/json", h.Stats)
	return router
}

func invoke(t *testing.T, router *gin.Engine, command string, body interface{}) (*httptest.ResponseRecorder, types.Result) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, "/invoke/"+command, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var result types.Result
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	return w, result
}

func TestRoot(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "online")
}

func TestInvokeGetFileTree(t *testing.T) {
	router := setupRouter(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "a.md"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("x"), 0o644))

	w, result := invoke(t, router, filesystem.CmdGetFileTree, map[string]string{"root_path": root})

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, result.Success)
	entries, ok := result.Data["entries"].([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 1)

	docs := entries[0].(map[string]interface{})
	assert.Equal(t, "docs", docs["name"])
	assert.Equal(t, true, docs["is_directory"])
	children := docs["children"].([]interface{})
	require.Len(t, children, 1)
	file := children[0].(map[string]interface{})
	assert.Equal(t, "a.md", file["name"])
	_, hasChildren := file["children"]
	assert.False(t, hasChildren, "files carry no children key")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestInvokeInvalidRoot(t *testing.T) {
	router := setupRouter(t)

	w, result := invoke(t, router, filesystem.CmdGetFileTree, map[string]string{
		"root_path": filepath.Join(t.TempDir(), "missing"),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "does not exist")
	assert.Equal(t, string(filesystem.KindInvalidRoot), result.Data["kind"])
}

func TestInvokeWriteThenRead(t *testing.T) {
	router := setupRouter(t)
	path := filepath.Join(t.TempDir(), "new.md")

	_, wrote := invoke(t, router, filesystem.CmdWriteFile, map[string]string{"path": path, "content": "# Title\n"})
	require.True(t, wrote.Success)

	_, read := invoke(t, router, filesystem.CmdReadFile, map[string]string{"path": path})
	require.True(t, read.Success)
	assert.Equal(t, "# Title\n", read.Data["content"])
}

func TestInvokeEmptyBody(t *testing.T) {
	router := setupRouter(t)

	w, result := invoke(t, router, filesystem.CmdListWatches, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, result.Success)
	assert.EqualValues(t, 0, result.Data["count"])
}

func TestInvokeUnknownCommand(t *testing.T) {
	router := setupRouter(t)

	w, result := invoke(t, router, "delete_everything", map[string]string{})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "unknown command")
}

func TestInvokeMalformedBody(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/invoke/read_file", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCommands(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/commands", nil))

	require.Equal(t, http.StatusOK, w.Code)
	for _, cmd := range []string{
		filesystem.CmdGetFileTree,
		filesystem.CmdReadFile,
		filesystem.CmdWriteFile,
		filesystem.CmdWatchFile,
	} {
		assert.Contains(t, w.Body.String(), `"`+cmd+`"`)
	}
}

func TestMetricsEndpoints(t *testing.T) {
	router := setupRouter(t)
	invoke(t, router, filesystem.CmdListWatches, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sidenote_")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics/json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total_commands")
}
