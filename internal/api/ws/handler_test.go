package ws

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/sidenote/backend/internal/events"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/sidenote/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/sidenote/backend/internal/service"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server  *httptest.Server
	hub     *events.Hub
	watcher *filesystem.ChangeWatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	hub := events.NewHub(16, nil, metrics)
	tracer := tracing.New("test", nil)

	provider := filesystem.NewProvider(filesystem.Options{Metrics: metrics}, nil, hub)
	registry := service.NewRegistry()
	require.NoError(t, registry.Register(provider))

	router := gin.New()
	router.GET("/events", NewHandler(registry, hub, tracer, metrics, nil).HandleConnection)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		provider.Watcher().Close()
		hub.Close()
		tracer.Close()
		metrics.Close()
	})
	return &fixture{server: server, hub: hub, watcher: provider.Watcher()}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	hello := readFrame(t, conn)
	require.Equal(t, FrameSystem, hello.Type)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg types.WSMessage) {
	t.Helper()
	data, err := sonic.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readFrame(t *testing.T, conn *websocket.Conn) types.WSFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame types.WSFrame
	require.NoError(t, sonic.Unmarshal(data, &frame))
	return frame
}

// readUntil skips frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, frameType string) types.WSFrame {
	t.Helper()
	for i := 0; i < 20; i++ {
		frame := readFrame(t, conn)
		if frame.Type == frameType {
			return frame
		}
	}
	t.Fatalf("no %s frame received", frameType)
	return types.WSFrame{}
}

func TestPingPong(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, types.WSMessage{Type: MessagePing, RequestID: "p1"})

	frame := readUntil(t, conn, FramePong)
	assert.Equal(t, "p1", frame.RequestID)
}

func TestUnknownMessageType(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, types.WSMessage{Type: "shout"})

	frame := readUntil(t, conn, FrameError)
	assert.Contains(t, frame.Message, "unknown message type")
}

func TestInvokeReadFile(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# hi"), 0o644))

	send(t, conn, types.WSMessage{
		Type:      MessageInvoke,
		RequestID: "r1",
		Command:   filesystem.CmdReadFile,
		Params:    map[string]interface{}{"path": path},
	})

	frame := readUntil(t, conn, FrameResult)
	assert.Equal(t, "r1", frame.RequestID)
	require.NotNil(t, frame.Result)
	assert.True(t, frame.Result.Success)
	assert.Equal(t, "# hi", frame.Result.Data["content"])
}

func TestInvokeUnknownCommand(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, types.WSMessage{Type: MessageInvoke, RequestID: "r2", Command: "format_disk"})

	frame := readUntil(t, conn, FrameResult)
	require.NotNil(t, frame.Result)
	assert.False(t, frame.Result.Success)
	require.NotNil(t, frame.Result.Error)
	assert.Contains(t, *frame.Result.Error, "unknown command")
}

func TestWatchDeliversFileChanged(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	path := filepath.Join(t.TempDir(), "watched.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	send(t, conn, types.WSMessage{
		Type:    MessageInvoke,
		Command: filesystem.CmdWatchFile,
		Params:  map[string]interface{}{"path": path},
	})
	result := readUntil(t, conn, FrameResult)
	require.NotNil(t, result.Result)
	require.True(t, result.Result.Success)

	send(t, conn, types.WSMessage{
		Type:    MessageInvoke,
		Command: filesystem.CmdWriteFile,
		Params:  map[string]interface{}{"path": path, "content": "two"},
	})

	frame := readUntil(t, conn, FrameEvent)
	assert.Equal(t, events.FileChanged, frame.Event)
	assert.Equal(t, path, frame.Payload)
}

func TestOpenFolderReplayedOnConnect(t *testing.T) {
	f := newFixture(t)
	f.hub.Emit(events.New(events.OpenFolder, "/notes"))

	conn := f.dial(t)

	frame := readUntil(t, conn, FrameEvent)
	assert.Equal(t, events.OpenFolder, frame.Event)
	assert.Equal(t, "/notes", frame.Payload)
}

func TestSubscriptionReleasedOnDisconnect(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	assert.Equal(t, 1, f.hub.Subscribers())

	conn.Close()

	assert.Eventually(t, func() bool { return f.hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
