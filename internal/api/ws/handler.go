package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GriffinCanCode/sidenote/backend/internal/api/middleware"
	"github.com/GriffinCanCode/sidenote/backend/internal/events"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/sidenote/backend/internal/service"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/id"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/validation"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Frame types
const (
	FrameEvent  = "event"
	FrameResult = "result"
	FramePong   = "pong"
	FrameError  = "error"
	FrameSystem = "system"
)

// Client message types
const (
	MessagePing   = "ping"
	MessageInvoke = "invoke"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 32 << 20
	outboundQueue  = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || middleware.IsLocalOrigin(origin)
	},
}

// Handler manages websocket connections on the event stream
type Handler struct {
	registry *service.Registry
	hub      *events.Hub
	tracer   *tracing.Tracer
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(registry *service.Registry, hub *events.Hub, tracer *tracing.Tracer, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		registry: registry,
		hub:      hub,
		tracer:   tracer,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleConnection upgrades the request and serves the connection until
// the client leaves or the hub closes.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	clientID := uuid.NewString()
	sub := h.hub.Subscribe(clientID)
	log := h.logger.With(zap.String("client", clientID))
	log.Debug("websocket client connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	out := make(chan types.WSFrame, outboundQueue)
	writerDone := make(chan struct{})

	hello := types.WSFrame{
		Type:      FrameSystem,
		Message:   "connected",
		Payload:   map[string]string{"client_id": clientID},
		Timestamp: time.Now().UnixMilli(),
	}
	if err := h.write(conn, hello); err != nil {
		log.Debug("websocket write failed", zap.Error(err))
		cancel()
		sub.Close()
		conn.Close()
		return
	}

	go func() {
		defer close(writerDone)
		defer cancel()
		h.writeLoop(conn, sub, out, ctx.Done(), log)
	}()

	h.readLoop(ctx, conn, out, log)

	cancel()
	<-writerDone
	sub.Close()
	conn.Close()
	log.Debug("websocket client disconnected")
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- types.WSFrame, log *zap.Logger) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.metrics.RecordWSMessage("in", "invalid")
			h.enqueue(ctx, out, errorFrame("", "invalid message: "+err.Error()))
			continue
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		switch msg.Type {
		case MessagePing:
			h.enqueue(ctx, out, types.WSFrame{
				Type:      FramePong,
				RequestID: msg.RequestID,
				Timestamp: time.Now().UnixMilli(),
			})
		case MessageInvoke:
			h.enqueue(ctx, out, h.invoke(ctx, msg))
		default:
			h.enqueue(ctx, out, errorFrame(msg.RequestID, "unknown message type: "+msg.Type))
		}
	}
}

// invoke runs a command and wraps its result in a frame
func (h *Handler) invoke(ctx context.Context, msg types.WSMessage) types.WSFrame {
	if err := validation.ValidateRequestID(msg.RequestID); err != nil {
		return errorFrame("", err.Error())
	}
	if err := validation.ValidateCommand(msg.Command); err != nil {
		return errorFrame(msg.RequestID, err.Error())
	}
	if err := validation.ValidateParamsDepth(msg.Params, validation.MaxParamsDepth); err != nil {
		return errorFrame(msg.RequestID, err.Error())
	}

	requestID := msg.RequestID
	if requestID == "" {
		requestID = id.NewRequestID().String()
	}

	span, ctx := h.tracer.StartSpan(ctx, "ws invoke "+msg.Command)
	span.SetTag("command", msg.Command)
	span.SetTag("request_id", requestID)
	defer func() {
		span.Finish()
		h.tracer.Submit(span)
	}()

	result, err := h.registry.Execute(ctx, msg.Command, msg.Params, &types.Context{
		RequestID: requestID,
		Origin:    "ws",
	})
	if err != nil && !errors.Is(err, service.ErrUnknownCommand) {
		span.SetError(err)
		return errorFrame(requestID, err.Error())
	}
	if err != nil {
		span.SetError(err)
	}

	return types.WSFrame{
		Type:      FrameResult,
		RequestID: requestID,
		Result:    result,
		Timestamp: time.Now().UnixMilli(),
	}
}

// writeLoop is the only goroutine that writes to conn
func (h *Handler) writeLoop(conn *websocket.Conn, sub *events.Subscription, out <-chan types.WSFrame, done <-chan struct{}, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.writeClose(conn)
			return
		case e, ok := <-sub.C:
			if !ok {
				// Hub closed; ending the connection unblocks the reader.
				h.writeClose(conn)
				conn.Close()
				return
			}
			if err := h.write(conn, eventFrame(e)); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				conn.Close()
				return
			}
		case frame := <-out:
			if err := h.write(conn, frame); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, frame types.WSFrame) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	h.metrics.RecordWSMessage("out", frame.Type)
	return nil
}

func (h *Handler) writeClose(conn *websocket.Conn) {
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

// enqueue hands a frame to the writer, giving up once the connection ends
func (h *Handler) enqueue(ctx context.Context, out chan<- types.WSFrame, frame types.WSFrame) {
	select {
	case out <- frame:
	case <-ctx.Done():
	}
}

func eventFrame(e events.Event) types.WSFrame {
	return types.WSFrame{
		Type:      FrameEvent,
		Event:     e.Name,
		Payload:   e.Payload,
		Timestamp: e.Timestamp.UnixMilli(),
	}
}

func errorFrame(requestID, msg string) types.WSFrame {
	return types.WSFrame{
		Type:      FrameError,
		RequestID: requestID,
		Message:   msg,
		Timestamp: time.Now().UnixMilli(),
	}
}
