package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/sidenote/backend/internal/service"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/id"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDHeader carries the ID assigned to each invocation
const RequestIDHeader = "X-Request-ID"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	version  string
	logger   *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics, version string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: registry,
		metrics:  metrics,
		version:  version,
		logger:   logger,
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "sidenote-core",
		"version": h.version,
	})
}

// Health handles the detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"metrics":          h.metrics.Snapshot(),
	})
}

// ListCommands lists every invokable command grouped by service
func (h *Handlers) ListCommands(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// Invoke runs one command. The JSON body holds the command parameters.
// Command failures are reported in the result with status 200; only an
// unknown command or an unreadable body changes the status code.
func (h *Handlers) Invoke(c *gin.Context) {
	command := c.Param("command")
	if err := validation.ValidateCommand(command); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var params types.InvokeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid request body: " + err.Error(),
			})
			return
		}
	}

	if err := validation.ValidateParamsDepth(params, validation.MaxParamsDepth); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	requestID := id.NewRequestID()
	c.Header(RequestIDHeader, requestID.String())

	result, err := h.registry.Execute(c.Request.Context(), command, params, &types.Context{
		RequestID: requestID.String(),
		Origin:    "http",
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownCommand) {
			c.JSON(http.StatusNotFound, result)
			return
		}
		h.logger.Error("command failed unexpectedly",
			zap.String("command", command),
			zap.String("request_id", requestID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
