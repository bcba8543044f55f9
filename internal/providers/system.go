package providers

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/GriffinCanCode/sidenote/backend/internal/events"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
)

// FolderSource reports the folder the app was launched with.
type FolderSource interface {
	LastFolder() (events.Event, bool)
}

// System provides host information and launch state
type System struct {
	startTime time.Time
	folders   FolderSource
	version   string
}

// NewSystem creates a system provider. folders may be nil.
func NewSystem(version string, folders FolderSource) *System {
	return &System{
		startTime: time.Now(),
		folders:   folders,
		version:   version,
	}
}

// Definition returns service metadata
func (s *System) Definition() types.Service {
	return types.Service{
		ID:          "system",
		Name:        "System Service",
		Description: "Host information and launch state",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"info",
			"launch",
		},
		Tools: []types.Tool{
			{
				ID:          "system_info",
				Name:        "System Info",
				Description: "Get backend runtime information",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "launch_folder",
				Name:        "Launch Folder",
				Description: "Folder passed on the command line, if any",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "ping",
				Name:        "Ping",
				Description: "Test backend availability",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a system operation
func (s *System) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "system_info":
		return s.info()
	case "launch_folder":
		return s.launchFolder()
	case "ping":
		return s.ping()
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *System) info() (*types.Result, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return success(map[string]interface{}{
		"version":        s.version,
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
		"cpus":           runtime.NumCPU(),
		"goroutines":     runtime.NumGoroutine(),
		"memory_alloc":   m.Alloc / 1024 / 1024, // MB
		"memory_sys":     m.Sys / 1024 / 1024,   // MB
		"uptime_seconds": time.Since(s.startTime).Seconds(),
	})
}

func (s *System) launchFolder() (*types.Result, error) {
	if s.folders == nil {
		return success(map[string]interface{}{"path": nil})
	}
	e, ok := s.folders.LastFolder()
	if !ok {
		return success(map[string]interface{}{"path": nil})
	}
	return success(map[string]interface{}{"path": e.Payload})
}

func (s *System) ping() (*types.Result, error) {
	return success(map[string]interface{}{
		"pong":      true,
		"timestamp": time.Now().Unix(),
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
