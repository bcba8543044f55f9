package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
)

// Registry manages providers and routes commands to them
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	tools     map[string]string // tool ID -> service ID
}

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		tools:     make(map[string]string),
	}
}

// Register adds a service provider. Tool IDs must be unique across providers.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[def.ID]; exists {
		return fmt.Errorf("service already registered: %s", def.ID)
	}
	for _, tool := range def.Tools {
		if owner, taken := r.tools[tool.ID]; taken {
			return fmt.Errorf("tool %s already registered by service %s", tool.ID, owner)
		}
	}

	r.providers[def.ID] = provider
	for _, tool := range def.Tools {
		r.tools[tool.ID] = def.ID
	}
	return nil
}

// Unregister removes a service provider and its tools
func (r *Registry) Unregister(serviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.providers, serviceID)
	for toolID, owner := range r.tools {
		if owner == serviceID {
			delete(r.tools, toolID)
		}
	}
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[serviceID]
	return p, ok
}

// Lookup finds the provider that owns a tool
func (r *Registry) Lookup(toolID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	serviceID, ok := r.tools[toolID]
	if !ok {
		return nil, false
	}
	return r.providers[serviceID], true
}

// List returns registered services sorted by ID, optionally filtered by category
func (r *Registry) List(category *types.Category) []types.Service {
	r.mu.RLock()
	services := make([]types.Service, 0, len(r.providers))
	for _, provider := range r.providers {
		def := provider.Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
	}
	r.mu.RUnlock()

	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Tools returns every registered tool sorted by ID
func (r *Registry) Tools() []types.Tool {
	var tools []types.Tool
	for _, svc := range r.List(nil) {
		tools = append(tools, svc.Tools...)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].ID < tools[j].ID })
	return tools
}

// Execute runs a tool. An unknown tool yields a failed result and an error.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	provider, ok := r.Lookup(toolID)
	if !ok {
		return &types.Result{
			Success: false,
			Error:   stringPtr(fmt.Sprintf("unknown command: %s", toolID)),
		}, fmt.Errorf("%w: %s", ErrUnknownCommand, toolID)
	}

	if params == nil {
		params = map[string]interface{}{}
	}
	return provider.Execute(ctx, toolID, params, appCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make(map[string]int)
	for _, provider := range r.providers {
		categories[string(provider.Definition().Category)]++
	}

	return map[string]interface{}{
		"total_services": len(r.providers),
		"total_tools":    len(r.tools),
		"categories":     categories,
	}
}

func stringPtr(s string) *string {
	return &s
}
