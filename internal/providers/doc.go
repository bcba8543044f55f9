// Package providers implements the command providers registered with the
// service registry.
//
// Available Providers:
//   - filesystem: tree indexing, document content, change watching
//   - System: backend info, launch folder, ping
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Executes a tool with parameters and context
//
// Example Usage:
//
//	sys := providers.NewSystem(version, hub)
//	result, err := sys.Execute(ctx, "launch_folder", nil, appCtx)
package providers
