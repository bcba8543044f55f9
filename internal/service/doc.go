// Package service provides the command registry.
//
// Providers describe themselves with a types.Service listing their tools;
// the registry indexes every tool ID and routes Execute calls to the owning
// provider. Tool IDs are the command names the webview invokes
// (get_file_tree, read_file, ...), so they must be unique across providers.
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(filesystemProvider)
//	result, err := registry.Execute(ctx, "read_file", params, appCtx)
package service
