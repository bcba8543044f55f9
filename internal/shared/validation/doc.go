// Package validation checks values arriving from the webview before they
// reach a provider: command names, request IDs, path parameters and the
// nesting depth of parameter objects.
package validation
