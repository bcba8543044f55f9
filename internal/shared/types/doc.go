// Package types provides shared data structures for the Sidenote backend.
//
// Core Types:
//   - Service, Tool, Parameter: command catalog entries
//   - Context: per-invocation metadata
//   - Result: standard command result
//
// Transport Types:
//   - InvokeRequest: HTTP command parameters
//   - WSMessage, WSFrame: websocket frames in each direction
package types
