// Package ws serves the event stream at GET /events.
//
// Each connection subscribes to the event hub and receives frames:
//
//	{"type":"event","event":"file-changed","payload":"/notes/a.md","timestamp":...}
//	{"type":"event","event":"open-folder","payload":"/notes","timestamp":...}
//
// Clients may also send frames:
//
//	{"type":"ping","request_id":"1"}                        -> {"type":"pong",...}
//	{"type":"invoke","request_id":"2","command":"read_file",
//	 "params":{"path":"/notes/a.md"}}                       -> {"type":"result",...}
//
// A single writer goroutine owns the connection; the reader hands replies
// to it through a queue. The last open-folder event is replayed to every
// new connection.
package ws
