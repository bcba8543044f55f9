package types

// InvokeRequest is the HTTP body of POST /invoke/:command. The fields are
// the command parameters, exactly as the webview passes them to invoke.
type InvokeRequest map[string]interface{}

// WSMessage is a frame sent by a websocket client
type WSMessage struct {
	Type      string                 `json:"type"` // "ping", "invoke"
	RequestID string                 `json:"request_id,omitempty"`
	Command   string                 `json:"command,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

// WSFrame is a frame sent to a websocket client
type WSFrame struct {
	Type      string      `json:"type"` // "event", "result", "pong", "error"
	Event     string      `json:"event,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Result    *Result     `json:"result,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp int64       `json:"timestamp"` // unix milliseconds
}
