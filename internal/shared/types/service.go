package types

// Category groups services in the command catalog
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategorySystem     Category = "system"
)

// Service describes a provider and the commands it exposes
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool is a single invokable command. The ID is the command name the
// frontend invokes (get_file_tree, read_file, ...).
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter describes a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context carries per-invocation metadata
type Context struct {
	RequestID string `json:"request_id,omitempty"`
	Origin    string `json:"origin,omitempty"` // "http", "ws", "cli"
}

// Result is the outcome of a command. Failures carry a human-readable
// message in Error and, when known, the error kind in Data["kind"].
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}
