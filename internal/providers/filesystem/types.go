package filesystem

import (
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
)

// Entry is one node of a document tree. Children is set only for
// directories and is never empty for an included directory.
type Entry struct {
	Name        string  `json:"name" yaml:"name" toml:"name"`
	Path        string  `json:"path" yaml:"path" toml:"path"`
	IsDirectory bool    `json:"is_directory" yaml:"is_directory" toml:"is_directory"`
	Children    []Entry `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Count returns the number of nodes in entries, descendants included.
func Count(entries []Entry) int {
	n := len(entries)
	for i := range entries {
		n += Count(entries[i].Children)
	}
	return n
}

// Success helper
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure helper. The error kind travels in Data so transports can branch
// on it without parsing the message.
func Failure(err error) (*types.Result, error) {
	msg := err.Error()
	result := &types.Result{Success: false, Error: &msg}
	if kind := KindOf(err); kind != "" {
		result.Data = map[string]interface{}{"kind": string(kind)}
	}
	return result, nil
}
