package filesystem

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the document extensions indexed when none are configured.
var DefaultExtensions = []string{"md", "mdx"}

// Filter decides which directory entries take part in indexing.
type Filter struct {
	extensions map[string]struct{}
	ignore     []string
}

// NewFilter builds a filter from an extension list (case-insensitive,
// leading dot optional) and doublestar ignore patterns evaluated against
// slash-separated paths relative to the indexed root.
func NewFilter(extensions, ignore []string) (*Filter, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	f := &Filter{extensions: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext != "" {
			f.extensions[ext] = struct{}{}
		}
	}

	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
		f.ignore = append(f.ignore, pattern)
	}
	return f, nil
}

// DefaultFilter indexes .md and .mdx files and ignores nothing.
func DefaultFilter() *Filter {
	f, _ := NewFilter(DefaultExtensions, nil)
	return f
}

// IsHidden reports whether name carries the hidden-file marker.
func (f *Filter) IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsDocument reports whether a file name has an indexed extension.
func (f *Filter) IsDocument(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	_, ok := f.extensions[strings.ToLower(ext[1:])]
	return ok
}

// Ignored reports whether the entry at path (below root) matches an ignore pattern.
func (f *Filter) Ignored(root, path string) bool {
	if len(f.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range f.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
