package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative paths, "/" separated) under root.
// Paths ending in "/" create empty directories.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("# "+filepath.Base(p)+"\n"), 0o644))
	}
}

// names flattens a tree into "dir/child" style relative names in result order.
func names(entries []Entry, prefix string) []string {
	var out []string
	for _, e := range entries {
		name := prefix + e.Name
		if e.IsDirectory {
			out = append(out, name+"/")
			out = append(out, names(e.Children, name+"/")...)
			continue
		}
		out = append(out, name)
	}
	return out
}
