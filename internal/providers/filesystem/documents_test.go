package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDocuments(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		".hidden/a.md",
		"guide/b.md",
		"guide/deep/C.mdx",
		"notes.txt",
		"Readme.md",
		"empty/",
	)

	docs, err := NewTreeIndexer(Options{}).ListDocuments(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "guide", "b.md"),
		filepath.Join(root, "guide", "deep", "C.mdx"),
		filepath.Join(root, "Readme.md"),
	}, docs)
}

func TestListDocumentsMatchesTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a/b/c.md",
		"a/x.txt",
		"z/.y.md",
		"m.MD",
	)

	indexer := NewTreeIndexer(Options{})
	entries, err := indexer.BuildTree(context.Background(), root)
	require.NoError(t, err)
	docs, err := indexer.ListDocuments(context.Background(), root)
	require.NoError(t, err)

	var fromTree []string
	var walk func([]Entry)
	walk = func(level []Entry) {
		for _, e := range level {
			if e.IsDirectory {
				walk(e.Children)
			} else {
				fromTree = append(fromTree, e.Path)
			}
		}
	}
	walk(entries)

	assert.ElementsMatch(t, fromTree, docs)
}

func TestListDocumentsIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "drafts/a.md", "keep/b.md")

	filter, err := NewFilter(nil, []string{"drafts/**"})
	require.NoError(t, err)

	docs, err := NewTreeIndexer(Options{Filter: filter}).ListDocuments(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "keep", "b.md")}, docs)
}

func TestListDocumentsEmptyAndInvalid(t *testing.T) {
	root := t.TempDir()
	indexer := NewTreeIndexer(Options{})

	docs, err := indexer.ListDocuments(context.Background(), root)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	_, err = indexer.ListDocuments(context.Background(), filepath.Join(root, "missing"))
	assert.True(t, IsKind(err, KindInvalidRoot))

	file := filepath.Join(root, "f.md")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = indexer.ListDocuments(context.Background(), file)
	assert.True(t, IsKind(err, KindInvalidRoot))
}

func TestListDocumentsSymlinkLoopTerminates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/x.md")
	if err := os.Symlink(root, filepath.Join(root, "a", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	docs, err := NewTreeIndexer(Options{}).ListDocuments(context.Background(), root)
	require.NoError(t, err)
	assert.Contains(t, docs, filepath.Join(root, "a", "x.md"))
}
