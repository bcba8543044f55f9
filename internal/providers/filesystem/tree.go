package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Directory skip reasons reported to metrics.
const (
	skipUnreadable = "unreadable"
	skipCycle      = "cycle"
	skipIgnored    = "ignored"
)

// Options configures the indexer, the document listing and the content store.
type Options struct {
	FS      FileSystem
	Filter  *Filter
	Logger  *zap.Logger
	Metrics *monitoring.Metrics

	// SkipSymlinks treats symbolic links as plain files instead of
	// resolving them. Links are followed by default.
	SkipSymlinks bool
}

func (o Options) withDefaults() Options {
	if o.FS == nil {
		o.FS = OSFileSystem{}
	}
	if o.Filter == nil {
		o.Filter = DefaultFilter()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// TreeIndexer builds filtered, sorted document trees. It holds no state
// between calls.
type TreeIndexer struct {
	opts Options
}

// NewTreeIndexer creates an indexer.
func NewTreeIndexer(opts Options) *TreeIndexer {
	return &TreeIndexer{opts: opts.withDefaults()}
}

// dirFrame is one directory on the traversal stack.
type dirFrame struct {
	name      string
	path      string
	canonical string
	pending   []fs.DirEntry
	entries   []Entry
}

// BuildTree scans rootPath and returns its document tree: hidden entries
// are skipped, only indexed extensions are kept, directories without
// documents are pruned and siblings are sorted directories-first by
// case-insensitive name.
//
// Only a missing, non-directory or unlistable root fails the call.
// Subdirectories that cannot be listed are left out of the result.
func (t *TreeIndexer) BuildTree(ctx context.Context, rootPath string) ([]Entry, error) {
	start := time.Now()
	fsys := t.opts.FS
	log := t.opts.Logger

	if err := validateRoot(fsys, rootPath); err != nil {
		return nil, err
	}

	children, err := fsys.ReadDir(rootPath)
	if err != nil {
		return nil, newError(KindInvalidRoot, rootPath, "failed to read directory", err)
	}

	canonical, err := fsys.EvalSymlinks(rootPath)
	if err != nil {
		canonical = filepath.Clean(rootPath)
	}

	stack := []*dirFrame{{path: rootPath, canonical: canonical, pending: children}}
	onPath := map[string]bool{canonical: true}
	var result []Entry
	total := 0

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if len(top.pending) == 0 {
			stack = stack[:len(stack)-1]
			delete(onPath, top.canonical)
			sortEntries(top.entries)

			if len(stack) == 0 {
				result = top.entries
				break
			}
			if len(top.entries) > 0 {
				parent := stack[len(stack)-1]
				parent.entries = append(parent.entries, Entry{
					Name:        top.name,
					Path:        top.path,
					IsDirectory: true,
					Children:    top.entries,
				})
				total++
			}
			continue
		}

		de := top.pending[0]
		top.pending = top.pending[1:]

		name := de.Name()
		if t.opts.Filter.IsHidden(name) {
			continue
		}
		childPath := filepath.Join(top.path, name)

		isDir, isLink := t.classify(de, childPath)
		if !isDir {
			if t.opts.Filter.IsDocument(name) && !t.opts.Filter.Ignored(rootPath, childPath) {
				top.entries = append(top.entries, Entry{Name: name, Path: childPath})
				total++
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if t.opts.Filter.Ignored(rootPath, childPath) {
			t.opts.Metrics.RecordDirectorySkipped(skipIgnored)
			continue
		}

		childCanonical := filepath.Join(top.canonical, name)
		if isLink {
			resolved, err := fsys.EvalSymlinks(childPath)
			if err != nil {
				log.Debug("skipping unresolvable link", zap.String("path", childPath), zap.Error(err))
				t.opts.Metrics.RecordDirectorySkipped(skipUnreadable)
				continue
			}
			childCanonical = resolved
		}
		if onPath[childCanonical] {
			log.Debug("skipping directory cycle",
				zap.String("path", childPath),
				zap.String("target", childCanonical))
			t.opts.Metrics.RecordDirectorySkipped(skipCycle)
			continue
		}

		grandchildren, err := fsys.ReadDir(childPath)
		if err != nil {
			log.Debug("skipping unreadable directory", zap.String("path", childPath), zap.Error(err))
			t.opts.Metrics.RecordDirectorySkipped(skipUnreadable)
			continue
		}

		onPath[childCanonical] = true
		stack = append(stack, &dirFrame{
			name:      name,
			path:      childPath,
			canonical: childCanonical,
			pending:   grandchildren,
		})
	}

	if result == nil {
		result = []Entry{}
	}

	t.opts.Metrics.RecordTreeBuild(time.Since(start), total)
	log.Debug("tree built",
		zap.String("root", rootPath),
		zap.Int("entries", total),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// classify reports whether de should be descended into and whether it is a
// symbolic link. Links whose target cannot be stat'ed count as files.
func (t *TreeIndexer) classify(de fs.DirEntry, path string) (isDir, isLink bool) {
	if de.IsDir() {
		return true, false
	}
	if de.Type()&fs.ModeSymlink == 0 || t.opts.SkipSymlinks {
		return false, false
	}
	info, err := t.opts.FS.Stat(path)
	if err != nil {
		return false, true
	}
	return info.IsDir(), true
}

// validateRoot checks that root exists and is a directory.
func validateRoot(fsys FileSystem, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(KindInvalidRoot, root, "path does not exist", nil)
		}
		return newError(KindInvalidRoot, root, "path is not accessible", err)
	}
	if !info.IsDir() {
		return newError(KindInvalidRoot, root, "path is not a directory", nil)
	}
	return nil
}

// sortEntries orders directories before files, then by case-insensitive
// name, falling back to the raw name for a stable order.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDirectory != b.IsDirectory {
			return a.IsDirectory
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}
