package filesystem

import (
	"context"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// ListDocuments returns the paths of every indexed document below root as
// a flat list sorted case-insensitively. It applies the same hidden,
// extension and ignore rules as BuildTree but walks directories in
// parallel, so it is the cheaper choice when no tree shape is needed.
func (t *TreeIndexer) ListDocuments(ctx context.Context, root string) ([]string, error) {
	if err := validateRoot(t.opts.FS, root); err != nil {
		return nil, err
	}

	filter := t.opts.Filter
	log := t.opts.Logger
	follow := !t.opts.SkipSymlinks

	var mu sync.Mutex
	docs := []string{}

	conf := fastwalk.Config{Follow: follow}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return err
		}
		if err != nil {
			log.Debug("skipping unreadable directory", zap.String("path", path), zap.Error(err))
			t.opts.Metrics.RecordDirectorySkipped(skipUnreadable)
			return nil
		}

		isDir := d.IsDir()
		if follow && d.Type()&fs.ModeSymlink != 0 {
			if info, statErr := fastwalk.StatDirEntry(path, d); statErr == nil {
				isDir = info.IsDir()
			}
		}

		if filter.IsHidden(d.Name()) || filter.Ignored(root, path) {
			if isDir {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !isDir && filter.IsDocument(d.Name()) {
			mu.Lock()
			docs = append(docs, path)
			mu.Unlock()
		}
		return nil
	})

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, newError(KindInvalidRoot, root, "failed to read directory", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		a, b := strings.ToLower(docs[i]), strings.ToLower(docs[j])
		if a != b {
			return a < b
		}
		return docs[i] < docs[j]
	})
	return docs, nil
}
