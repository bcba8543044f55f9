package filesystem

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
)

// ErrInvalidUTF8 is wrapped by read failures on content that is not UTF-8 text.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// documentPerm is the mode new documents are created with.
const documentPerm = 0o644

// ContentStore reads and writes whole documents. There is no caching:
// every call goes to disk.
type ContentStore struct {
	opts Options
}

// NewContentStore creates a content store.
func NewContentStore(opts Options) *ContentStore {
	return &ContentStore{opts: opts.withDefaults()}
}

// Read returns the full text of the file at path.
func (s *ContentStore) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", newError(KindReadFailed, path, "failed to read file", err)
	}

	data, err := s.opts.FS.ReadFile(path)
	if err != nil {
		return "", newError(KindReadFailed, path, "failed to read file", err)
	}

	if !utf8.Valid(data) {
		charset, mime := describeContent(data)
		s.opts.Logger.Debug("rejected non UTF-8 document",
			zap.String("path", path),
			zap.String("charset", charset),
			zap.String("mime", mime))
		return "", newError(KindReadFailed, path, "failed to read file",
			fmt.Errorf("%w (detected %s, %s)", ErrInvalidUTF8, charset, mime))
	}

	s.opts.Metrics.RecordContentBytes("read", len(data))
	return string(data), nil
}

// Write replaces the file at path with content, creating it if needed.
// The write is not atomic and takes no lock.
func (s *ContentStore) Write(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return newError(KindWriteFailed, path, "failed to write file", err)
	}

	if err := s.opts.FS.WriteFile(path, []byte(content), documentPerm); err != nil {
		return newError(KindWriteFailed, path, "failed to write file", err)
	}

	s.opts.Metrics.RecordContentBytes("write", len(content))
	s.opts.Logger.Debug("document written", zap.String("path", path), zap.Int("bytes", len(content)))
	return nil
}

// describeContent guesses the charset and MIME type of undecodable content
// for diagnostics.
func describeContent(data []byte) (charset, mime string) {
	charset = "unknown charset"
	if result, err := chardet.NewTextDetector().DetectBest(data); err == nil && result.Charset != "" {
		charset = "charset " + result.Charset
	}
	return charset, mimetype.Detect(data).String()
}
