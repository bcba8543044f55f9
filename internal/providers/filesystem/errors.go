package filesystem

import (
	"errors"
	"fmt"
)

// Kind classifies filesystem failures so callers can branch without
// matching on message text.
type Kind string

const (
	// KindInvalidRoot: tree root missing, not a directory, or unlistable.
	KindInvalidRoot Kind = "InvalidRoot"
	// KindReadFailed: any failure reading document content.
	KindReadFailed Kind = "ReadFailed"
	// KindWriteFailed: any failure writing document content.
	KindWriteFailed Kind = "WriteFailed"
	// KindWatchSetupFailed: watcher construction or registration failed.
	KindWatchSetupFailed Kind = "WatchSetupFailed"
	// KindNotFound: unknown watch registration.
	KindNotFound Kind = "NotFound"
)

// Error is the error type returned by every operation in this package.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, path, msg string, err error) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg, Err: err}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var fsErr *Error
	return errors.As(err, &fsErr) && fsErr.Kind == kind
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	return ""
}
