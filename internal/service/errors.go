package service

import "errors"

// ErrUnknownCommand is returned by Execute for tool IDs no provider owns.
var ErrUnknownCommand = errors.New("unknown command")
