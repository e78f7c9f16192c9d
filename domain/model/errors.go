package model

import (
	"errors"
	"io/fs"
)

var (
	// ErrTransientLock marks a move failure caused by another process holding the file
	ErrTransientLock = errors.New("file is in use by another process")

	// ErrAlreadyExists marks a destination name collision
	ErrAlreadyExists = fs.ErrExist

	// ErrNotFound marks a source that vanished before it could be moved
	ErrNotFound = fs.ErrNotExist

	ErrUnclassified           = errors.New("file matches no requested category")
	ErrInvalidPath            = errors.New("invalid path")
	ErrNotADirectory          = errors.New("not a directory")
	ErrUnknownSelector        = errors.New("unknown category selector")
	ErrEmptySelection         = errors.New("no category selected")
	ErrSessionIndexOutOfRange = errors.New("session index out of range")
	ErrSessionStopped         = errors.New("watch session stopped")
	ErrWatcherClosed          = errors.New("watcher is closed")
)
