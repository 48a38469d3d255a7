package services

import "errors"

var (
	ErrNotFound     = errors.New("folder not found")
	ErrNotDirectory = errors.New("not a directory")
	ErrCancelled    = errors.New("sort cancelled")
	ErrBusy         = errors.New("folder is being sorted by another process")
)
