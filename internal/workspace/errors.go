package workspace

import "errors"

// Operation errors. Handlers translate these to HTTP statuses; anything not
// in this list is an unexpected I/O error.
var (
	// ErrPathEscape indicates a client-supplied path resolved outside the
	// workspace root. The filesystem is never touched when this is returned.
	ErrPathEscape = errors.New("path escapes workspace root")

	// ErrNotFound indicates the target entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrExists indicates the target entry already exists.
	ErrExists = errors.New("entry already exists")

	// ErrIsDirectory indicates a file operation targeted a directory.
	ErrIsDirectory = errors.New("entry is a directory")

	// ErrNotDirectory indicates a directory operation targeted a file.
	ErrNotDirectory = errors.New("entry is not a directory")

	// ErrTooLarge indicates the file exceeds the read size cap.
	ErrTooLarge = errors.New("file too large")

	// ErrInvalidContent indicates a write payload was not a string.
	ErrInvalidContent = errors.New("content must be a string")

	// ErrInvalidName indicates a folder name failed validation.
	ErrInvalidName = errors.New("invalid name")
)
