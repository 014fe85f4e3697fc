package sitecustom

import "errors"

var (
	// ErrNotFound indicates the interpreter reported no directory to place a
	// customization script in.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates an unknown preset or scope name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptState indicates a start marker without a matching end marker,
	// usually from a manual edit or a partial write.
	ErrCorruptState = errors.New("corrupt managed block")
)
