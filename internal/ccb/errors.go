package ccb

import (
	"errors"
	"fmt"
)

// Magic is the leading i32 of every document ("flce").
const Magic int32 = 1701014630

var (
	ErrBadMagic       = errors.New("ccb: bad magic number")
	ErrFirstTag       = errors.New("ccb: first chunk is not a document chunk")
	ErrShortHeader    = errors.New("ccb: file header truncated")
	ErrNestingTooDeep = errors.New("ccb: nesting exceeds depth limit")
	ErrSceneNotFound  = errors.New("ccb: scene index not present in document")
)

// FormatError is a fatal problem with the document framing. No
// partial document is returned alongside it.
type FormatError struct {
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ResourceFinalizeError reports a skinned mesh whose finalizer failed.
// It is logged, never returned from a load.
type ResourceFinalizeError struct {
	Mesh string
	Err  error
}

func (e *ResourceFinalizeError) Error() string {
	return fmt.Sprintf("ccb: finalize mesh %q: %v", e.Mesh, e.Err)
}

func (e *ResourceFinalizeError) Unwrap() error { return e.Err }
