package spim

import (
	"errors"
	"fmt"

	"spiminfo/internal/models"
)

// Common errors
var (
	ErrMissingPath       = errors.New("missing path")
	ErrIndexUnreadable   = errors.New("index file unreadable")
	ErrMalformedLine     = errors.New("malformed line")
	ErrInconsistentIndex = errors.New("inconsistent index")
)

// PathKind names the entry of the dataset layout a path refers to.
type PathKind string

const (
	KindDataDir   PathKind = "folder"
	KindIndexFile PathKind = "index file"
	KindDataFile  PathKind = "data file"
)

// MissingPathError reports the first required entry of the layout that does
// not exist on disk.
type MissingPathError struct {
	Kind PathKind
	Path string
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("%s doesn't exist: %s", e.Kind, e.Path)
}

func (e *MissingPathError) Is(target error) bool { return target == ErrMissingPath }

// IndexUnreadableError is returned when the index file cannot be opened or read.
type IndexUnreadableError struct {
	Path string
	Err  error
}

func (e *IndexUnreadableError) Error() string {
	return fmt.Sprintf("couldn't parse index file %s: %v", e.Path, e.Err)
}

func (e *IndexUnreadableError) Unwrap() error { return e.Err }

func (e *IndexUnreadableError) Is(target error) bool { return target == ErrIndexUnreadable }

// InconsistentIndexError is returned by strict index parsing when a line
// disagrees with the stack shape of the first parsed line.
type InconsistentIndexError struct {
	Line int
	Want models.StackDimensions
	Got  models.StackDimensions
}

func (e *InconsistentIndexError) Error() string {
	return fmt.Sprintf("index line %d: stack %dx%dx%d differs from %dx%dx%d",
		e.Line, e.Got.Width, e.Got.Height, e.Got.Depth, e.Want.Width, e.Want.Height, e.Want.Depth)
}

func (e *InconsistentIndexError) Is(target error) bool { return target == ErrInconsistentIndex }

// LoadError wraps a failure of LoadDir with the step that failed.
type LoadError struct {
	Op   string
	Root string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Root, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
