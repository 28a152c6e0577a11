package resultparser

import "fmt"

// EntryError reports which result entry could not be read. It matches
// ErrMalformed with errors.Is.
type EntryError struct {
	Index int // -1 for document level problems
	Msg   string
}

func (e *EntryError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", ErrMalformed, e.Msg)
	}
	return fmt.Sprintf("%s: entry %d: %s", ErrMalformed, e.Index, e.Msg)
}

func (e *EntryError) Is(target error) bool {
	return target == ErrMalformed
}
