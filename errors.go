package comma

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHeader is returned when a column is addressed by name but no header is known.
	ErrMissingHeader = errors.New("comma: no header for name-based access")
	// ErrIndexOutOfRange is returned when a column index is outside the stored fields.
	ErrIndexOutOfRange = errors.New("comma: index out of range")
	// ErrUnknownColumn is returned when a header does not contain the requested name.
	ErrUnknownColumn = errors.New("comma: unknown column")
	// ErrNotReadable is returned by reads on a session without an input stream.
	ErrNotReadable = errors.New("comma: session is not readable")
	// ErrNotWritable is returned by writes on a session without an output stream.
	ErrNotWritable = errors.New("comma: session is not writable")
	// ErrSessionClosed is returned by every operation after Close.
	ErrSessionClosed = errors.New("comma: session is closed")
	// ErrArgument reports a caller mistake such as an ambiguous row input.
	ErrArgument = errors.New("comma: invalid argument")
	// ErrInvalidDialect is returned by Dialect.Validate.
	ErrInvalidDialect = errors.New("comma: invalid dialect")
	// ErrSniffFailed is returned when a sample is too small to infer a dialect.
	ErrSniffFailed = errors.New("comma: could not sniff dialect")
)

// ColumnError ties a failure to the column that produced it. Index is -1 when only the name is known.
type ColumnError struct {
	Index int
	Name  string
	Err   error
}

func (e *ColumnError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Index < 0:
		return fmt.Sprintf("column %q: %v", e.Name, e.Err)
	case e.Name != "":
		return fmt.Sprintf("column %d (%q): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("column %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying Err so ColumnError participates in errors.Is.
func (e *ColumnError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
