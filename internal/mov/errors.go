package mov

import "fmt"

// Error codes for container parsing failures. Callers map these to
// distinct exit codes, so they are part of the public surface.
const (
	ErrCodeTruncatedHeader  = "TRUNCATED_HEADER"
	ErrCodeInvalidBoxSize   = "INVALID_BOX_SIZE"
	ErrCodeNotAMovContainer = "NOT_A_MOV_CONTAINER"
	ErrCodeMissingMovieBox  = "MISSING_MOVIE_BOX"
	ErrCodeInvalidTimescale = "INVALID_TIMESCALE"
)

// Error represents a container parsing error with a code and the byte
// offset where the problem was detected.
type Error struct {
	Code    string
	Message string
	Path    string // file being parsed, empty when parsing a raw reader
	Offset  int64  // byte offset of detection
	Cause   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s (offset %d)", e.Code, e.Path, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s (offset %d)", e.Code, e.Message, e.Offset)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code, message string, offset int64) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Offset:  offset,
	}
}
