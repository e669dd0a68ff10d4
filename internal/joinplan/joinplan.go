// Package joinplan turns an ordered, validated list of input paths into
// the manifest handed to the external concat engine. The planner never
// reorders inputs; callers own the ordering.
package joinplan

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Error codes for planning failures. All are whole-run preconditions,
// detected before any external process is invoked.
const (
	ErrCodeInsufficientInputs = "INSUFFICIENT_INPUTS"
	ErrCodeDuplicatePath      = "DUPLICATE_PATH"
	ErrCodeOutputCollision    = "OUTPUT_COLLISION"
)

// Error represents a planning precondition failure with a code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Manifest is the ordered join plan: resolved absolute input paths plus
// the requested output path.
type Manifest struct {
	Inputs []string `json:"inputs"`
	Output string   `json:"output"`
}

// Plan resolves the input paths to absolute form and checks the join
// preconditions: at least two inputs, no input appearing twice, and the
// output not resolving to an input. Caller order is preserved.
func Plan(paths []string, output string) (*Manifest, error) {
	if len(paths) < 2 {
		return nil, &Error{
			Code:    ErrCodeInsufficientInputs,
			Message: fmt.Sprintf("need at least 2 input files, got %d", len(paths)),
		}
	}

	// Abs failures are environmental (unreadable working directory),
	// not plan precondition violations, so they carry no code.
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return nil, fmt.Errorf("resolving output path %s: %w", output, err)
	}

	inputs := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving input path %s: %w", p, err)
		}
		if _, dup := seen[abs]; dup {
			return nil, &Error{
				Code:    ErrCodeDuplicatePath,
				Message: fmt.Sprintf("input %s appears more than once", abs),
			}
		}
		if abs == absOutput {
			return nil, &Error{
				Code:    ErrCodeOutputCollision,
				Message: fmt.Sprintf("output %s is also an input", abs),
			}
		}
		seen[abs] = struct{}{}
		inputs = append(inputs, abs)
	}

	return &Manifest{Inputs: inputs, Output: absOutput}, nil
}

// WriteConcatList renders the manifest in the concat-demuxer list format:
// one "file '<path>'" line per input, in order. Single quotes in paths
// are escaped by closing the quote, emitting \', and reopening.
func (m *Manifest) WriteConcatList(w io.Writer) error {
	for _, input := range m.Inputs {
		if _, err := fmt.Fprintf(w, "file '%s'\n", escapeConcatPath(input)); err != nil {
			return err
		}
	}
	return nil
}

// ConcatList returns the rendered concat list as a string.
func (m *Manifest) ConcatList() string {
	var sb strings.Builder
	_ = m.WriteConcatList(&sb)
	return sb.String()
}

func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
