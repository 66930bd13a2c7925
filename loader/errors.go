package loader

import "fmt"

// RowError reports a row that could not be read.
type RowError struct {
	File string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// GetLine returns the 1-based line of the row.
func (e *RowError) GetLine() int {
	return e.Line
}

// RowErrors collects every row error of a file.
type RowErrors struct {
	Errors []error
}

func (e *RowErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d malformed rows", len(e.Errors))
}

// Unwrap returns the individual row errors.
func (e *RowErrors) Unwrap() []error {
	return e.Errors
}
