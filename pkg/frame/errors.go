package frame

import (
	"errors"
	"fmt"
)

var ErrColumnNotFound = errors.New("column not found")

// ColumnError ties a failure to the column that caused it.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %s: %s", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

func NewColumnError(column string, err error) error {
	return &ColumnError{Column: column, Err: err}
}
