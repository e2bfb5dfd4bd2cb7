// Package importer reads transactions from CSV files.
package importer

import (
	"errors"
	"fmt"
)

// Columns is the CSV header shared by import and export.
var Columns = []string{
	"type",
	"amount",
	"category",
	"division",
	"description",
	"transactionDate",
	"sourceAccount",
	"targetAccount",
}

var optionalColumns = map[string]bool{
	"sourceAccount": true,
	"targetAccount": true,
}

var (
	ErrEmptyFile     = errors.New("empty file")
	ErrMissingColumn = errors.New("missing column")
)

// RowError reports the first invalid row of a file. Row is the 1-based line
// number in the file, header included.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IsInvalidInput reports whether err was caused by the content of the file
// rather than by storage.
func IsInvalidInput(err error) bool {
	var rowErr *RowError

	return errors.As(err, &rowErr) || errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrMissingColumn)
}
