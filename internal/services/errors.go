package services

import "errors"

var (
	ErrInvalidPage   = errors.New("invalid page number")
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidPayout = errors.New("invalid payout input")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNotFound      = errors.New("not found")
)

// DataError marks a failure to read or decode a backing data source.
type DataError struct {
	Source string
	Path   string
	Err    error
}

func (e *DataError) Error() string {
	return "load " + e.Source + " (" + e.Path + "): " + e.Err.Error()
}

func (e *DataError) Unwrap() error {
	return e.Err
}
