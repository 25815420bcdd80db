package common

import "errors"

// Error kinds of a conversion run. All of them abort the run; callers classify with errors.Is.
var (
	// ErrNotFound indicates the CSV source does not exist.
	ErrNotFound = errors.New("mkinsert: CSV file not found")

	// ErrIO indicates a read or write failure on the source, the output, or a prefix/suffix file.
	ErrIO = errors.New("mkinsert: i/o failure")

	// ErrMalformedInput indicates the CSV decoder rejected a record.
	ErrMalformedInput = errors.New("mkinsert: malformed CSV input")

	// ErrTemplate indicates a prefix or suffix file failed to parse or render.
	ErrTemplate = errors.New("mkinsert: template failure")

	// ErrNoFieldNames indicates neither explicit columns nor a header row are available.
	ErrNoFieldNames = errors.New("mkinsert: no column names available")

	// ErrInvalidConfig indicates a configuration value outside its accepted range.
	ErrInvalidConfig = errors.New("mkinsert: invalid configuration")
)
