package errors

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	ErrInvalidID = errors.New("invalid record ID format")

	ErrUnknownTenant = errors.New("unknown tenant scope")

	ErrSampleFailed = errors.New("lock snapshot failed")

	ErrAlreadyResolved = errors.New("deadlock event already resolved")
)
