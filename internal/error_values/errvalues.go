package errorvalues

import "errors"

var (
	ErrKeyNotFound   = errors.New("no value stored under key")
	ErrCorruptedData = errors.New("stored data is corrupted")

	ErrValidation = errors.New("validation error")
	ErrEmptyTitle = errors.New("task title must not be empty")
	ErrEmptyProof = errors.New("completion proof must not be empty")
)
