package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict indicates the record changed since the caller read it
	ErrVersionConflict = errors.New("record was modified by another user")
	// ErrDuplicate indicates a record with the same identity already exists
	ErrDuplicate = errors.New("record already exists")
)
