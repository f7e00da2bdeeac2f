package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned by every lookup of a key that is not stored.
	// Backend specific not-found errors never leave the storage packages.
	ErrNotFound = errors.New("key not found")

	ErrAlreadyExists = errors.New("key already exists")
)
