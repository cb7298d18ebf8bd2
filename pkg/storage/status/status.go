// Package status declares error constants returned by
// implementations of the Backend interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementations.
package status

import "github.com/oneconcern/modelstore/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by storage

	// ErrNotFound indicates that the target path does not exist on storage
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory indicates that the target path exists but is not a directory
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotSupported indicates that the backend does not support this call
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidResource indicates that the storage resource has an invalid name
	ErrInvalidResource = errors.New("invalid storage resource name")
)
