// Package storage provides the interface to hierarchical storage backends.
//
// A backend exposes directory and file primitives (enumeration, existence,
// subtree creation and removal, whole-file text read/write, prefix matching
// over subdirectory names) that the store engine composes. Backends hold no
// store semantics of their own.
//
// This package supports the following backends:
//   - local file system (pkg/storage/localfs, over any afero.Fs)
package storage
