package storage

import (
	"context"
)

// Backend implementations know how to manipulate a tree of directories and files.
//
// Typically this is something file system-like. Implementations of this
// interface are assumed to be fairly simple: all store semantics (version
// resolution, latest pointers) live above it, in pkg/core.
//
// Paths are slash-separated and relative to the backend's root. Listing
// operations return entry names (not paths) in lexicographic order.
// Operations surfacing a missing path report status.ErrNotFound.
type Backend interface {
	String() string

	// Exists tells whether a path exists, as a file or a directory
	Exists(ctx context.Context, pth string) (bool, error)

	// IsDir tells whether a path exists and is a directory
	IsDir(ctx context.Context, pth string) (bool, error)

	// MkdirAll creates a directory at pth, together with missing parents
	MkdirAll(ctx context.Context, pth string) error

	// RemoveAll recursively deletes the subtree at pth
	RemoveAll(ctx context.Context, pth string) error

	// List enumerates the entries of the directory at pth
	List(ctx context.Context, pth string) ([]string, error)

	// ListDirs enumerates the entries of the directory at pth, filtered to subdirectories
	ListDirs(ctx context.Context, pth string) ([]string, error)

	// MatchDirs enumerates the subdirectories of pth whose name starts with prefix
	MatchDirs(ctx context.Context, pth, prefix string) ([]string, error)

	// ReadText reads the whole text content of the file at pth
	ReadText(ctx context.Context, pth string) (string, error)

	// WriteText creates or overwrites the file at pth with some text content,
	// creating parent directories as needed
	WriteText(ctx context.Context, pth, text string) error

	// Directory resolves pth to a handle scoped to that subtree
	Directory(pth string) (Directory, error)
}

// Directory is a Backend scoped to a subtree, handed to callers populating
// or reading a single artifact version.
type Directory interface {
	Backend

	// Path yields the logical path of the directory from its parent backend's root
	Path() string

	// SysPath resolves the directory to a usable path on the host file
	// system. Backends without one report status.ErrNotSupported.
	SysPath() (string, error)
}
