// Package localfs implements a hierarchical storage backend
// on top of any file system supported by afero.
package localfs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oneconcern/modelstore/pkg/errors"
	"github.com/oneconcern/modelstore/pkg/storage"
	"github.com/oneconcern/modelstore/pkg/storage/status"
	"github.com/spf13/afero"
)

const (
	dirMode  = 0700
	fileMode = 0600
)

// New creates a local file system backed storage backend.
//
// When fs is nil, the backend defaults to a subdirectory of the current
// working directory. Pass afero.NewMemMapFs() for an in-memory backend.
func New(fs afero.Fs) storage.Backend {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".modelstore", "store"))
	}
	return &localFS{fs: fs}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) Exists(_ context.Context, pth string) (bool, error) {
	_, err := l.fs.Stat(pth)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *localFS) IsDir(_ context.Context, pth string) (bool, error) {
	fi, err := l.fs.Stat(pth)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return fi.IsDir(), nil
}

func (l *localFS) MkdirAll(_ context.Context, pth string) error {
	return l.fs.MkdirAll(pth, dirMode)
}

func (l *localFS) RemoveAll(_ context.Context, pth string) error {
	return l.fs.RemoveAll(pth)
}

func (l *localFS) List(_ context.Context, pth string) ([]string, error) {
	fis, err := l.readDir(pth)
	if err != nil {
		return nil, err
	}
	entries := make([]string, 0, len(fis))
	for _, fi := range fis {
		entries = append(entries, fi.Name())
	}
	return entries, nil
}

func (l *localFS) ListDirs(_ context.Context, pth string) ([]string, error) {
	fis, err := l.readDir(pth)
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(fis))
	for _, fi := range fis {
		if fi.IsDir() {
			dirs = append(dirs, fi.Name())
		}
	}
	return dirs, nil
}

func (l *localFS) MatchDirs(ctx context.Context, pth, prefix string) ([]string, error) {
	dirs, err := l.ListDirs(ctx, pth)
	if err != nil {
		return nil, err
	}
	matches := dirs[:0]
	for _, dir := range dirs {
		if strings.HasPrefix(dir, prefix) {
			matches = append(matches, dir)
		}
	}
	return matches, nil
}

// readDir yields directory entries in lexicographic order
func (l *localFS) readDir(pth string) ([]os.FileInfo, error) {
	if pth == "" {
		pth = "."
	}
	fis, err := afero.ReadDir(l.fs, pth)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(fmt.Sprintf("no directory at %q", pth)).Wrap(status.ErrNotFound)
		}
		return nil, err
	}
	return fis, nil
}

func (l *localFS) ReadText(_ context.Context, pth string) (string, error) {
	b, err := afero.ReadFile(l.fs, pth)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(fmt.Sprintf("no file at %q", pth)).Wrap(status.ErrNotFound)
		}
		return "", err
	}
	return string(b), nil
}

func (l *localFS) WriteText(_ context.Context, pth, text string) error {
	if dir := path.Dir(pth); dir != "" && dir != "." {
		if err := l.fs.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}
	return afero.WriteFile(l.fs, pth, []byte(text), fileMode)
}

func (l *localFS) Directory(pth string) (storage.Directory, error) {
	fi, err := l.fs.Stat(pth)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(fmt.Sprintf("no directory at %q", pth)).Wrap(status.ErrNotFound)
		}
		return nil, err
	}
	if !fi.IsDir() {
		return nil, errors.New(fmt.Sprintf("%q is not a directory", pth)).Wrap(status.ErrNotADirectory)
	}
	return &localDir{
		localFS: localFS{fs: afero.NewBasePathFs(l.fs, pth)},
		parent:  l.fs,
		pth:     pth,
	}, nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}

type localDir struct {
	localFS
	parent afero.Fs
	pth    string
}

func (d *localDir) Path() string {
	return d.pth
}

func (d *localDir) SysPath() (string, error) {
	switch fs := d.parent.(type) {
	case *afero.BasePathFs:
		return fs.RealPath(d.pth)
	case *afero.OsFs:
		return d.pth, nil
	default:
		return "", errors.New("backend "+d.localFS.String()+" has no file system path").Wrap(status.ErrNotSupported)
	}
}

func (d *localDir) Directory(pth string) (storage.Directory, error) {
	sub, err := d.localFS.Directory(pth)
	if err != nil {
		return nil, err
	}
	nested, ok := sub.(*localDir)
	if !ok {
		return sub, nil
	}
	nested.parent = d.parent
	nested.pth = path.Join(d.pth, pth)
	return nested, nil
}
