package core

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/oneconcern/modelstore/pkg/core/status"
	"github.com/oneconcern/modelstore/pkg/errors"
	"github.com/oneconcern/modelstore/pkg/model"
	"github.com/oneconcern/modelstore/pkg/storage"
	storagestatus "github.com/oneconcern/modelstore/pkg/storage/status"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Item is the capability contract any stored entity satisfies: it knows its
// own tag and its creation time. Reconstruction from a directory is supplied
// separately, as a Constructor value, since Go cannot dispatch on a
// type-level factory method.
type Item interface {
	Tag() model.Tag
	CreationTime() time.Time
}

// Constructor materializes an item of type T from the directory holding one
// registered version. The constructed item's tag must equal the given tag.
type Constructor[T Item] func(t model.Tag, dir storage.Directory) (T, error)

// Store is a tag-addressed, versioned item store over a hierarchical
// storage backend.
//
// The store assumes exclusive ownership of its backend subtree: it takes no
// locks and does not defend against concurrent external modification of the
// same paths.
//
// Layout under the backend root, per name:
//
//	<name>/latest     text file, contents = a version string
//	<name>/<version>  one item version's content subtree
type Store[T Item] struct {
	backend   storage.Backend
	construct Constructor[T]

	Settings
}

// New builds a store engine for one item type over the given backend
func New[T Item](backend storage.Backend, construct Constructor[T], opts ...Option) *Store[T] {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}
	return &Store[T]{
		backend:   backend,
		construct: construct,
		Settings:  settings,
	}
}

// Backend yields the storage backend the store operates on
func (s *Store[T]) Backend() storage.Backend {
	return s.backend
}

// List enumerates items, ordered by name then by version string.
//
// With a zero filter, every item in the store is returned, grouped by name.
// With a name-only filter, all versions of that name are returned. With a
// versioned filter, the result has one element, or none when that exact
// version does not exist. An absent or empty selection is not an error.
func (s *Store[T]) List(ctx context.Context, filter model.Tag) (items []T, err error) {
	defer s.record(time.Now(), "list", &err)

	if filter.Name == "" {
		var names []string
		names, err = s.backend.ListDirs(ctx, "")
		if err != nil {
			if !errors.Is(err, storagestatus.ErrNotFound) {
				return nil, err
			}
			return nil, nil
		}
		for _, name := range names {
			var group []T
			group, err = s.list(ctx, model.Tag{Name: name})
			if err != nil {
				return nil, err
			}
			items = append(items, group...)
		}
		return items, nil
	}

	items, err = s.list(ctx, filter)
	return items, err
}

func (s *Store[T]) list(ctx context.Context, filter model.Tag) ([]T, error) {
	if filter.Version == "" {
		versions, err := s.backend.ListDirs(ctx, filter.Name)
		if err != nil {
			if errors.Is(err, storagestatus.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		items := make([]T, 0, len(versions))
		for _, version := range versions {
			item, err := s.item(filter.WithVersion(version))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	// an explicit version is a query, not an assertion
	ok, err := s.backend.IsDir(ctx, path.Join(filter.Name, filter.Version))
	if err != nil || !ok {
		return nil, err
	}
	item, err := s.item(filter)
	if err != nil {
		return nil, err
	}
	return []T{item}, nil
}

// Get resolves a tag to a single item.
//
// A tag without an explicit version (or with the reserved version "latest")
// resolves through the name's latest pointer. When the resolved version has
// no exact subtree, the version string falls back to a prefix over existing
// version directories: one match resolves, several fail with
// status.ErrAmbiguousVersion, none fails with status.ErrNotFound.
func (s *Store[T]) Get(ctx context.Context, t model.Tag) (item T, err error) {
	defer s.record(time.Now(), "get", &err)

	var zero T
	if err = t.Validate(); err != nil {
		return zero, err
	}
	requested := t

	if !t.IsVersioned() {
		var pointer string
		pointer, err = s.backend.ReadText(ctx, t.LatestPath())
		if err != nil {
			if errors.Is(err, storagestatus.ErrNotFound) {
				err = fmt.Errorf("no %ss with name %q exist in store %s: %w",
					s.kind, t.Name, s.backend, status.ErrNotFound)
			}
			return zero, err
		}
		t = t.WithVersion(pointer)
	}

	exists, err := s.backend.Exists(ctx, t.Path())
	if err != nil {
		return zero, err
	}
	if exists {
		item, err = s.item(t)
		return item, err
	}

	matches, err := s.backend.MatchDirs(ctx, t.Name, t.Version)
	if err != nil && !errors.Is(err, storagestatus.ErrNotFound) {
		return zero, err
	}
	switch len(matches) {
	case 0:
		err = fmt.Errorf("%s %q is not found in store %s: %w",
			s.kind, requested, s.backend, status.ErrNotFound)
		return zero, err
	case 1:
		item, err = s.item(t.WithVersion(matches[0]))
		return item, err
	default:
		err = &status.AmbiguousMatchError{Requested: t, Candidates: matches}
		return zero, err
	}
}

// Register creates the version subtree for a tag and hands it to populate
// for content generation, over an arbitrary duration.
//
// The release step overwrites the name's latest pointer with this tag's
// version. It runs on every exit path past subtree creation, whether or not
// population succeeded, reproducing the historical store behavior: a failed
// population still moves the pointer. WithLatestOnSuccess restricts the
// pointer update to successful populations.
//
// The existence check and the subtree creation are two separate backend
// calls with no atomicity guarantee between them: concurrent registrations
// of the same tag can both pass the check. The store is single-writer by
// contract.
func (s *Store[T]) Register(ctx context.Context, t model.Tag, populate func(dir storage.Directory) error) (err error) {
	defer s.record(time.Now(), "register", &err)

	if err = t.Validate(); err != nil {
		return err
	}
	if !t.IsVersioned() {
		return fmt.Errorf("cannot register %s %q: %w", s.kind, t, status.ErrNoVersion)
	}

	pth := t.Path()
	exists, err := s.backend.Exists(ctx, pth)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s %q already exists in store %s: %w",
			s.kind, t, s.backend, status.ErrExists)
	}
	if err = s.backend.MkdirAll(ctx, pth); err != nil {
		return err
	}

	s.l.Info("registering",
		zap.String("kind", s.kind),
		zap.Stringer("tag", t),
		zap.Stringer("store", s.backend),
	)

	defer func() {
		if s.latestOnSuccess && err != nil {
			return
		}
		if werr := s.backend.WriteText(ctx, t.LatestPath(), t.Version); werr != nil {
			err = multierr.Append(err, werr)
		}
	}()

	if populate == nil {
		return nil
	}
	dir, derr := s.backend.Directory(pth)
	if derr != nil {
		err = derr
		return err
	}
	if perr := populate(dir); perr != nil {
		err = fmt.Errorf("populating %s %q: %w", s.kind, t, perr)
		return err
	}
	return nil
}

// Delete removes a version subtree entirely.
//
// When the last version of a name goes, the whole name subtree goes with
// it, latest pointer included. Otherwise the pointer is recomputed to the
// remaining version with the smallest creation time (the literal historical
// policy: oldest remaining, not most recent).
func (s *Store[T]) Delete(ctx context.Context, t model.Tag) (err error) {
	defer s.record(time.Now(), "delete", &err)

	if err = t.Validate(); err != nil {
		return err
	}
	if !t.IsVersioned() {
		return fmt.Errorf("cannot delete %s %q: %w", s.kind, t, status.ErrNoVersion)
	}

	pth := t.Path()
	ok, err := s.backend.IsDir(ctx, pth)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %q is not found in store %s: %w",
			s.kind, t, s.backend, status.ErrNotFound)
	}
	if err = s.backend.RemoveAll(ctx, pth); err != nil {
		return err
	}

	s.l.Info("deleted",
		zap.String("kind", s.kind),
		zap.Stringer("tag", t),
		zap.Stringer("store", s.backend),
	)

	remaining, err := s.list(ctx, model.Tag{Name: t.Name})
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		err = s.backend.RemoveAll(ctx, t.Name)
		return err
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].CreationTime().Before(remaining[j].CreationTime())
	})
	newLatest := remaining[0].Tag()
	err = s.backend.WriteText(ctx, t.LatestPath(), newLatest.Version)
	return err
}

func (s *Store[T]) item(t model.Tag) (T, error) {
	var zero T
	dir, err := s.backend.Directory(t.Path())
	if err != nil {
		return zero, err
	}
	return s.construct(t, dir)
}
