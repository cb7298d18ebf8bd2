package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/oneconcern/modelstore/pkg/core/status"
	"github.com/oneconcern/modelstore/pkg/dlogger"
	"github.com/oneconcern/modelstore/pkg/model"
	"github.com/oneconcern/modelstore/pkg/storage"
	"github.com/oneconcern/modelstore/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, opts ...Option) *Store[*Artifact] {
	t.Helper()
	opts = append([]Option{WithLogger(dlogger.MustGetLogger(dlogger.LogLevelNone))}, opts...)
	return NewArtifactStore(localfs.New(afero.NewMemMapFs()), opts...)
}

func writeMarker(text string) func(dir storage.Directory) error {
	return func(dir storage.Directory) error {
		return dir.WriteText(context.Background(), "marker.txt", text)
	}
}

func mustCreate(t *testing.T, s *Store[*Artifact], taglike string, opts ...model.ArtifactDescriptorOption) {
	t.Helper()
	err := CreateArtifact(context.Background(), s, model.MustParseTag(taglike), writeMarker(taglike), opts...)
	require.NoError(t, err)
}

func TestRegisterThenGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1")

	item, err := s.Get(ctx, model.MustParseTag("demo:1"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "1"), item.Tag())
	assert.False(t, item.CreationTime().IsZero())

	text, err := item.Directory().ReadText(ctx, "marker.txt")
	require.NoError(t, err)
	assert.Equal(t, "demo:1", text)
}

func TestRegisterExisting(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1")

	before, err := s.Backend().ReadText(ctx, "demo/1/marker.txt")
	require.NoError(t, err)

	err = s.Register(ctx, model.NewTag("demo", "1"), writeMarker("overwritten"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	// the failed attempt performed no mutation
	after, err := s.Backend().ReadText(ctx, "demo/1/marker.txt")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGetLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1")

	item, err := s.Get(ctx, model.MustParseTag("demo"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "1"), item.Tag())

	mustCreate(t, s, "demo:2")

	item, err = s.Get(ctx, model.MustParseTag("demo"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "2"), item.Tag())

	// the reserved version resolves the same way
	item, err = s.Get(ctx, model.MustParseTag("demo:latest"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "2"), item.Tag())
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:2")
	mustCreate(t, s, "demo:1")
	mustCreate(t, s, "alpha:1")

	// all items, grouped by name, version-string ascending
	items, err := s.List(ctx, model.Tag{})
	require.NoError(t, err)
	tags := make([]string, 0, len(items))
	for _, item := range items {
		tags = append(tags, item.Tag().String())
	}
	assert.Equal(t, []string{"alpha:1", "demo:1", "demo:2"}, tags)

	// one name
	items, err = s.List(ctx, model.MustParseTag("demo"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.NewTag("demo", "1"), items[0].Tag())
	assert.Equal(t, model.NewTag("demo", "2"), items[1].Tag())

	// one exact version
	items, err = s.List(ctx, model.MustParseTag("demo:1"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.NewTag("demo", "1"), items[0].Tag())

	// an absent selection is empty, not an error
	items, err = s.List(ctx, model.MustParseTag("demo:9"))
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = s.List(ctx, model.MustParseTag("ghost"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListEmptyStore(t *testing.T) {
	s := testStore(t)

	items, err := s.List(context.Background(), model.Tag{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetPrefixResolution(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:10")

	// "1" has no exact match and a single prefix match
	item, err := s.Get(ctx, model.MustParseTag("demo:1"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "10"), item.Tag())

	// an exact match takes precedence over prefix matches
	mustCreate(t, s, "demo:1")
	item, err = s.Get(ctx, model.MustParseTag("demo:1"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "1"), item.Tag())
}

func TestGetAmbiguousPrefix(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1a")
	mustCreate(t, s, "demo:1b")

	_, err := s.Get(ctx, model.MustParseTag("demo:1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrAmbiguousVersion))

	var ambiguous *status.AmbiguousMatchError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"1a", "1b"}, ambiguous.Candidates)
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, model.MustParseTag("ghost"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound))

	mustCreate(t, s, "demo:1")

	_, err = s.Get(ctx, model.MustParseTag("demo:9"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestDeleteLastVersion(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1")
	require.NoError(t, s.Delete(ctx, model.MustParseTag("demo:1")))

	// the whole name subtree is gone, latest pointer included
	ok, err := s.Backend().IsDir(ctx, "demo")
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := s.List(ctx, model.MustParseTag("demo"))
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.Get(ctx, model.MustParseTag("demo"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestDeleteRecomputesLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1", model.ArtifactCreatedAt(time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC)))
	mustCreate(t, s, "demo:2", model.ArtifactCreatedAt(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)))
	mustCreate(t, s, "demo:3", model.ArtifactCreatedAt(time.Date(2023, 5, 3, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, s.Delete(ctx, model.MustParseTag("demo:3")))

	// the literal policy selects the oldest remaining version, not the most recent
	item, err := s.Get(ctx, model.MustParseTag("demo"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "2"), item.Tag())
}

func TestDeleteMissing(t *testing.T) {
	s := testStore(t)

	err := s.Delete(context.Background(), model.MustParseTag("ghost:1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestUnversionedMutations(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.Register(ctx, model.MustParseTag("demo"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoVersion))

	err = s.Delete(ctx, model.MustParseTag("demo:latest"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoVersion))
}

func TestRegisterReleaseOnFailure(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1")

	err := s.Register(ctx, model.NewTag("demo", "2"), func(dir storage.Directory) error {
		return fmt.Errorf("population went sideways")
	})
	require.Error(t, err)

	// historical behavior: a failed population still moves the pointer
	pointer, err := s.Backend().ReadText(ctx, "demo/latest")
	require.NoError(t, err)
	assert.Equal(t, "2", pointer)
}

func TestRegisterLatestOnSuccess(t *testing.T) {
	s := testStore(t, WithLatestOnSuccess())
	ctx := context.Background()

	mustCreate(t, s, "demo:1")

	err := s.Register(ctx, model.NewTag("demo", "2"), func(dir storage.Directory) error {
		return fmt.Errorf("population went sideways")
	})
	require.Error(t, err)

	// the opt-in variant leaves the pointer on the last successful version
	pointer, err := s.Backend().ReadText(ctx, "demo/latest")
	require.NoError(t, err)
	assert.Equal(t, "1", pointer)

	mustCreate(t, s, "demo:3")
	pointer, err = s.Backend().ReadText(ctx, "demo/latest")
	require.NoError(t, err)
	assert.Equal(t, "3", pointer)
}

func TestEndToEnd(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	mustCreate(t, s, "demo:1")
	mustCreate(t, s, "demo:2")

	require.NoError(t, s.Delete(ctx, model.MustParseTag("demo:2")))

	item, err := s.Get(ctx, model.MustParseTag("demo"))
	require.NoError(t, err)
	assert.Equal(t, model.NewTag("demo", "1"), item.Tag())

	text, err := item.Directory().ReadText(ctx, "marker.txt")
	require.NoError(t, err)
	assert.Equal(t, "demo:1", text)
}
