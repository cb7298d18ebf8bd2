package core

import (
	"context"
	"fmt"
	"time"

	"github.com/oneconcern/modelstore/pkg/model"
	"github.com/oneconcern/modelstore/pkg/storage"
	"gopkg.in/yaml.v2"
)

// Artifact is the default item realization: a versioned unit of content
// described by an artifact.yaml descriptor at the root of its subtree.
type Artifact struct {
	descriptor model.ArtifactDescriptor
	dir        storage.Directory
}

// Tag yields the artifact's tag
func (a *Artifact) Tag() model.Tag {
	return a.descriptor.Tag()
}

// CreationTime yields the creation timestamp recorded in the descriptor
func (a *Artifact) CreationTime() time.Time {
	return a.descriptor.CreatedAt
}

// Descriptor yields a copy of the artifact's metadata record
func (a *Artifact) Descriptor() model.ArtifactDescriptor {
	return a.descriptor
}

// Directory yields the handle on the artifact's content subtree
func (a *Artifact) Directory() storage.Directory {
	return a.dir
}

func (a *Artifact) String() string {
	return fmt.Sprintf("artifact %q", a.Tag())
}

// ArtifactFromDirectory reconstructs an artifact from its version subtree.
//
// It is the Constructor for artifact stores. The persisted descriptor must
// agree with the tag the directory was addressed by.
func ArtifactFromDirectory(t model.Tag, dir storage.Directory) (*Artifact, error) {
	text, err := dir.ReadText(context.Background(), model.ArtifactDescriptorFile)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor for %q: %w", t, err)
	}
	var descriptor model.ArtifactDescriptor
	if err = yaml.Unmarshal([]byte(text), &descriptor); err != nil {
		return nil, fmt.Errorf("unmarshaling descriptor for %q: %w", t, err)
	}
	if descriptor.Tag() != t {
		return nil, fmt.Errorf("tags in descriptor '%v' and store path '%v' don't match",
			descriptor.Tag(), t)
	}
	if err = descriptor.Validate(); err != nil {
		return nil, err
	}
	return &Artifact{descriptor: descriptor, dir: dir}, nil
}

// NewArtifactStore binds the generic engine to the Artifact item type
func NewArtifactStore(backend storage.Backend, opts ...Option) *Store[*Artifact] {
	return New[*Artifact](backend, ArtifactFromDirectory,
		append([]Option{WithKind("artifact")}, opts...)...)
}

// CreateArtifact registers a tag and persists its descriptor, then runs the
// optional populate function to lay down content next to it.
func CreateArtifact(ctx context.Context, s *Store[*Artifact], t model.Tag,
	populate func(dir storage.Directory) error, opts ...model.ArtifactDescriptorOption) error {
	return s.Register(ctx, t, func(dir storage.Directory) error {
		descriptor := model.NewArtifactDescriptor(
			append(opts, model.ArtifactTag(t))...,
		)
		if err := descriptor.Validate(); err != nil {
			return err
		}
		buf, err := yaml.Marshal(descriptor)
		if err != nil {
			return err
		}
		if err = dir.WriteText(ctx, model.ArtifactDescriptorFile, string(buf)); err != nil {
			return err
		}
		if populate == nil {
			return nil
		}
		return populate(dir)
	})
}
