package model

import (
	"fmt"
	"time"
)

// ArtifactDescriptorFile is the name of the metadata file persisted at the
// root of an artifact's version subtree.
const ArtifactDescriptorFile = "artifact.yaml"

// ArtifactDescriptor is the metadata record persisted with every artifact version
type ArtifactDescriptor struct {
	Name      string            `json:"name" yaml:"name"`
	Version   string            `json:"version" yaml:"version"`
	CreatedAt time.Time         `json:"createdAt" yaml:"createdAt"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	_ struct{}
}

// NewArtifactDescriptor builds a descriptor, stamped now by default
func NewArtifactDescriptor(opts ...ArtifactDescriptorOption) *ArtifactDescriptor {
	d := &ArtifactDescriptor{
		CreatedAt: time.Now().UTC(),
	}
	for _, apply := range opts {
		apply(d)
	}
	return d
}

// Tag yields the tag the descriptor describes
func (d *ArtifactDescriptor) Tag() Tag {
	return Tag{Name: d.Name, Version: d.Version}
}

// Validate asserts the descriptor is complete and consistent with tag validation rules
func (d *ArtifactDescriptor) Validate() error {
	t := d.Tag()
	if err := t.Validate(); err != nil {
		return err
	}
	if !t.IsVersioned() {
		return fmt.Errorf("artifact descriptor requires an explicit version: %q", t)
	}
	if d.CreatedAt.IsZero() {
		return fmt.Errorf("artifact descriptor for %q requires a creation time", t)
	}
	return nil
}

// ArtifactDescriptorPath yields the backend path of a version's descriptor file
func ArtifactDescriptorPath(t Tag) string {
	return t.Path() + pathSeparator + ArtifactDescriptorFile
}
