package model

import "time"

// ArtifactDescriptorOption is a functor to build artifact descriptors
type ArtifactDescriptorOption func(descriptor *ArtifactDescriptor)

// ArtifactTag sets the name and version described by the descriptor
func ArtifactTag(t Tag) ArtifactDescriptorOption {
	return func(d *ArtifactDescriptor) {
		d.Name = t.Name
		d.Version = t.Version
	}
}

// ArtifactCreatedAt sets the creation timestamp of the artifact
func ArtifactCreatedAt(ts time.Time) ArtifactDescriptorOption {
	return func(d *ArtifactDescriptor) {
		d.CreatedAt = ts
	}
}

// ArtifactLabels sets a map of labels for the artifact
func ArtifactLabels(labels map[string]string) ArtifactDescriptorOption {
	return func(d *ArtifactDescriptor) {
		d.Labels = labels
	}
}

// ArtifactLabel sets a single label for the artifact
func ArtifactLabel(key, value string) ArtifactDescriptorOption {
	return func(d *ArtifactDescriptor) {
		if d.Labels == nil {
			d.Labels = make(map[string]string, 1)
		}
		d.Labels[key] = value
	}
}
