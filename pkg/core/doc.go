// Package core implements the store engine: a tag-addressed, versioned
// item store layered over a hierarchical storage backend.
//
// The engine owns version resolution (exact, latest-pointer, prefix
// fallback) and latest-pointer maintenance on registration and deletion.
// It is generic over the stored item type, which it materializes through a
// caller-supplied Constructor.
//
// A default item realization, Artifact, persists its metadata as an
// artifact.yaml descriptor at the root of each version subtree.
package core
