// Package model describes the base objects manipulated by modelstore.
//
// The object model is composed of:
//
//	Tags:
//	  A tag is a name[:version] identifier addressing at most one stored
//	  artifact. A tag without a version (or with the reserved version
//	  "latest") resolves through the name's latest pointer.
//
//	Artifact descriptors:
//	  Metadata persisted alongside an artifact's content, in particular
//	  its creation time, which drives latest pointer recomputation on
//	  deletion.
package model
