// Package status exports errors produced by the core package.
package status

import (
	"fmt"
	"strings"

	"github.com/oneconcern/modelstore/pkg/errors"
	"github.com/oneconcern/modelstore/pkg/model"
)

var (
	// ErrNotFound indicates that no item matched a get resolution: the
	// latest pointer, the exact version and the prefix fallback all missed
	ErrNotFound = errors.New("not found")

	// ErrExists indicates that a registration targeted a version subtree
	// that already exists. The store is left unmodified.
	ErrExists = errors.New("exists already")

	// ErrAmbiguousVersion indicates that a version prefix matched more than
	// one version. The carrying AmbiguousMatchError lists the candidates.
	ErrAmbiguousVersion = errors.New("multiple versions match")

	// ErrNoVersion indicates an operation requiring a fully qualified tag
	// was given a tag without an explicit version
	ErrNoVersion = errors.New("an explicit version is required")
)

// AmbiguousMatchError reports a version prefix matching several versions of a name.
//
// It matches ErrAmbiguousVersion through errors.Is.
type AmbiguousMatchError struct {
	Requested  model.Tag
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("multiple versions matched by %q: %s",
		e.Requested, strings.Join(e.Candidates, ", "))
}

// Is makes the typed error discoverable as ErrAmbiguousVersion
func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousVersion
}
