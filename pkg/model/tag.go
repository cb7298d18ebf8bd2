package model

import (
	"fmt"
	"strings"
)

const (
	// Latest is the reserved version token resolving through the latest pointer
	Latest = "latest"

	// latestPointerFile is the per-name file holding the version designated as latest
	latestPointerFile = "latest"

	tagSeparator  = ":"
	pathSeparator = "/"
)

// Tag identifies a named, versioned artifact in a store.
//
// The zero version means "resolve via the latest pointer", as does the
// reserved version "latest".
type Tag struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	_ struct{}
}

// NewTag builds a tag from a name and a version
func NewTag(name, version string) Tag {
	return Tag{Name: name, Version: version}
}

// ParseTag parses "name" or "name:version" into a Tag.
//
// The input is split on the first separator: versions may themselves
// contain separators.
func ParseTag(taglike string) (Tag, error) {
	var t Tag
	t.Name, t.Version, _ = strings.Cut(taglike, tagSeparator)
	if err := t.Validate(); err != nil {
		return Tag{}, err
	}
	return t, nil
}

// MustParseTag parses a tag or panics. Intended for tests and constants.
func MustParseTag(taglike string) Tag {
	t, err := ParseTag(taglike)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate asserts that the tag maps to paths confined to its name's subtree
func (t Tag) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tag name may not be empty")
	}
	if err := validatePathComponent("tag name", t.Name); err != nil {
		return err
	}
	if t.Version != "" {
		return validatePathComponent("tag version", t.Version)
	}
	return nil
}

func validatePathComponent(what, component string) error {
	if strings.ContainsAny(component, `/\`) {
		return fmt.Errorf("%s %q may not contain path separators", what, component)
	}
	if component == "." || component == ".." {
		return fmt.Errorf("%s %q would escape its subtree", what, component)
	}
	return nil
}

// IsVersioned tells whether the tag carries an explicit, non-reserved version
func (t Tag) IsVersioned() bool {
	return t.Version != "" && t.Version != Latest
}

// WithVersion yields a copy of the tag with another version
func (t Tag) WithVersion(version string) Tag {
	t.Version = version
	return t
}

// Path yields the backend path of the tag's subtree: name/version,
// or just the name's subtree when no explicit version is set.
func (t Tag) Path() string {
	if !t.IsVersioned() {
		return t.Name
	}
	return t.Name + pathSeparator + t.Version
}

// LatestPath yields the backend path of the name's latest pointer file,
// independent of the tag's own version.
func (t Tag) LatestPath() string {
	return t.Name + pathSeparator + latestPointerFile
}

// Less orders tags by name, then by version string.
//
// This is plain string ordering, not semantic version ordering.
func (t Tag) Less(other Tag) bool {
	if t.Name != other.Name {
		return t.Name < other.Name
	}
	return t.Version < other.Version
}

// String renders the tag as name[:version]
func (t Tag) String() string {
	if t.Version == "" {
		return t.Name
	}
	return t.Name + tagSeparator + t.Version
}
