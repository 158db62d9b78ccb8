package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCollection is returned when data loaded from any storage tier
// does not satisfy the collection invariants.
var ErrInvalidCollection = errors.New("invalid collection")

// Group represents a named, ordered bag of keywords.
//
// Groups are the user's organizational unit: a display name plus the
// keywords filed under it. Order of keywords within a group is
// user-controlled and must survive every persistence round trip.
type Group struct {
	// Name is the display key of the group.
	// Unique within a collection by convention (import matches on it),
	// but uniqueness is not enforced on direct edits.
	Name string `json:"name" yaml:"name"`

	// Keywords is the ordered list of stored terms.
	// Each entry is either a free-text search term or something
	// parseable as a URL. Never nil after normalization.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Collection is the full ordered set of groups.
//
// It is the single unit of persistence and sync: every mutation
// serializes and writes the entire collection, there is no per-group
// granularity in storage or network operations.
type Collection []Group

// Clone returns a deep copy. Storage tiers and renderers always work on
// copies so the working copy is never aliased outside its owner.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, g := range c {
		kws := make([]string, len(g.Keywords))
		copy(kws, g.Keywords)
		out[i] = Group{Name: g.Name, Keywords: kws}
	}
	return out
}

// Equal reports structural equality over the full ordered collection.
// The sync load protocol uses this to decide whether the remote copy
// differs from the cached one.
func (c Collection) Equal(other Collection) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i].Name != other[i].Name {
			return false
		}
		if len(c[i].Keywords) != len(other[i].Keywords) {
			return false
		}
		for j := range c[i].Keywords {
			if c[i].Keywords[j] != other[i].Keywords[j] {
				return false
			}
		}
	}
	return true
}

// KeywordCount returns the total number of keywords across all groups.
func (c Collection) KeywordCount() int {
	n := 0
	for _, g := range c {
		n += len(g.Keywords)
	}
	return n
}

// Validate checks the collection invariants: every group has a non-empty
// name and a keywords slice. Data failing validation is treated as
// corrupt by the load boundaries.
func (c Collection) Validate() error {
	for i, g := range c {
		if g.Name == "" {
			return fmt.Errorf("%w: group %d has empty name", ErrInvalidCollection, i)
		}
	}
	return nil
}

// Normalize replaces nil keyword slices with empty ones so that every
// group serializes as an array, never null.
func (c Collection) Normalize() {
	for i := range c {
		if c[i].Keywords == nil {
			c[i].Keywords = []string{}
		}
	}
}

// Default returns the built-in starter collection used on first run or
// when stored data is corrupt.
func Default() Collection {
	return Collection{
		{
			Name: "Popular Sites",
			Keywords: []string{
				"Google.com",
				"www.youtube.com",
				"fb",
				"https://x.com/",
				"https://www.amazon.com/",
				"https://www.whatsapp.com/",
				"https://www.reddit.com/",
				"https://www.linkedin.com/",
			},
		},
		{
			Name: "Streaming_MovieSites",
			Keywords: []string{
				"HdMovies2",
				"Netmirror",
				"hhdmovies.beauty",
				"MultiMovies",
				"https://hdhub4u.gs/",
			},
		},
		{
			Name: "Download_MovieSites",
			Keywords: []string{
				"KatMovieHD",
				"world4ufree",
				"HDhub4u",
				"VEGAMOVIES",
			},
		},
	}
}
