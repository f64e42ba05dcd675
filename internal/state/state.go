package state

import (
	"slices"

	"github.com/five82/shopfront/internal/catalog"
)

// Status is the lifecycle of the product fetch. Exactly one value holds.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// DefaultFailureReason is recorded when a rejected fetch carries no message.
const DefaultFailureReason = "Failed to load"

// State is the canonical snapshot. Values returned by Store.GetState share
// their slices with the store and must be treated as read-only.
type State struct {
	Items     []catalog.Item
	Favorites FavoriteIDs
	Status    Status
	Error     string
}

// Initial returns the state a fresh container starts from.
func Initial() State {
	return State{Status: StatusIdle}
}

// Failed reports whether the last fetch was rejected.
func (s State) Failed() bool {
	return s.Status == StatusFailed
}

// Loading reports whether a fetch is outstanding.
func (s State) Loading() bool {
	return s.Status == StatusLoading
}

// FavoriteIDs is a duplicate-free set of item ids kept in insertion order so
// it serializes deterministically. Every mutation returns a new slice.
type FavoriteIDs []int64

// Contains reports whether id is a favorite.
func (f FavoriteIDs) Contains(id int64) bool {
	return slices.Contains(f, id)
}

// Toggle returns a new set with id removed when present, appended otherwise.
func (f FavoriteIDs) Toggle(id int64) FavoriteIDs {
	if idx := slices.Index(f, id); idx >= 0 {
		out := make(FavoriteIDs, 0, len(f)-1)
		out = append(out, f[:idx]...)
		return append(out, f[idx+1:]...)
	}
	out := make(FavoriteIDs, 0, len(f)+1)
	out = append(out, f...)
	return append(out, id)
}

// Lookup returns the set as a map for O(1) membership checks.
func (f FavoriteIDs) Lookup() map[int64]struct{} {
	m := make(map[int64]struct{}, len(f))
	for _, id := range f {
		m[id] = struct{}{}
	}
	return m
}

// Normalize drops duplicates while keeping first-seen order. Used when ids
// come from outside the reducer, e.g. persisted payloads.
func Normalize(ids []int64) FavoriteIDs {
	seen := make(map[int64]struct{}, len(ids))
	out := make(FavoriteIDs, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SameFavorites reports whether a and b are the same slice (identity, not
// equality). The reducer never mutates in place, so identity implies equality.
// Empty slices are compared only by nil-ness.
func SameFavorites(a, b FavoriteIDs) bool {
	return sameSlice(a, b)
}

// SameItems reports whether a and b are the same item slice.
func SameItems(a, b []catalog.Item) bool {
	return sameSlice(a, b)
}

// sameSlice compares non-empty slices by backing array and length. Empty
// slices have no element to compare, so they only match on nil-ness: two
// distinct non-nil empty slices count as the same.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
