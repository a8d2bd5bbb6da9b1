package models

import (
	"maps"
	"slices"
)

// AssetIDSet is a set of asset identifiers.
type AssetIDSet map[string]struct{}

// NewAssetIDSet builds a set from ids, dropping duplicates.
func NewAssetIDSet(ids ...string) AssetIDSet {
	s := make(AssetIDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// AssetIDSetOf collects the identifiers of assets.
func AssetIDSetOf(assets []Asset) AssetIDSet {
	s := make(AssetIDSet, len(assets))
	for _, a := range assets {
		s[a.ID] = struct{}{}
	}
	return s
}

func (s AssetIDSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s AssetIDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s AssetIDSet) Len() int { return len(s) }

// Union returns a new set holding the members of s and other.
func (s AssetIDSet) Union(other AssetIDSet) AssetIDSet {
	out := maps.Clone(s)
	if out == nil {
		out = AssetIDSet{}
	}
	maps.Copy(out, other)
	return out
}

// Difference returns a new set holding the members of s that are not in other.
func (s AssetIDSet) Difference(other AssetIDSet) AssetIDSet {
	out := AssetIDSet{}
	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold the same members.
func (s AssetIDSet) Equal(other AssetIDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s AssetIDSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// ReconciliationPlan lists the changes that turn an album's current members into the desired ones.
type ReconciliationPlan struct {
	ToAdd    AssetIDSet
	ToRemove AssetIDSet
}

// Empty reports whether the plan has nothing to do.
func (p ReconciliationPlan) Empty() bool {
	return p.ToAdd.Len() == 0 && p.ToRemove.Len() == 0
}

// Apply returns the membership that results from applying the plan to current.
func (p ReconciliationPlan) Apply(current AssetIDSet) AssetIDSet {
	return current.Difference(p.ToRemove).Union(p.ToAdd)
}
