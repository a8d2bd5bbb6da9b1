// Package query turns an album's declarative filter into the atomic searches
// the photo service can execute.
//
// The search endpoint accepts one conjunctive filter per request, so every
// disjunction in a [models.FilterExpression] (countries, timespans and
// any_people) becomes a separate branch. [Expand] resolves names and
// validates the expression up front, then returns an [Expansion] whose
// [Expansion.All] lazily yields the Cartesian product of the branches.
//
// Names are resolved against a prefetched [models.NameMapping]; references
// already in UUID form pass through untouched. Unresolved names are reported
// together in one [UnresolvedError].
package query
