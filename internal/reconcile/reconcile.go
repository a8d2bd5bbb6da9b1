// package reconcile computes the minimal membership change for an album.
package reconcile

import "github.com/desertthunder/albumsync/internal/models"

// Compute returns what must be added to and removed from current so that it equals desired.
//
// Both sets of the returned plan are non-nil, disjoint, and applying the plan to
// current yields exactly desired. Neither input is modified.
func Compute(desired, current models.AssetIDSet) models.ReconciliationPlan {
	return models.ReconciliationPlan{
		ToAdd:    desired.Difference(current),
		ToRemove: current.Difference(desired),
	}
}

// Desired merges the results of every atomic query of an album.
func Desired(results ...[]models.Asset) models.AssetIDSet {
	set := models.NewAssetIDSet()
	for _, assets := range results {
		for _, a := range assets {
			set.Add(a.ID)
		}
	}
	return set
}
