package reconcile

import (
	"slices"
	"testing"

	"github.com/desertthunder/albumsync/internal/models"
)

func TestCompute(t *testing.T) {
	tc := []struct {
		name       string
		desired    models.AssetIDSet
		current    models.AssetIDSet
		wantAdd    []string
		wantRemove []string
	}{
		{name: "overlap", desired: models.NewAssetIDSet("A", "B"), current: models.NewAssetIDSet("B", "C"), wantAdd: []string{"A"}, wantRemove: []string{"C"}},
		{name: "identical", desired: models.NewAssetIDSet("A", "B"), current: models.NewAssetIDSet("B", "A"), wantAdd: []string{}, wantRemove: []string{}},
		{name: "both empty", desired: models.NewAssetIDSet(), current: models.NewAssetIDSet(), wantAdd: []string{}, wantRemove: []string{}},
		{name: "new album", desired: models.NewAssetIDSet("A", "B"), current: nil, wantAdd: []string{"A", "B"}, wantRemove: []string{}},
		{name: "nothing matches anymore", desired: nil, current: models.NewAssetIDSet("X", "Y"), wantAdd: []string{}, wantRemove: []string{"X", "Y"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			plan := Compute(tt.desired, tt.current)

			if plan.ToAdd == nil || plan.ToRemove == nil {
				t.Fatal("plan sets must never be nil")
			}
			if got := plan.ToAdd.Sorted(); !slices.Equal(got, tt.wantAdd) {
				t.Errorf("ToAdd = %v, want %v", got, tt.wantAdd)
			}
			if got := plan.ToRemove.Sorted(); !slices.Equal(got, tt.wantRemove) {
				t.Errorf("ToRemove = %v, want %v", got, tt.wantRemove)
			}
			for id := range plan.ToAdd {
				if plan.ToRemove.Has(id) {
					t.Errorf("%s is both added and removed", id)
				}
			}
			if applied := plan.Apply(tt.current); !applied.Equal(tt.desired) {
				t.Errorf("Apply(current) = %v, want %v", applied.Sorted(), tt.desired.Sorted())
			}
			if again := Compute(tt.desired, plan.Apply(tt.current)); !again.Empty() {
				t.Errorf("second pass should be empty, got %+v", again)
			}
		})
	}
}

func TestComputeLeavesInputs(t *testing.T) {
	desired := models.NewAssetIDSet("A", "B")
	current := models.NewAssetIDSet("B", "C")

	plan := Compute(desired, current)
	plan.ToAdd.Add("Z")

	if desired.Len() != 2 || current.Len() != 2 || desired.Has("Z") {
		t.Error("inputs must not be modified")
	}
}

func TestDesired(t *testing.T) {
	set := Desired(
		[]models.Asset{{ID: "A"}, {ID: "B"}},
		nil,
		[]models.Asset{{ID: "B"}, {ID: "C"}},
	)
	if got := set.Sorted(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Desired = %v", got)
	}
	if Desired().Len() != 0 {
		t.Error("no results should give an empty set")
	}
}
