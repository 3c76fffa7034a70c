// internal/selection/selection_test.go
package selection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeforge/internal/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		PlanID: "plan-28",
		Options: map[catalog.Category][]catalog.Option{
			catalog.CategoryElevation: {
				{ID: uuid.New(), Name: "Elevation A", Price: 0, Category: catalog.CategoryElevation},
				{ID: uuid.New(), Name: "Elevation B", Price: 450000, Category: catalog.CategoryElevation},
			},
			catalog.CategoryStructural: {
				{ID: uuid.New(), Name: "Covered Patio", Price: 1000, Category: catalog.CategoryStructural},
				// Legacy row without a stable identifier: matched by name.
				{Name: "Bay Window", Price: 1500, Category: catalog.CategoryStructural},
			},
		},
		InteriorPackages: []catalog.InteriorPackage{
			{ID: uuid.New(), Name: "Designer", TotalPrice: 15000},
		},
	}
}

func TestSelectReplacesPriorChoice(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)
	a := snap.Options[catalog.CategoryElevation][0]
	b := snap.Options[catalog.CategoryElevation][1]

	require.NoError(t, model.Select(catalog.CategoryElevation, a))
	require.NoError(t, model.Select(catalog.CategoryElevation, b))

	got, ok := model.Selected(catalog.CategoryElevation)
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
}

func TestSelectRejectsForeignOption(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)
	patio := snap.Options[catalog.CategoryStructural][0]

	// An option classified as structural must not land in the elevation slot.
	err := model.Select(catalog.CategoryElevation, patio)

	var invalidErr *InvalidSelectionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, catalog.CategoryElevation, invalidErr.Category)
	assert.Equal(t, "Covered Patio", invalidErr.Option)
	assert.True(t, model.Empty(catalog.CategoryElevation), "failed select must leave the model unchanged")
}

func TestSelectRejectsOptionAbsentFromSnapshot(t *testing.T) {
	model := NewModel(testSnapshot())
	foreign := catalog.Option{ID: uuid.New(), Name: "Imported Elevation", Category: catalog.CategoryElevation}

	err := model.Select(catalog.CategoryElevation, foreign)

	var invalidErr *InvalidSelectionError
	require.ErrorAs(t, err, &invalidErr)
	assert.True(t, model.Empty(catalog.CategoryElevation))
}

func TestSelectRejectsMultiCategoryAddress(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)

	err := model.Select(catalog.CategoryStructural, snap.Options[catalog.CategoryStructural][0])

	var invalidErr *InvalidSelectionError
	require.ErrorAs(t, err, &invalidErr)
}

func TestToggleIsIdempotent(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)
	patio := snap.Options[catalog.CategoryStructural][0]

	require.NoError(t, model.Toggle(catalog.CategoryStructural, patio, true))
	require.NoError(t, model.Toggle(catalog.CategoryStructural, patio, true))
	assert.Len(t, model.SelectedAll(catalog.CategoryStructural), 1)

	require.NoError(t, model.Toggle(catalog.CategoryStructural, patio, false))
	require.NoError(t, model.Toggle(catalog.CategoryStructural, patio, false))
	assert.Empty(t, model.SelectedAll(catalog.CategoryStructural))
}

func TestToggleMatchesLegacyRowByName(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)

	// The caller only knows the name; the snapshot row has no ID either.
	require.NoError(t, model.Toggle(catalog.CategoryStructural, catalog.Option{Name: "Bay Window", Category: catalog.CategoryStructural}, true))

	all := model.SelectedAll(catalog.CategoryStructural)
	require.Len(t, all, 1)
	assert.Equal(t, "Bay Window", all[0].Name)
	assert.Equal(t, int64(1500), int64(all[0].Price), "resolved against the snapshot, price included")

	require.NoError(t, model.Toggle(catalog.CategoryStructural, catalog.Option{Name: "Bay Window", Category: catalog.CategoryStructural}, false))
	assert.Empty(t, model.SelectedAll(catalog.CategoryStructural))
}

func TestClear(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)
	require.NoError(t, model.Select(catalog.CategoryElevation, snap.Options[catalog.CategoryElevation][0]))
	require.NoError(t, model.Toggle(catalog.CategoryStructural, snap.Options[catalog.CategoryStructural][0], true))

	model.Clear(catalog.CategoryElevation)
	model.Clear(catalog.CategoryStructural)

	assert.True(t, model.Empty(catalog.CategoryElevation))
	assert.True(t, model.Empty(catalog.CategoryStructural))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)
	require.NoError(t, model.Select(catalog.CategoryElevation, snap.Options[catalog.CategoryElevation][1]))
	require.NoError(t, model.Select(catalog.CategoryInteriorPackage, snap.InteriorPackages[0].AsOption()))
	require.NoError(t, model.Toggle(catalog.CategoryStructural, snap.Options[catalog.CategoryStructural][0], true))
	require.NoError(t, model.Toggle(catalog.CategoryStructural, catalog.Option{Name: "Bay Window", Category: catalog.CategoryStructural}, true))

	restored := Restore(model.Snapshot(), snap)

	elevation, ok := restored.Selected(catalog.CategoryElevation)
	require.True(t, ok)
	assert.Equal(t, "Elevation B", elevation.Name)
	interior, ok := restored.Selected(catalog.CategoryInteriorPackage)
	require.True(t, ok)
	assert.Equal(t, "Designer", interior.Name)
	assert.Len(t, restored.SelectedAll(catalog.CategoryStructural), 2)
}

func TestRestoreDropsStaleReferences(t *testing.T) {
	snap := testSnapshot()
	model := NewModel(snap)
	require.NoError(t, model.Select(catalog.CategoryElevation, snap.Options[catalog.CategoryElevation][0]))
	persisted := model.Snapshot()

	// The catalog changed between draft save and resume: the chosen elevation
	// is gone. The stale reference is dropped rather than wedging the session.
	pruned := &catalog.Snapshot{
		PlanID: snap.PlanID,
		Options: map[catalog.Category][]catalog.Option{
			catalog.CategoryElevation: {snap.Options[catalog.CategoryElevation][1]},
		},
	}

	restored := Restore(persisted, pruned)
	assert.True(t, restored.Empty(catalog.CategoryElevation))
}
