// internal/commit/commit_test.go
package commit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeforge/internal/catalog"
	"homeforge/internal/money"
	"homeforge/internal/selection"
	"homeforge/internal/steps"
)

type recordingDrafts struct {
	calls    int
	complete []bool
	err      error
}

func (d *recordingDrafts) SaveDraft(ctx context.Context, snap selection.Snapshot, complete bool) error {
	d.calls++
	d.complete = append(d.complete, complete)
	return d.err
}

type recordingFinals struct {
	calls int
	last  FinalRecord
	err   error
}

func (f *recordingFinals) SaveFinal(ctx context.Context, rec FinalRecord) (uuid.UUID, error) {
	f.calls++
	f.last = rec
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return rec.ID, nil
}

func testSnapshot() *catalog.Snapshot {
	opt := func(name string, price money.Amount, c catalog.Category) catalog.Option {
		return catalog.Option{ID: uuid.New(), Name: name, Price: price, Category: c}
	}
	return &catalog.Snapshot{
		PlanID: "plan-28",
		Options: map[catalog.Category][]catalog.Option{
			catalog.CategoryElevation:        {opt("Elevation A", 0, catalog.CategoryElevation)},
			catalog.CategoryColorScheme:      {opt("Coastal", 120000, catalog.CategoryColorScheme)},
			catalog.CategoryKitchenAppliance: {opt("Gas Package", 320000, catalog.CategoryKitchenAppliance)},
			catalog.CategoryLaundryAppliance: {opt("Front Load Pair", 180000, catalog.CategoryLaundryAppliance)},
		},
		InteriorPackages: []catalog.InteriorPackage{{ID: uuid.New(), Name: "Designer", TotalPrice: 15000}},
		LotPremiums:      []catalog.LotPremium{{ID: uuid.New(), Name: "Corner Lot", Premium: 750000}},
	}
}

func completeModel(t *testing.T, snap *catalog.Snapshot) *selection.Model {
	t.Helper()
	model := selection.NewModel(snap)
	require.NoError(t, model.Select(catalog.CategoryElevation, snap.Options[catalog.CategoryElevation][0]))
	require.NoError(t, model.Select(catalog.CategoryColorScheme, snap.Options[catalog.CategoryColorScheme][0]))
	require.NoError(t, model.Select(catalog.CategoryInteriorPackage, snap.InteriorPackages[0].AsOption()))
	require.NoError(t, model.Select(catalog.CategoryKitchenAppliance, snap.Options[catalog.CategoryKitchenAppliance][0]))
	require.NoError(t, model.Select(catalog.CategoryLaundryAppliance, snap.Options[catalog.CategoryLaundryAppliance][0]))
	require.NoError(t, model.Select(catalog.CategoryLotPremium, snap.LotPremiums[0].AsOption()))
	return model
}

func TestCommitWithNothingSelected(t *testing.T) {
	drafts := &recordingDrafts{}
	finals := &recordingFinals{}
	ctl := NewController(drafts, finals)
	seq := steps.Sequence()
	model := selection.NewModel(testSnapshot())

	rec, err := ctl.Commit(context.Background(), seq, model, 300000, Meta{OwnerID: uuid.New(), PlanID: "plan-28"})

	require.Nil(t, rec)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Violations, len(steps.RequiredCategories(seq)),
		"one violation per required category across the whole flow")
	assert.Zero(t, drafts.calls, "validation failure performs no persistence")
	assert.Zero(t, finals.calls)
}

func TestCommitCollectsAllViolationsNotJustTheFirst(t *testing.T) {
	snap := testSnapshot()
	model := selection.NewModel(snap)
	require.NoError(t, model.Select(catalog.CategoryElevation, snap.Options[catalog.CategoryElevation][0]))

	violations := Validate(steps.Sequence(), model)

	assert.Len(t, violations, 5)
	for _, v := range violations {
		assert.NotEqual(t, catalog.CategoryElevation, v.Category)
		assert.NotEmpty(t, v.Message)
	}
}

func TestCommitSuccess(t *testing.T) {
	drafts := &recordingDrafts{}
	finals := &recordingFinals{}
	ctl := NewController(drafts, finals)
	seq := steps.Sequence()
	snap := testSnapshot()
	model := completeModel(t, snap)
	owner := uuid.New()

	rec, err := ctl.Commit(context.Background(), seq, model, 300000, Meta{OwnerID: owner, PlanID: "plan-28"})

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, owner, rec.OwnerID)
	assert.Equal(t, "plan-28", rec.PlanID)
	// 300000 + 0 + 120000 + 15000 + 320000 + 180000 + 750000
	assert.Equal(t, money.Amount(1685000), rec.GrandTotal)

	require.Equal(t, 1, drafts.calls)
	assert.True(t, drafts.complete[0], "the pre-commit draft is marked complete")
	assert.Equal(t, 1, finals.calls)
	assert.Equal(t, rec.GrandTotal, finals.last.GrandTotal)
}

func TestCommitFailedFinalSaveKeepsDraft(t *testing.T) {
	drafts := &recordingDrafts{}
	finals := &recordingFinals{err: errors.New("persistence offline")}
	ctl := NewController(drafts, finals)
	seq := steps.Sequence()
	model := completeModel(t, testSnapshot())

	rec, err := ctl.Commit(context.Background(), seq, model, 300000, Meta{OwnerID: uuid.New(), PlanID: "plan-28"})

	require.Error(t, err)
	assert.Nil(t, rec)
	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr), "a persistence failure is not a validation failure")
	assert.Equal(t, 1, drafts.calls, "the completed draft stays persisted")
	assert.Equal(t, 1, finals.calls)
}

func TestCommitFailedDraftSaveStopsBeforeFinal(t *testing.T) {
	drafts := &recordingDrafts{err: errors.New("persistence offline")}
	finals := &recordingFinals{}
	ctl := NewController(drafts, finals)
	model := completeModel(t, testSnapshot())

	rec, err := ctl.Commit(context.Background(), steps.Sequence(), model, 300000, Meta{OwnerID: uuid.New(), PlanID: "plan-28"})

	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, finals.calls)
}
