// internal/commit/commit.go
package commit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"homeforge/internal/catalog"
	"homeforge/internal/money"
	"homeforge/internal/pricing"
	"homeforge/internal/selection"
	"homeforge/internal/steps"
)

// DraftSaver persists a draft snapshot, marked complete at commit time.
type DraftSaver interface {
	SaveDraft(ctx context.Context, snap selection.Snapshot, complete bool) error
}

// FinalSaver persists the authoritative, validated configuration.
type FinalSaver interface {
	SaveFinal(ctx context.Context, rec FinalRecord) (uuid.UUID, error)
}

// Meta identifies whose configuration of which plan is being committed.
type Meta struct {
	OwnerID  uuid.UUID `json:"owner_id"`
	PlanID   string    `json:"plan_id"`
	PlanName string    `json:"plan_name,omitempty"`
}

// FinalRecord is the persistence shape of a committed configuration. Unlike a
// draft it requires every step's requirements to hold and carries the grand
// total it was priced at.
type FinalRecord struct {
	ID          uuid.UUID          `json:"id"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	PlanID      string             `json:"plan_id"`
	Selections  selection.Snapshot `json:"selections"`
	Breakdown   pricing.Breakdown  `json:"breakdown"`
	GrandTotal  money.Amount       `json:"grand_total"`
	CommittedAt time.Time          `json:"committed_at"`
}

// Violation is one user-correctable commit blocker: a required category with
// nothing selected.
type Violation struct {
	Category catalog.Category `json:"category"`
	Message  string           `json:"message"`
}

// ValidationError carries every violation found across the whole step
// sequence, so the caller can present the complete list at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "configuration incomplete: " + strings.Join(msgs, "; ")
}

// Controller validates and persists final configurations.
type Controller struct {
	drafts DraftSaver
	finals FinalSaver
}

// NewController creates a commit controller.
func NewController(drafts DraftSaver, finals FinalSaver) *Controller {
	return &Controller{drafts: drafts, finals: finals}
}

// Validate checks every category required by the complete step sequence and
// collects all violations rather than failing fast.
func Validate(seq []steps.Definition, model *selection.Model) []Violation {
	var violations []Violation
	for _, c := range steps.RequiredCategories(seq) {
		if model.Empty(c) {
			violations = append(violations, Violation{
				Category: c,
				Message:  fmt.Sprintf("a %s selection is required", strings.ReplaceAll(string(c), "_", " ")),
			})
		}
	}
	return violations
}

// Commit validates the whole flow and performs the final save. On validation
// failure it returns a *ValidationError and touches no storage. On success it
// first persists the draft marked complete, then the final record; if the
// final save fails the draft stays persisted but commit as a whole fails.
func (c *Controller) Commit(ctx context.Context, seq []steps.Definition, model *selection.Model, basePrice money.Amount, meta Meta) (*FinalRecord, error) {
	if violations := Validate(seq, model); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	snap := model.Snapshot()
	breakdown := pricing.Compute(basePrice, model)

	if err := c.drafts.SaveDraft(ctx, snap, true); err != nil {
		return nil, fmt.Errorf("failed to save completed draft: %w", err)
	}

	rec := FinalRecord{
		ID:          uuid.New(),
		OwnerID:     meta.OwnerID,
		PlanID:      meta.PlanID,
		Selections:  snap,
		Breakdown:   breakdown,
		GrandTotal:  breakdown.GrandTotal,
		CommittedAt: time.Now().UTC(),
	}

	if _, err := c.finals.SaveFinal(ctx, rec); err != nil {
		// The completed draft above survives, so nothing the buyer chose is
		// lost; the commit itself must be re-invoked.
		return nil, fmt.Errorf("failed to save final configuration: %w", err)
	}

	return &rec, nil
}
