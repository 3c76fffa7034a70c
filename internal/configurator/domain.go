// internal/configurator/domain.go
package configurator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"homeforge/internal/auth"
	"homeforge/internal/autosave"
	"homeforge/internal/money"
	"homeforge/internal/pricing"
	"homeforge/internal/selection"
	"homeforge/internal/steps"
)

// session is one buyer's in-progress configuration of one plan. Each session
// owns its selection model and autosave controller outright; nothing is
// shared across sessions. The mutex serializes mutations so every user action
// runs the full mutate-then-recompute pipeline to completion before the next.
type session struct {
	id        uuid.UUID
	planID    string
	basePrice money.Amount
	identity  *auth.Identity

	mu    sync.Mutex
	model *selection.Model
	nav   steps.Navigation
	saver *autosave.Controller
}

// View is the derived, render-ready state of a session: the freshly computed
// price breakdown and navigation state for the current selection.
type View struct {
	ID             uuid.UUID         `json:"id"`
	PlanID         string            `json:"plan_id"`
	BasePrice      money.Amount      `json:"base_price"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
	FormattedTotal string            `json:"formatted_total"`
	Navigation     steps.State       `json:"navigation"`
	Saving         bool              `json:"saving"`
	LastSavedAt    *time.Time        `json:"last_saved_at,omitempty"`
}

// view derives the render state. Caller holds the session lock.
func (s *session) view(seq []steps.Definition) *View {
	breakdown := pricing.Compute(s.basePrice, s.model)
	v := &View{
		ID:             s.id,
		PlanID:         s.planID,
		BasePrice:      s.basePrice,
		Breakdown:      breakdown,
		FormattedTotal: money.Format(breakdown.GrandTotal),
		Navigation:     steps.Derive(seq, s.nav, s.model),
		Saving:         s.saver.Saving(),
	}
	if t := s.saver.LastSavedAt(); !t.IsZero() {
		v.LastSavedAt = &t
	}
	return v
}
