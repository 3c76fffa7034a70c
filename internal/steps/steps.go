// internal/steps/steps.go
package steps

import (
	"homeforge/internal/catalog"
	"homeforge/internal/selection"
)

// Definition is one ordered configurator step: an identifier, a title, and the
// categories a buyer must fill before moving past it. Steps with no required
// categories are always complete.
type Definition struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Required []catalog.Category `json:"required,omitempty"`
}

// Sequence returns the ordered step table for a home configuration. The review
// step requires everything upstream; its Required list stays empty and its
// completeness is the conjunction of all prior steps.
func Sequence() []Definition {
	return []Definition{
		{ID: "exterior", Title: "Exterior", Required: []catalog.Category{catalog.CategoryElevation, catalog.CategoryColorScheme}},
		{ID: "structural", Title: "Structural Options"},
		{ID: "interior", Title: "Interior Package", Required: []catalog.Category{catalog.CategoryInteriorPackage}},
		{ID: "appliances", Title: "Appliances", Required: []catalog.Category{catalog.CategoryKitchenAppliance, catalog.CategoryLaundryAppliance}},
		{ID: "features", Title: "Additional Features"},
		{ID: "homesite", Title: "Homesite", Required: []catalog.Category{catalog.CategoryLotPremium}},
		{ID: "review", Title: "Review & Submit"},
	}
}

// RequiredCategories returns the union of every step's required categories, in
// step order. Commit validation runs against this list.
func RequiredCategories(seq []Definition) []catalog.Category {
	var all []catalog.Category
	seen := make(map[catalog.Category]bool)
	for _, step := range seq {
		for _, c := range step.Required {
			if !seen[c] {
				seen[c] = true
				all = append(all, c)
			}
		}
	}
	return all
}

// Complete evaluates a step's completeness predicate against the selection.
// The final step is complete only when every upstream requirement holds.
func Complete(seq []Definition, index int, model *selection.Model) bool {
	if index < 0 || index >= len(seq) {
		return false
	}
	if index == len(seq)-1 {
		for _, c := range RequiredCategories(seq) {
			if model.Empty(c) {
				return false
			}
		}
		return true
	}
	for _, c := range seq[index].Required {
		if model.Empty(c) {
			return false
		}
	}
	return true
}

// Navigation tracks where the buyer is in the sequence and how far they have
// ever gotten. furthest ratchets forward only: a step that was complete when
// the buyer was last on or past it stays counted even if its selections are
// later cleared.
type Navigation struct {
	Current  int `json:"current"`
	furthest int
}

// NewNavigation starts at the first step with nothing completed.
func NewNavigation() Navigation {
	return Navigation{Current: 0, furthest: -1}
}

// FurthestCompleted returns the highest step index ever observed complete
// while the buyer was on or past it.
func (n Navigation) FurthestCompleted() int {
	return n.furthest
}

// Sync re-evaluates completeness for every step at or before the current one
// and advances the ratchet. Called after every selection mutation and every
// navigation move.
func (n Navigation) Sync(seq []Definition, model *selection.Model) Navigation {
	for i := 0; i <= n.Current && i < len(seq); i++ {
		if i > n.furthest && Complete(seq, i, model) {
			n.furthest = i
		}
	}
	return n
}

// Reachable reports whether the buyer may jump directly to a step. Reachable
// steps form a contiguous prefix: everything up to one past the furthest
// completed step.
func (n Navigation) Reachable(index int) bool {
	return index >= 0 && index <= n.furthest+1
}

// Advance moves one step forward when the current step is complete. A no-op
// at the last step and while the current step's requirements are unmet.
func (n Navigation) Advance(seq []Definition, model *selection.Model) Navigation {
	n = n.Sync(seq, model)
	if n.Current >= len(seq)-1 {
		return n
	}
	if !Complete(seq, n.Current, model) {
		return n
	}
	n.Current++
	return n.Sync(seq, model)
}

// Retreat moves one step back. A no-op at the first step.
func (n Navigation) Retreat(seq []Definition, model *selection.Model) Navigation {
	if n.Current > 0 {
		n.Current--
	}
	return n.Sync(seq, model)
}

// GoTo jumps directly to a step when it is reachable; otherwise nothing
// changes and nothing is signalled.
func (n Navigation) GoTo(seq []Definition, model *selection.Model, index int) Navigation {
	n = n.Sync(seq, model)
	if index >= len(seq) || !n.Reachable(index) {
		return n
	}
	n.Current = index
	return n.Sync(seq, model)
}

// Progress is the display fraction (current+1)/total, always in (0, 1].
// Rounding to whole percent is the renderer's business.
func (n Navigation) Progress(seq []Definition) float64 {
	if len(seq) == 0 {
		return 1
	}
	return float64(n.Current+1) / float64(len(seq))
}

// State is the derived view of the sequence handed to callers: per-step
// completeness and reachability alongside the current position.
type State struct {
	Current  int         `json:"current"`
	Furthest int         `json:"furthest_completed"`
	Progress float64     `json:"progress"`
	Steps    []StepState `json:"steps"`
}

type StepState struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Complete  bool   `json:"complete"`
	Reachable bool   `json:"reachable"`
}

// Derive builds the full navigation view for a selection.
func Derive(seq []Definition, n Navigation, model *selection.Model) State {
	n = n.Sync(seq, model)
	st := State{
		Current:  n.Current,
		Furthest: n.furthest,
		Progress: n.Progress(seq),
		Steps:    make([]StepState, len(seq)),
	}
	for i, def := range seq {
		st.Steps[i] = StepState{
			ID:        def.ID,
			Title:     def.Title,
			Complete:  Complete(seq, i, model),
			Reachable: n.Reachable(i),
		}
	}
	return st
}
