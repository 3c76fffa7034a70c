// internal/selection/selection.go
package selection

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"homeforge/internal/catalog"
)

// InvalidSelectionError signals a contract violation: the caller addressed a
// category with an option that does not belong to it, or with an option absent
// from the session's catalog snapshot. The model is left unchanged.
type InvalidSelectionError struct {
	Category catalog.Category
	Option   string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection: option %q does not belong to category %q in the loaded catalog", e.Option, e.Category)
}

// Model is the in-memory record of what has been chosen per category. Every
// reference points at an option from the catalog snapshot supplied at session
// start. Mutations are synchronous and total: a failed mutation leaves the
// model exactly as it was.
type Model struct {
	snapshot *catalog.Snapshot
	single   map[catalog.Category]catalog.Option
	multi    map[catalog.Category]map[string]catalog.Option
}

// NewModel creates an empty selection model bound to a catalog snapshot.
func NewModel(snapshot *catalog.Snapshot) *Model {
	return &Model{
		snapshot: snapshot,
		single:   make(map[catalog.Category]catalog.Option),
		multi:    make(map[catalog.Category]map[string]catalog.Option),
	}
}

// resolve finds the snapshot's copy of opt within category, or fails with an
// InvalidSelectionError when the option is foreign to that category.
func (m *Model) resolve(category catalog.Category, opt catalog.Option) (catalog.Option, error) {
	if !category.Known() || (opt.Category != "" && opt.Category != category) {
		return catalog.Option{}, &InvalidSelectionError{Category: category, Option: opt.Name}
	}
	for _, candidate := range m.snapshot.OptionsFor(category) {
		if catalog.SameOption(candidate, opt) {
			return candidate, nil
		}
	}
	return catalog.Option{}, &InvalidSelectionError{Category: category, Option: opt.Name}
}

// Select chooses an option in a single-select category, replacing any prior
// choice in that category.
func (m *Model) Select(category catalog.Category, opt catalog.Option) error {
	if !category.SingleSelect() {
		return &InvalidSelectionError{Category: category, Option: opt.Name}
	}
	resolved, err := m.resolve(category, opt)
	if err != nil {
		return err
	}
	m.single[category] = resolved
	return nil
}

// Toggle adds or removes an option in a multi-select category. Toggling is
// idempotent: adding a present option or removing an absent one is a no-op.
func (m *Model) Toggle(category catalog.Category, opt catalog.Option, included bool) error {
	if category.SingleSelect() {
		return &InvalidSelectionError{Category: category, Option: opt.Name}
	}
	resolved, err := m.resolve(category, opt)
	if err != nil {
		return err
	}

	key := catalog.OptionKey(resolved)
	if included {
		if m.multi[category] == nil {
			m.multi[category] = make(map[string]catalog.Option)
		}
		m.multi[category][key] = resolved
	} else {
		delete(m.multi[category], key)
	}
	return nil
}

// Clear removes every choice in a category.
func (m *Model) Clear(category catalog.Category) {
	delete(m.single, category)
	delete(m.multi, category)
}

// Selected returns the chosen option in a single-select category.
func (m *Model) Selected(category catalog.Category) (catalog.Option, bool) {
	opt, ok := m.single[category]
	return opt, ok
}

// SelectedAll returns the chosen options in a multi-select category, ordered
// by identity key so callers see a stable view.
func (m *Model) SelectedAll(category catalog.Category) []catalog.Option {
	chosen := m.multi[category]
	if len(chosen) == 0 {
		return nil
	}
	keys := make([]string, 0, len(chosen))
	for k := range chosen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	opts := make([]catalog.Option, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, chosen[k])
	}
	return opts
}

// Empty reports whether a category has no choice at all.
func (m *Model) Empty(category catalog.Category) bool {
	if category.SingleSelect() {
		_, ok := m.single[category]
		return !ok
	}
	return len(m.multi[category]) == 0
}

// Catalog returns the snapshot the model was created against.
func (m *Model) Catalog() *catalog.Snapshot {
	return m.snapshot
}

// Snapshot is the persistence shape of a selection model: option references by
// identity key, grouped per category. Safe to overwrite repeatedly as a draft.
type Snapshot struct {
	PlanID string                           `json:"plan_id"`
	Single map[catalog.Category]OptionRef   `json:"single"`
	Multi  map[catalog.Category][]OptionRef `json:"multi"`
}

// OptionRef references a catalog option by ID, with the name kept for legacy
// rows that predate stable identifiers.
type OptionRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Snapshot captures the model's current state for persistence.
func (m *Model) Snapshot() Snapshot {
	snap := Snapshot{
		PlanID: m.snapshot.PlanID,
		Single: make(map[catalog.Category]OptionRef),
		Multi:  make(map[catalog.Category][]OptionRef),
	}
	for c, opt := range m.single {
		snap.Single[c] = OptionRef{ID: opt.ID, Name: opt.Name}
	}
	for c := range m.multi {
		for _, opt := range m.SelectedAll(c) {
			snap.Multi[c] = append(snap.Multi[c], OptionRef{ID: opt.ID, Name: opt.Name})
		}
	}
	return snap
}

// Restore rebuilds a model from a persisted snapshot against a freshly loaded
// catalog. References that no longer resolve are dropped silently; a stale
// draft must never wedge a new session.
func Restore(snap Snapshot, cat *catalog.Snapshot) *Model {
	m := NewModel(cat)
	for c, ref := range snap.Single {
		_ = m.Select(c, catalog.Option{ID: ref.ID, Name: ref.Name, Category: c})
	}
	for c, refs := range snap.Multi {
		for _, ref := range refs {
			_ = m.Toggle(c, catalog.Option{ID: ref.ID, Name: ref.Name, Category: c}, true)
		}
	}
	return m
}
