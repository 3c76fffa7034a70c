// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"

	"homeforge/internal/money"
)

// Category is one dimension of home configuration. Each category is either
// single-select (at most one option chosen) or multi-select.
type Category string

const (
	CategoryElevation         Category = "elevation"
	CategoryColorScheme       Category = "color_scheme"
	CategoryInteriorPackage   Category = "interior_package"
	CategoryKitchenAppliance  Category = "kitchen_appliance"
	CategoryLaundryAppliance  Category = "laundry_appliance"
	CategoryLotPremium        Category = "lot_premium"
	CategoryStructural        Category = "structural"
	CategoryAdditionalFeature Category = "additional_feature"
)

// SingleSelect reports whether a category permits at most one chosen option.
func (c Category) SingleSelect() bool {
	switch c {
	case CategoryStructural, CategoryAdditionalFeature:
		return false
	default:
		return true
	}
}

// Known reports whether c is one of the configurable categories.
func (c Category) Known() bool {
	switch c {
	case CategoryElevation, CategoryColorScheme, CategoryInteriorPackage,
		CategoryKitchenAppliance, CategoryLaundryAppliance, CategoryLotPremium,
		CategoryStructural, CategoryAdditionalFeature:
		return true
	}
	return false
}

// Categories lists every configurable category in display order.
func Categories() []Category {
	return []Category{
		CategoryElevation,
		CategoryColorScheme,
		CategoryInteriorPackage,
		CategoryKitchenAppliance,
		CategoryLaundryAppliance,
		CategoryLotPremium,
		CategoryStructural,
		CategoryAdditionalFeature,
	}
}

// Option is a purchasable configuration choice supplied by the catalog. Legacy
// rows predating stable identifiers carry a nil ID; those are matched by name.
type Option struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Price     money.Amount `json:"price"`
	Category  Category     `json:"category"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
	UpdatedAt time.Time    `json:"updated_at,omitempty"`
}

// InteriorPackage is a bundled interior finish. Its cost field is named
// total_price upstream but plays the same additive role as an option price.
type InteriorPackage struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	TotalPrice money.Amount `json:"total_price"`
}

// AsOption projects an interior package into the interior package category.
func (p InteriorPackage) AsOption() Option {
	return Option{ID: p.ID, Name: p.Name, Price: p.TotalPrice, Category: CategoryInteriorPackage}
}

// LotPremium is the surcharge attached to a homesite.
type LotPremium struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Premium money.Amount `json:"premium"`
}

// AsOption projects a lot premium into the lot premium category.
func (l LotPremium) AsOption() Option {
	return Option{ID: l.ID, Name: l.Name, Price: l.Premium, Category: CategoryLotPremium}
}

// Snapshot is the complete catalog for one plan, loaded once per configurator
// session and treated as immutable for its duration.
type Snapshot struct {
	PlanID           string                `json:"plan_id"`
	Options          map[Category][]Option `json:"options"`
	InteriorPackages []InteriorPackage     `json:"interior_packages"`
	LotPremiums      []LotPremium          `json:"lot_premiums"`
}

// OptionsFor returns the selectable options for a category, folding interior
// packages and lot premiums into their respective categories.
func (s *Snapshot) OptionsFor(c Category) []Option {
	switch c {
	case CategoryInteriorPackage:
		opts := make([]Option, 0, len(s.InteriorPackages))
		for _, p := range s.InteriorPackages {
			opts = append(opts, p.AsOption())
		}
		return opts
	case CategoryLotPremium:
		opts := make([]Option, 0, len(s.LotPremiums))
		for _, l := range s.LotPremiums {
			opts = append(opts, l.AsOption())
		}
		return opts
	default:
		return s.Options[c]
	}
}

// SameOption reports whether two options identify the same catalog entry.
// Identity is ID equality; name equality is a compatibility shim for legacy
// rows without identifiers and goes away once the catalog is fully migrated.
func SameOption(a, b Option) bool {
	if a.ID != uuid.Nil && b.ID != uuid.Nil {
		return a.ID == b.ID
	}
	return a.Name == b.Name
}

// OptionKey returns the identity key an option is deduplicated under.
func OptionKey(o Option) string {
	if o.ID != uuid.Nil {
		return o.ID.String()
	}
	return "name:" + o.Name
}
