// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"

	"homeforge/internal/money"
)

// Service defines the interface for the catalog service.
type Service interface {
	GetCatalog(ctx context.Context, planID string) (*Snapshot, error)
	AddOption(ctx context.Context, planID, name string, price money.Amount, category Category) (*Option, error)
	RemoveOption(ctx context.Context, id uuid.UUID) error
}
