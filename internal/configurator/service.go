// internal/configurator/service.go
package configurator

import (
	"context"

	"github.com/google/uuid"

	"homeforge/internal/auth"
	"homeforge/internal/catalog"
	"homeforge/internal/commit"
	"homeforge/internal/money"
)

// Service defines the interface for the configurator service.
type Service interface {
	StartSession(ctx context.Context, planID string, basePrice money.Amount, identity *auth.Identity) (*View, error)
	GetSession(ctx context.Context, id uuid.UUID) (*View, error)
	Select(ctx context.Context, id uuid.UUID, category catalog.Category, opt catalog.Option) (*View, error)
	Toggle(ctx context.Context, id uuid.UUID, category catalog.Category, opt catalog.Option, included bool) (*View, error)
	Clear(ctx context.Context, id uuid.UUID, category catalog.Category) (*View, error)
	Advance(ctx context.Context, id uuid.UUID) (*View, error)
	Retreat(ctx context.Context, id uuid.UUID) (*View, error)
	GoTo(ctx context.Context, id uuid.UUID, index int) (*View, error)
	Flush(ctx context.Context, id uuid.UUID) error
	Commit(ctx context.Context, id uuid.UUID) (*commit.FinalRecord, error)
	EndSession(ctx context.Context, id uuid.UUID) error
}
