// internal/auth/service.go
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the auth service.
type Service interface {
	Register(ctx context.Context, email, name, password string) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Account, string, error)
	Verify(ctx context.Context, token string) (*Identity, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
}
