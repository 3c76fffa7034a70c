// internal/auth/domain.go
package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account is a buyer account allowed to persist configurations.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential stores the salted hash for an account.
type Credential struct {
	AccountID  uuid.UUID
	SecretHash string
	Salt       string
}

// Identity is the verified caller attached to a session. Sessions without an
// identity may browse and configure but never persist.
type Identity struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
}
