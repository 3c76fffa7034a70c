// internal/auth/implementation.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// service implements the Service interface.
type service struct {
	db          *sql.DB
	tokenSecret []byte
	rateLimiter *rate.Limiter
}

// NewService creates a new auth service instance.
func NewService(db *sql.DB, tokenSecret []byte) Service {
	return &service{
		db:          db,
		tokenSecret: tokenSecret,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 10), // 10 attempts per minute
	}
}

// Register creates a new buyer account.
func (s *service) Register(ctx context.Context, email, name, password string) (*Account, error) {
	if !s.rateLimiter.Allow() {
		return nil, fmt.Errorf("rate limit exceeded")
	}

	hash, salt, err := hashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}
	credential := &Credential{
		AccountID:  account.ID,
		SecretHash: hash,
		Salt:       salt,
	}

	if err := s.insertAccount(ctx, account, credential); err != nil {
		return nil, fmt.Errorf("failed to store account: %w", err)
	}

	return account, nil
}

func (s *service) insertAccount(ctx context.Context, account *Account, credential *Credential) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	accountQuery := `
		INSERT INTO accounts (id, email, name, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, accountQuery, account.ID, account.Email, account.Name, account.Status, account.CreatedAt)
	if err != nil {
		return err
	}

	credQuery := `
		INSERT INTO credentials (account_id, secret_hash, salt)
		VALUES ($1, $2, $3)
	`
	_, err = tx.ExecContext(ctx, credQuery, credential.AccountID, credential.SecretHash, credential.Salt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Authenticate verifies credentials and returns the account with a signed
// session token.
func (s *service) Authenticate(ctx context.Context, email, password string) (*Account, string, error) {
	if !s.rateLimiter.Allow() {
		return nil, "", fmt.Errorf("rate limit exceeded")
	}

	account, err := s.getAccountByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("authentication failed: %w", err)
	}

	credential, err := s.getCredential(ctx, account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("authentication failed: %w", err)
	}

	ok, err := checkSecret(password, credential.Salt, credential.SecretHash)
	if err != nil {
		return nil, "", fmt.Errorf("authentication failed: %w", err)
	}
	if !ok {
		return nil, "", fmt.Errorf("authentication failed: invalid credentials")
	}

	token, err := issueToken(s.tokenSecret, account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return account, token, nil
}

// Verify parses and validates a session token.
func (s *service) Verify(ctx context.Context, token string) (*Identity, error) {
	return parseToken(s.tokenSecret, token)
}

// GetAccount retrieves an account by ID.
func (s *service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := `
		SELECT id, email, name, status, created_at
		FROM accounts
		WHERE id = $1
	`
	account := &Account{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.Status,
		&account.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

func (s *service) getAccountByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, email, name, status, created_at
		FROM accounts
		WHERE email = $1
	`
	account := &Account{}
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.Status,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) getCredential(ctx context.Context, accountID uuid.UUID) (*Credential, error) {
	query := `
		SELECT account_id, secret_hash, salt
		FROM credentials
		WHERE account_id = $1
	`
	credential := &Credential{}
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&credential.AccountID,
		&credential.SecretHash,
		&credential.Salt,
	)
	if err != nil {
		return nil, err
	}
	return credential, nil
}
