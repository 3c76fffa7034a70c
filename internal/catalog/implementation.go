// internal/catalog/implementation.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"homeforge/internal/money"
)

// service implements the Service interface.
type service struct {
	db *sql.DB
}

// NewService creates a new catalog service instance.
func NewService(db *sql.DB) Service {
	return &service{db: db}
}

// GetCatalog loads the full catalog snapshot for a plan.
func (s *service) GetCatalog(ctx context.Context, planID string) (*Snapshot, error) {
	snapshot := &Snapshot{
		PlanID:  planID,
		Options: make(map[Category][]Option),
	}

	if err := s.loadOptions(ctx, planID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to load options: %w", err)
	}
	if err := s.loadInteriorPackages(ctx, planID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to load interior packages: %w", err)
	}
	if err := s.loadLotPremiums(ctx, planID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to load lot premiums: %w", err)
	}

	return snapshot, nil
}

func (s *service) loadOptions(ctx context.Context, planID string, snapshot *Snapshot) error {
	query := `
		SELECT id, name, price, category, created_at, updated_at
		FROM options
		WHERE plan_id = $1
		ORDER BY category, name
	`
	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var opt Option
		var price sql.NullInt64
		if err := rows.Scan(&opt.ID, &opt.Name, &price, &opt.Category, &opt.CreatedAt, &opt.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		// NULL prices on legacy rows degrade to a zero contribution.
		if price.Valid {
			opt.Price = money.Amount(price.Int64)
		}
		snapshot.Options[opt.Category] = append(snapshot.Options[opt.Category], opt)
	}
	return rows.Err()
}

func (s *service) loadInteriorPackages(ctx context.Context, planID string, snapshot *Snapshot) error {
	query := `
		SELECT id, name, total_price
		FROM interior_packages
		WHERE plan_id = $1
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pkg InteriorPackage
		var price sql.NullInt64
		if err := rows.Scan(&pkg.ID, &pkg.Name, &price); err != nil {
			return fmt.Errorf("failed to scan interior package: %w", err)
		}
		if price.Valid {
			pkg.TotalPrice = money.Amount(price.Int64)
		}
		snapshot.InteriorPackages = append(snapshot.InteriorPackages, pkg)
	}
	return rows.Err()
}

func (s *service) loadLotPremiums(ctx context.Context, planID string, snapshot *Snapshot) error {
	query := `
		SELECT id, name, premium
		FROM lot_premiums
		WHERE plan_id = $1
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var lot LotPremium
		var premium sql.NullInt64
		if err := rows.Scan(&lot.ID, &lot.Name, &premium); err != nil {
			return fmt.Errorf("failed to scan lot premium: %w", err)
		}
		if premium.Valid {
			lot.Premium = money.Amount(premium.Int64)
		}
		snapshot.LotPremiums = append(snapshot.LotPremiums, lot)
	}
	return rows.Err()
}

// AddOption inserts a new selectable option for a plan.
func (s *service) AddOption(ctx context.Context, planID, name string, price money.Amount, category Category) (*Option, error) {
	if !category.Known() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if price < 0 {
		return nil, fmt.Errorf("option price must be non-negative, got %d", price)
	}

	opt := &Option{
		ID:       uuid.New(),
		Name:     name,
		Price:    price,
		Category: category,
	}

	query := `
		INSERT INTO options (id, plan_id, name, price, category)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, opt.ID, planID, opt.Name, int64(opt.Price), opt.Category); err != nil {
		return nil, fmt.Errorf("failed to insert option: %w", err)
	}

	return opt, nil
}

// RemoveOption deletes an option from the catalog.
func (s *service) RemoveOption(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM options WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("option with ID %s not found", id)
	}
	return nil
}
