// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"homeforge/internal/commit"
	"homeforge/internal/selection"
)

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrAlreadyCommitted = errors.New("configuration already committed for this plan")
)

// DraftRecord is a stored in-progress configuration. Drafts are upserted
// keyed by (owner, plan), so repeated autosaves overwrite in place.
type DraftRecord struct {
	ID         uuid.UUID          `json:"id"`
	OwnerID    uuid.UUID          `json:"owner_id"`
	PlanID     string             `json:"plan_id"`
	Selections selection.Snapshot `json:"selections"`
	IsComplete bool               `json:"is_complete"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Store persists draft and final configurations in postgres.
type Store struct {
	db         *sql.DB
	tracer     trace.Tracer
	draftSaves metric.Int64Counter
}

// NewStore creates a configuration store.
func NewStore(db *sql.DB) *Store {
	meter := otel.Meter("homeforge/store")
	draftSaves, _ := meter.Int64Counter("homeforge.draft_saves",
		metric.WithDescription("Number of draft configuration saves"))

	return &Store{
		db:         db,
		tracer:     otel.Tracer("homeforge/store"),
		draftSaves: draftSaves,
	}
}

// SaveDraft upserts the draft for (owner, plan). The write is idempotent:
// saving the same settled state twice leaves one row.
func (s *Store) SaveDraft(ctx context.Context, ownerID uuid.UUID, snap selection.Snapshot, complete bool) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "store.save_draft",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID.String()),
			attribute.String("plan.id", snap.PlanID),
			attribute.Bool("draft.complete", complete),
		),
	)
	defer span.End()

	selections, err := json.Marshal(snap)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal selections: %w", err)
	}

	id := uuid.New()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO drafts (id, owner_id, plan_id, selections, is_complete, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, plan_id) DO UPDATE
		SET selections = EXCLUDED.selections,
		    is_complete = EXCLUDED.is_complete,
		    updated_at = EXCLUDED.updated_at
		RETURNING id
	`, id, ownerID, snap.PlanID, selections, complete, time.Now().UTC()).Scan(&id)

	if err != nil {
		span.RecordError(err)
		return uuid.Nil, fmt.Errorf("upsert draft: %w", err)
	}

	s.draftSaves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("complete", complete)))
	span.SetAttributes(attribute.String("draft.id", id.String()))
	return id, nil
}

// LoadDraft returns the stored draft for (owner, plan), or ErrDraftNotFound.
func (s *Store) LoadDraft(ctx context.Context, ownerID uuid.UUID, planID string) (*DraftRecord, error) {
	ctx, span := s.tracer.Start(ctx, "store.load_draft",
		trace.WithAttributes(
			attribute.String("owner.id", ownerID.String()),
			attribute.String("plan.id", planID),
		),
	)
	defer span.End()

	rec := &DraftRecord{}
	var selections []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, plan_id, selections, is_complete, updated_at
		FROM drafts
		WHERE owner_id = $1 AND plan_id = $2
	`, ownerID, planID).Scan(&rec.ID, &rec.OwnerID, &rec.PlanID, &selections, &rec.IsComplete, &rec.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query draft: %w", err)
	}

	if err := json.Unmarshal(selections, &rec.Selections); err != nil {
		return nil, fmt.Errorf("unmarshal selections: %w", err)
	}

	return rec, nil
}

// SaveFinal inserts the committed configuration. A second commit for the same
// (owner, plan) trips the unique constraint and maps to ErrAlreadyCommitted.
func (s *Store) SaveFinal(ctx context.Context, rec commit.FinalRecord) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "store.save_final",
		trace.WithAttributes(
			attribute.String("owner.id", rec.OwnerID.String()),
			attribute.String("plan.id", rec.PlanID),
			attribute.Int64("grand.total", int64(rec.GrandTotal)),
		),
	)
	defer span.End()

	selections, err := json.Marshal(rec.Selections)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal selections: %w", err)
	}
	breakdown, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO finals (id, owner_id, plan_id, selections, breakdown, grand_total, committed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.OwnerID, rec.PlanID, selections, breakdown, int64(rec.GrandTotal), rec.CommittedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			span.SetAttributes(attribute.Bool("conflict.detected", true))
			return uuid.Nil, ErrAlreadyCommitted
		}
		span.RecordError(err)
		return uuid.Nil, fmt.Errorf("insert final: %w", err)
	}

	span.SetAttributes(attribute.String("final.id", rec.ID.String()))
	return rec.ID, nil
}
