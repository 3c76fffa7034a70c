// internal/configurator/implementation.go
package configurator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"homeforge/internal/auth"
	"homeforge/internal/autosave"
	"homeforge/internal/catalog"
	"homeforge/internal/commit"
	"homeforge/internal/money"
	"homeforge/internal/selection"
	"homeforge/internal/steps"
	"homeforge/internal/store"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotAuthorized   = errors.New("session is not authorized to commit")
)

// CatalogSource supplies the catalog snapshot a session is started against.
type CatalogSource interface {
	GetCatalog(ctx context.Context, planID string) (*catalog.Snapshot, error)
}

// DraftStore persists and resumes in-progress configurations.
type DraftStore interface {
	SaveDraft(ctx context.Context, ownerID uuid.UUID, snap selection.Snapshot, complete bool) (uuid.UUID, error)
	LoadDraft(ctx context.Context, ownerID uuid.UUID, planID string) (*store.DraftRecord, error)
}

// FinalStore persists committed configurations.
type FinalStore interface {
	SaveFinal(ctx context.Context, rec commit.FinalRecord) (uuid.UUID, error)
}

// service implements the Service interface.
type service struct {
	catalog CatalogSource
	drafts  DraftStore
	finals  FinalStore
	seq     []steps.Definition
	clock   autosave.Clock
	window  time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewService creates a new configurator service instance.
func NewService(cat CatalogSource, drafts DraftStore, finals FinalStore) Service {
	return newService(cat, drafts, finals, autosave.SystemClock(), autosave.DefaultWindow)
}

func newService(cat CatalogSource, drafts DraftStore, finals FinalStore, clock autosave.Clock, window time.Duration) *service {
	return &service{
		catalog:  cat,
		drafts:   drafts,
		finals:   finals,
		seq:      steps.Sequence(),
		clock:    clock,
		window:   window,
		sessions: make(map[uuid.UUID]*session),
	}
}

// draftSaver binds the draft store to one session's owner, giving the
// autosave and commit controllers the narrow save interface they expect.
type draftSaver struct {
	drafts  DraftStore
	ownerID uuid.UUID
}

func (d draftSaver) SaveDraft(ctx context.Context, snap selection.Snapshot, complete bool) error {
	_, err := d.drafts.SaveDraft(ctx, d.ownerID, snap, complete)
	return err
}

// sessionAuth authorizes persistence only for authenticated sessions.
type sessionAuth struct {
	identity *auth.Identity
}

func (a sessionAuth) Authorized() bool { return a.identity != nil }

// StartSession loads the catalog snapshot for a plan, resumes any stored
// draft for the caller, and registers a fresh session. Anonymous callers get
// a fully functional session that simply never persists.
func (s *service) StartSession(ctx context.Context, planID string, basePrice money.Amount, identity *auth.Identity) (*View, error) {
	snapshot, err := s.catalog.GetCatalog(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	model := selection.NewModel(snapshot)
	if identity != nil {
		draft, err := s.drafts.LoadDraft(ctx, identity.AccountID, planID)
		switch {
		case err == nil:
			model = selection.Restore(draft.Selections, snapshot)
		case errors.Is(err, store.ErrDraftNotFound):
			// first visit, nothing to resume
		default:
			// A broken draft load must not block a new session.
			log.Printf("configurator: failed to load draft for plan %s: %v", planID, err)
		}
	}

	var ownerID uuid.UUID
	if identity != nil {
		ownerID = identity.AccountID
	}

	sess := &session{
		id:        uuid.New(),
		planID:    planID,
		basePrice: basePrice,
		identity:  identity,
		model:     model,
		nav:       steps.NewNavigation().Sync(s.seq, model),
		saver: autosave.NewController(
			draftSaver{drafts: s.drafts, ownerID: ownerID},
			sessionAuth{identity: identity},
			s.clock,
			s.window,
		),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(s.seq), nil
}

func (s *service) lookup(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// mutate runs one selection mutation through the full pipeline: apply the
// mutation, re-derive navigation, and notify autosave. A failed mutation
// leaves the model untouched and skips the downstream stages.
func (s *service) mutate(id uuid.UUID, fn func(*selection.Model) error) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess.model); err != nil {
		return nil, err
	}

	sess.nav = sess.nav.Sync(s.seq, sess.model)
	sess.saver.Notify(sess.model.Snapshot())
	return sess.view(s.seq), nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(s.seq), nil
}

func (s *service) Select(ctx context.Context, id uuid.UUID, category catalog.Category, opt catalog.Option) (*View, error) {
	return s.mutate(id, func(m *selection.Model) error {
		return m.Select(category, opt)
	})
}

func (s *service) Toggle(ctx context.Context, id uuid.UUID, category catalog.Category, opt catalog.Option, included bool) (*View, error) {
	return s.mutate(id, func(m *selection.Model) error {
		return m.Toggle(category, opt, included)
	})
}

func (s *service) Clear(ctx context.Context, id uuid.UUID, category catalog.Category) (*View, error) {
	return s.mutate(id, func(m *selection.Model) error {
		m.Clear(category)
		return nil
	})
}

func (s *service) Advance(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.nav = sess.nav.Advance(s.seq, sess.model)
	return sess.view(s.seq), nil
}

func (s *service) Retreat(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.nav = sess.nav.Retreat(s.seq, sess.model)
	return sess.view(s.seq), nil
}

func (s *service) GoTo(ctx context.Context, id uuid.UUID, index int) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.nav = sess.nav.GoTo(s.seq, sess.model, index)
	return sess.view(s.seq), nil
}

// Flush forces an immediate draft save, bypassing the debounce window.
func (s *service) Flush(ctx context.Context, id uuid.UUID) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	return sess.saver.Flush(ctx)
}

// Commit validates the whole flow and persists the final configuration. The
// commit path bypasses autosave debouncing entirely.
func (s *service) Commit(ctx context.Context, id uuid.UUID) (*commit.FinalRecord, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if sess.identity == nil {
		return nil, ErrNotAuthorized
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctl := commit.NewController(
		draftSaver{drafts: s.drafts, ownerID: sess.identity.AccountID},
		s.finals,
	)
	rec, err := ctl.Commit(ctx, s.seq, sess.model, sess.basePrice, commit.Meta{
		OwnerID: sess.identity.AccountID,
		PlanID:  sess.planID,
	})
	if err != nil {
		return nil, err
	}

	// The controller just wrote the draft marked complete; a debounce armed
	// before the commit must not rewrite it as in-progress afterwards.
	sess.saver.Discard()
	return rec, nil
}

// EndSession tears a session down, cancelling any pending autosave so no
// timer fires after teardown.
func (s *service) EndSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.saver.Cancel()
	return nil
}
