// internal/configurator/handler.go
package configurator

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"homeforge/internal/auth"
	"homeforge/internal/catalog"
	"homeforge/internal/commit"
	"homeforge/internal/money"
	"homeforge/internal/selection"
)

// IdentityResolver turns a bearer token into an identity, or nil for
// anonymous callers.
type IdentityResolver interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

type Handler struct {
	service  Service
	resolver IdentityResolver
}

func NewHandler(service Service, resolver IdentityResolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

// identity resolves the caller. Resolution failures degrade to anonymous:
// browsing and configuring never require an account, only persisting does.
func (h *Handler) identity(r *http.Request) *auth.Identity {
	token := auth.BearerToken(r)
	if token == "" {
		return nil
	}
	identity, err := h.resolver.Verify(r.Context(), token)
	if err != nil {
		log.Printf("configurator: identity resolution failed: %v", err)
		return nil
	}
	return identity
}

func (h *Handler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID    string       `json:"plan_id"`
		BasePrice money.Amount `json:"base_price"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlanID == "" {
		http.Error(w, "missing plan ID", http.StatusBadRequest)
		return
	}

	view, err := h.service.StartSession(r.Context(), req.PlanID, req.BasePrice, h.identity(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(view)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(view)
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Category catalog.Category `json:"category"`
		OptionID uuid.UUID        `json:"option_id"`
		Name     string           `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.service.Select(r.Context(), id, req.Category, catalog.Option{
		ID:       req.OptionID,
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(view)
}

func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Category catalog.Category `json:"category"`
		OptionID uuid.UUID        `json:"option_id"`
		Name     string           `json:"name"`
		Included bool             `json:"included"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.service.Toggle(r.Context(), id, req.Category, catalog.Option{
		ID:       req.OptionID,
		Name:     req.Name,
		Category: req.Category,
	}, req.Included)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(view)
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Category catalog.Category `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.service.Clear(r.Context(), id, req.Category)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(view)
}

func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	h.handleNav(w, r, h.service.Advance)
}

func (h *Handler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	h.handleNav(w, r, h.service.Retreat)
}

func (h *Handler) handleNav(w http.ResponseWriter, r *http.Request, move func(ctx context.Context, id uuid.UUID) (*View, error)) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := move(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(view)
}

func (h *Handler) HandleGoTo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.service.GoTo(r.Context(), id, req.Index)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(view)
}

func (h *Handler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Flush(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Commit(r.Context(), id)
	if err != nil {
		var validationErr *commit.ValidationError
		if errors.As(err, &validationErr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(struct {
				Violations []commit.Violation `json:"violations"`
			}{Violations: validationErr.Violations})
			return
		}
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

func (h *Handler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.EndSession(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var invalidErr *selection.InvalidSelectionError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &invalidErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
