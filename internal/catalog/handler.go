// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"homeforge/internal/money"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")
	if planID == "" {
		http.Error(w, "missing plan ID", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.GetCatalog(r.Context(), planID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(snapshot)
}

func (h *Handler) HandleAddOption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID   string       `json:"plan_id"`
		Name     string       `json:"name"`
		Price    money.Amount `json:"price"`
		Category Category     `json:"category"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opt, err := h.service.AddOption(r.Context(), req.PlanID, req.Name, req.Price, req.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(opt)
}

func (h *Handler) HandleRemoveOption(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "optionID"))
	if err != nil {
		http.Error(w, "invalid option ID", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveOption(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
