package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

type SupplyHandler struct {
	Store ports.SupplyStore
}

func (h SupplyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/supplies", h.list)
	r.Post("/supplies", h.create)
	r.Get("/supplies/{id}", h.get)
	r.Put("/supplies/{id}", h.update)
	r.Delete("/supplies/{id}", h.delete)
	r.Get("/supplies/{id}/cost-history", h.costHistory)
}

func (h SupplyHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Unit  string  `json:"unit"`
		Stock float64 `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "stock cannot be negative")
		return
	}
	created, err := h.Store.Create(r.Context(), domain.Supply{
		Name:  req.Name,
		Unit:  req.Unit,
		Stock: req.Stock,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSupplyResponse(*created))
}

func (h SupplyHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyResponse(*s))
}

func (h SupplyHandler) list(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		s, err := h.Store.GetByName(r.Context(), name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{toSupplyResponse(*s)})
		return
	}
	items, err := h.Store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, toSupplyResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SupplyHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req struct {
		Name  *string  `json:"name"`
		Unit  *string  `json:"unit"`
		Stock *float64 `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name != nil {
		if *req.Name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		s.Name = *req.Name
	}
	if req.Unit != nil {
		s.Unit = *req.Unit
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			writeError(w, http.StatusBadRequest, "stock cannot be negative")
			return
		}
		s.Stock = *req.Stock
	}
	updated, err := h.Store.Update(r.Context(), *s)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyResponse(*updated))
}

func (h SupplyHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h SupplyHandler) costHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCostHistoryResponse(s.CostHistory))
}

func toSupplyResponse(s domain.Supply) map[string]any {
	return map[string]any{
		"id":       s.ID,
		"name":     s.Name,
		"unit":     s.Unit,
		"unitCost": s.UnitCost,
		"stock":    s.Stock,
	}
}
