package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
	"salonops-backend/internal/service"
)

type ServiceHandler struct {
	Store ports.ServiceStore
}

func (h ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/services", h.list)
	r.Post("/services", h.create)
	r.Get("/services/{id}", h.get)
	r.Put("/services/{id}", h.update)
	r.Delete("/services/{id}", h.delete)
}

func (h ServiceHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string  `json:"name"`
		SalePrice float64 `json:"salePrice"`
		Cost      float64 `json:"cost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.SalePrice <= 0 {
		writeError(w, http.StatusBadRequest, "salePrice must be positive")
		return
	}
	if req.Cost < 0 {
		writeError(w, http.StatusBadRequest, "cost cannot be negative")
		return
	}
	created, err := h.Store.Create(r.Context(), domain.Service{
		Name:      req.Name,
		SalePrice: req.SalePrice,
		Cost:      req.Cost,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceResponse(*created))
}

func (h ServiceHandler) get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, toServiceResponse(*s))
}

func (h ServiceHandler) list(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		s, err := h.Store.GetByName(r.Context(), name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{toServiceResponse(*s)})
		return
	}
	items, err := h.Store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, toServiceResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ServiceHandler) update(w http.ResponseWriter, r *http.Request) {
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
		Name      *string  `json:"name"`
		SalePrice *float64 `json:"salePrice"`
		Cost      *float64 `json:"cost"`
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
	if req.SalePrice != nil {
		if *req.SalePrice <= 0 {
			writeError(w, http.StatusBadRequest, "salePrice must be positive")
			return
		}
		s.SalePrice = *req.SalePrice
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			writeError(w, http.StatusBadRequest, "cost cannot be negative")
			return
		}
		s.Cost = *req.Cost
	}
	updated, err := h.Store.Update(r.Context(), *s)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(*updated))
}

func (h ServiceHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toServiceResponse(s domain.Service) map[string]any {
	return map[string]any{
		"id":        s.ID,
		"name":      s.Name,
		"salePrice": s.SalePrice,
		"cost":      s.Cost,
	}
}

type MachineHandler struct {
	Store    ports.MachineStore
	Schedule service.ScheduleService
}

func (h MachineHandler) RegisterRoutes(r chi.Router) {
	r.Get("/machines", h.list)
	r.Post("/machines", h.create)
	r.Get("/machines/{id}", h.get)
	r.Put("/machines/{id}", h.update)
	r.Delete("/machines/{id}", h.delete)
}

func (h MachineHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string  `json:"name"`
		Serial          string  `json:"serial"`
		AcquisitionCost float64 `json:"acquisitionCost"`
		Status          string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Serial == "" {
		writeError(w, http.StatusBadRequest, "name and serial are required")
		return
	}
	status := domain.MachineOperating
	if req.Status != "" {
		parsed, err := domain.ParseMachineStatus(req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		status = parsed
	}
	created, err := h.Store.Create(r.Context(), domain.Machine{
		Name:            req.Name,
		Serial:          req.Serial,
		AcquisitionCost: req.AcquisitionCost,
		Status:          status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMachineResponse(*created))
}

func (h MachineHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	m, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMachineResponse(*m))
}

func (h MachineHandler) list(w http.ResponseWriter, r *http.Request) {
	if serial := r.URL.Query().Get("serial"); serial != "" {
		m, err := h.Store.GetBySerial(r.Context(), serial)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{toMachineResponse(*m)})
		return
	}
	items, err := h.Store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, m := range items {
		resp = append(resp, toMachineResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h MachineHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	m, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req struct {
		Name            *string  `json:"name"`
		Serial          *string  `json:"serial"`
		AcquisitionCost *float64 `json:"acquisitionCost"`
		Status          *string  `json:"status"`
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
		m.Name = *req.Name
	}
	if req.Serial != nil {
		if *req.Serial == "" {
			writeError(w, http.StatusBadRequest, "serial cannot be empty")
			return
		}
		m.Serial = *req.Serial
	}
	if req.AcquisitionCost != nil {
		m.AcquisitionCost = *req.AcquisitionCost
	}
	if req.Status != nil {
		status, err := domain.ParseMachineStatus(*req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		m.Status = status
	}
	updated, err := h.Store.Update(r.Context(), *m)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMachineResponse(*updated))
}

func (h MachineHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	inUse, err := h.Schedule.MachineInUse(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if inUse {
		writeError(w, http.StatusConflict, "machine is referenced by appointments and cannot be deleted")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func toMachineResponse(m domain.Machine) map[string]any {
	return map[string]any{
		"id":              m.ID,
		"name":            m.Name,
		"serial":          m.Serial,
		"acquisitionCost": m.AcquisitionCost,
		"status":          string(m.Status),
	}
}
