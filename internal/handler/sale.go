package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
	"salonops-backend/internal/service"
)

type SaleHandler struct {
	Sales service.SaleService
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales", h.list)
	r.Post("/sales", h.create)
	r.Get("/sales/{id}", h.get)
	r.Put("/sales/{id}", h.update)
	r.Delete("/sales/{id}", h.delete)
}

func (h SaleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date          string                   `json:"date"`
		EmployeeID    int64                    `json:"employeeId"`
		ClientID      int64                    `json:"clientId"`
		AppointmentID *int64                   `json:"appointmentId"`
		Items         []appointmentItemRequest `json:"items"`
		Comment       string                   `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	items, err := toItemInputs(req.Items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	in := service.CreateSaleInput{
		EmployeeID:    req.EmployeeID,
		ClientID:      req.ClientID,
		AppointmentID: req.AppointmentID,
		Items:         items,
		Comment:       req.Comment,
	}
	if req.Date != "" {
		date, err := parseDateTimeField(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		in.Date = date
	}
	created, err := h.Sales.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleResponse(*created))
}

func (h SaleHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	sale, err := h.Sales.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleResponse(*sale))
}

func (h SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	var f ports.SaleFilter
	var err error
	if f.From, err = parseDateQuery(r, "startDate"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	if f.To, err = parseDateQuery(r, "endDate"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if v := r.URL.Query().Get("employeeId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid employeeId")
			return
		}
		f.EmployeeID = &id
	}
	if v := r.URL.Query().Get("clientId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid clientId")
			return
		}
		f.ClientID = &id
	}
	items, err := h.Sales.Filter(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, sale := range items {
		resp = append(resp, toSaleResponse(sale))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Date          *string                   `json:"date"`
		EmployeeID    *int64                    `json:"employeeId"`
		ClientID      *int64                    `json:"clientId"`
		AppointmentID *int64                    `json:"appointmentId"`
		ClearLink     bool                      `json:"clearAppointment"`
		Items         *[]appointmentItemRequest `json:"items"`
		Comment       *string                   `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in := service.UpdateSaleInput{
		EmployeeID:    req.EmployeeID,
		ClientID:      req.ClientID,
		AppointmentID: req.AppointmentID,
		ClearLink:     req.ClearLink,
		Comment:       req.Comment,
	}
	if req.Date != nil {
		date, err := parseDateTimeField(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		in.Date = &date
	}
	if req.Items != nil {
		items, err := toItemInputs(*req.Items)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		in.Items = &items
	}
	updated, err := h.Sales.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleResponse(*updated))
}

func (h SaleHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Sales.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func toSaleResponse(s domain.Sale) map[string]any {
	items := make([]map[string]any, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, map[string]any{
			"id":        it.ID,
			"kind":      string(it.Item.Kind),
			"itemId":    it.Item.ID,
			"qty":       it.Qty,
			"unitPrice": it.UnitPrice,
			"subtotal":  it.Subtotal(),
		})
	}
	return map[string]any{
		"id":            s.ID,
		"code":          s.Code,
		"date":          s.Date.Format(time.RFC3339),
		"employeeId":    s.EmployeeID,
		"clientId":      s.ClientID,
		"appointmentId": s.AppointmentID,
		"items":         items,
		"total":         s.Total,
		"comment":       s.Comment,
	}
}
