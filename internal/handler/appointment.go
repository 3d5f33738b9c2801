package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
	"salonops-backend/internal/service"
)

type AppointmentHandler struct {
	Schedule service.ScheduleService
}

func (h AppointmentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/appointments", h.list)
	r.Post("/appointments", h.create)
	r.Get("/appointments/{id}", h.get)
	r.Put("/appointments/{id}", h.update)
	r.Delete("/appointments/{id}", h.delete)
	r.Post("/appointments/{id}/done", h.markDone)
	r.Post("/appointments/{id}/not-done", h.markNotDone)
	r.Post("/appointments/{id}/scheduled", h.markScheduled)
}

type appointmentItemRequest struct {
	Kind      string   `json:"kind"`
	ItemID    int64    `json:"itemId"`
	Qty       float64  `json:"qty"`
	UnitPrice *float64 `json:"unitPrice"`
}

type appointmentSupplyRequest struct {
	SupplyID int64   `json:"supplyId"`
	Qty      float64 `json:"qty"`
}

func (h AppointmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID int64                      `json:"employeeId"`
		ClientID   int64                      `json:"clientId"`
		Start      string                     `json:"start"`
		End        string                     `json:"end"`
		Items      []appointmentItemRequest   `json:"items"`
		MachineIDs []int64                    `json:"machineIds"`
		Supplies   []appointmentSupplyRequest `json:"supplies"`
		Comment    string                     `json:"comment"`
		Status     string                     `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	start, err := parseDateTimeField(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start: "+err.Error())
		return
	}
	end, err := parseDateTimeField(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end: "+err.Error())
		return
	}
	items, err := toItemInputs(req.Items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	in := service.CreateAppointmentInput{
		EmployeeID: req.EmployeeID,
		ClientID:   req.ClientID,
		Start:      start,
		End:        end,
		Items:      items,
		MachineIDs: req.MachineIDs,
		Supplies:   toSupplyInputs(req.Supplies),
		Comment:    req.Comment,
	}
	if req.Status != "" {
		status, err := domain.ParseAppointmentStatus(req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		in.Status = status
	}
	created, err := h.Schedule.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentResponse(*created))
}

func (h AppointmentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	a, err := h.Schedule.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(*a))
}

func (h AppointmentHandler) list(w http.ResponseWriter, r *http.Request) {
	var f ports.AppointmentFilter
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
	if v := r.URL.Query().Get("status"); v != "" {
		status, err := domain.ParseAppointmentStatus(v)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		f.Status = &status
	}
	items, err := h.Schedule.Filter(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, a := range items {
		resp = append(resp, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h AppointmentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		EmployeeID    *int64                      `json:"employeeId"`
		ClientID      *int64                      `json:"clientId"`
		Start         *string                     `json:"start"`
		End           *string                     `json:"end"`
		Comment       *string                     `json:"comment"`
		Status        *string                     `json:"status"`
		AddItems      []appointmentItemRequest    `json:"addItems"`
		RemoveItemIDs []int64                     `json:"removeItemIds"`
		MachineIDs    *[]int64                    `json:"machineIds"`
		Supplies      *[]appointmentSupplyRequest `json:"supplies"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	addItems, err := toItemInputs(req.AddItems)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	in := service.UpdateAppointmentInput{
		EmployeeID:    req.EmployeeID,
		ClientID:      req.ClientID,
		Comment:       req.Comment,
		AddItems:      addItems,
		RemoveItemIDs: req.RemoveItemIDs,
		MachineIDs:    req.MachineIDs,
	}
	if req.Start != nil {
		start, err := parseDateTimeField(*req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start: "+err.Error())
			return
		}
		in.Start = &start
	}
	if req.End != nil {
		end, err := parseDateTimeField(*req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end: "+err.Error())
			return
		}
		in.End = &end
	}
	if req.Status != nil {
		status, err := domain.ParseAppointmentStatus(*req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		in.Status = &status
	}
	if req.Supplies != nil {
		supplies := toSupplyInputs(*req.Supplies)
		in.Supplies = &supplies
	}
	updated, err := h.Schedule.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(*updated))
}

func (h AppointmentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Schedule.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h AppointmentHandler) markDone(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.Schedule.MarkDone)
}

func (h AppointmentHandler) markNotDone(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.Schedule.MarkNotDone)
}

func (h AppointmentHandler) markScheduled(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.Schedule.MarkScheduled)
}

func (h AppointmentHandler) mark(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (*domain.Appointment, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	a, err := fn(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(*a))
}

func toItemInputs(in []appointmentItemRequest) ([]service.ItemInput, error) {
	out := make([]service.ItemInput, 0, len(in))
	for _, it := range in {
		kind, err := domain.ParseItemKind(it.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, service.ItemInput{
			Kind:      kind,
			ItemID:    it.ItemID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}
	return out, nil
}

func toSupplyInputs(in []appointmentSupplyRequest) []service.SupplyInput {
	out := make([]service.SupplyInput, 0, len(in))
	for _, su := range in {
		out = append(out, service.SupplyInput{SupplyID: su.SupplyID, Qty: su.Qty})
	}
	return out
}

func toAppointmentResponse(a domain.Appointment) map[string]any {
	items := make([]map[string]any, 0, len(a.Items))
	for _, it := range a.Items {
		items = append(items, map[string]any{
			"id":        it.ID,
			"kind":      string(it.Item.Kind),
			"itemId":    it.Item.ID,
			"qty":       it.Qty,
			"unitPrice": it.UnitPrice,
			"subtotal":  it.Subtotal(),
		})
	}
	supplies := make([]map[string]any, 0, len(a.Supplies))
	for _, su := range a.Supplies {
		supplies = append(supplies, map[string]any{
			"supplyId": su.SupplyID,
			"qty":      su.Qty,
		})
	}
	return map[string]any{
		"id":         a.ID,
		"start":      a.Start.Format(time.RFC3339),
		"end":        a.End.Format(time.RFC3339),
		"status":     string(a.Status),
		"employeeId": a.EmployeeID,
		"clientId":   a.ClientID,
		"items":      items,
		"machineIds": a.MachineIDs,
		"supplies":   supplies,
		"total":      a.Total,
		"comment":    a.Comment,
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
