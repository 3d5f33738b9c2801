package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
	"salonops-backend/internal/service"
)

type ExpenseHandler struct {
	Expenses service.ExpenseService
}

func (h ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expenses", h.list)
	r.Post("/expenses/purchases", h.createPurchase)
	r.Post("/expenses/fixed", h.createFixed)
	r.Post("/expenses/salaries", h.createSalary)
	r.Post("/expenses/commissions", h.createCommission)
	r.Post("/expenses/other", h.createOther)
	r.Get("/expenses/{id}", h.get)
	r.Put("/expenses/{id}", h.update)
	r.Delete("/expenses/{id}", h.delete)
}

func (h ExpenseHandler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string  `json:"date"`
		SupplierID  *int64  `json:"supplierId"`
		ItemKind    string  `json:"itemKind"`
		ItemID      *int64  `json:"itemId"`
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		UnitPrice   float64 `json:"unitPrice"`
		Comment     string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, err := parseDateTimeField(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	kind, err := domain.ParsePurchaseItemKind(req.ItemKind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := h.Expenses.RecordPurchase(r.Context(), service.PurchaseInput{
		Date:        date,
		SupplierID:  req.SupplierID,
		ItemKind:    kind,
		ItemID:      req.ItemID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Comment:     req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*created))
}

func (h ExpenseHandler) createFixed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date    string  `json:"date"`
		Label   string  `json:"label"`
		Total   float64 `json:"total"`
		Comment string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, err := parseDateTimeField(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	created, err := h.Expenses.RecordFixedThirdParty(r.Context(), service.FixedThirdPartyInput{
		Date: date, Label: req.Label, Total: req.Total, Comment: req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*created))
}

func (h ExpenseHandler) createSalary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string  `json:"date"`
		EmployeeID  int64   `json:"employeeId"`
		GrossSalary float64 `json:"grossSalary"`
		Deductions  float64 `json:"deductions"`
		Comment     string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, err := parseDateTimeField(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	created, err := h.Expenses.RecordSalary(r.Context(), service.SalaryInput{
		Date: date, EmployeeID: req.EmployeeID, GrossSalary: req.GrossSalary, Deductions: req.Deductions, Comment: req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*created))
}

func (h ExpenseHandler) createCommission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date           string  `json:"date"`
		EmployeeID     int64   `json:"employeeId"`
		ServiceRevenue float64 `json:"serviceRevenue"`
		ProductRevenue float64 `json:"productRevenue"`
		ServiceRate    float64 `json:"serviceRate"`
		ProductRate    float64 `json:"productRate"`
		Comment        string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, err := parseDateTimeField(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	created, err := h.Expenses.RecordCommission(r.Context(), service.CommissionInput{
		Date:           date,
		EmployeeID:     req.EmployeeID,
		ServiceRevenue: req.ServiceRevenue,
		ProductRevenue: req.ProductRevenue,
		ServiceRate:    req.ServiceRate,
		ProductRate:    req.ProductRate,
		Comment:        req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*created))
}

func (h ExpenseHandler) createOther(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date    string  `json:"date"`
		Label   string  `json:"label"`
		Total   float64 `json:"total"`
		Comment string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, err := parseDateTimeField(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	created, err := h.Expenses.RecordOther(r.Context(), service.OtherExpenseInput{
		Date: date, Label: req.Label, Total: req.Total, Comment: req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*created))
}

func (h ExpenseHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := h.Expenses.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(*e))
}

func (h ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	f, err := expenseFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.Expenses.Filter(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ExpenseHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Date    *string `json:"date"`
		Label   *string `json:"label"`
		Comment *string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in := service.UpdateExpenseInput{Label: req.Label, Comment: req.Comment}
	if req.Date != nil {
		date, err := parseDateTimeField(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		in.Date = &date
	}
	updated, err := h.Expenses.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(*updated))
}

func (h ExpenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Expenses.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func expenseFilterFromQuery(r *http.Request) (ports.ExpenseFilter, error) {
	var f ports.ExpenseFilter
	from, err := parseDateQuery(r, "startDate")
	if err != nil {
		return f, err
	}
	to, err := parseDateQuery(r, "endDate")
	if err != nil {
		return f, err
	}
	if from != nil {
		f.From = *from
	}
	if to != nil {
		// Inclusive end-of-day bound.
		f.To = to.Add(24*time.Hour - time.Second)
	}
	if v := r.URL.Query().Get("kinds"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			kind, err := domain.ParseExpenseKind(raw)
			if err != nil {
				return f, err
			}
			f.Kinds = append(f.Kinds, kind)
		}
	}
	if v := r.URL.Query().Get("supplierId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, err
		}
		f.SupplierID = &id
	}
	if v := r.URL.Query().Get("employeeId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, err
		}
		f.EmployeeID = &id
	}
	if v := r.URL.Query().Get("itemKind"); v != "" {
		kind, err := domain.ParsePurchaseItemKind(v)
		if err != nil {
			return f, err
		}
		item := domain.PurchaseItemRef{Kind: kind}
		if idStr := r.URL.Query().Get("itemId"); idStr != "" {
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return f, err
			}
			item.ID = &id
		}
		f.Item = &item
	}
	f.Comment = r.URL.Query().Get("comment")
	return f, nil
}

func toExpenseResponse(e domain.Expense) map[string]any {
	resp := map[string]any{
		"id":      e.ID,
		"kind":    string(e.Kind),
		"date":    e.Date.Format(time.RFC3339),
		"total":   e.Total,
		"comment": e.Comment,
	}
	switch e.Kind {
	case domain.ExpensePurchase:
		resp["supplierId"] = e.SupplierID
		resp["quantity"] = e.Quantity
		resp["unitPrice"] = e.UnitPrice
		if e.Item != nil {
			resp["item"] = map[string]any{
				"kind":        string(e.Item.Kind),
				"id":          e.Item.ID,
				"description": e.Item.Description,
			}
		}
	case domain.ExpenseFixedThirdParty, domain.ExpenseOther:
		resp["label"] = e.Label
	case domain.ExpenseSalary:
		resp["employeeId"] = e.EmployeeID
		resp["grossSalary"] = e.GrossSalary
		resp["deductions"] = e.Deductions
	case domain.ExpenseCommission:
		resp["employeeId"] = e.EmployeeID
		resp["serviceRevenue"] = e.ServiceRevenue
		resp["productRevenue"] = e.ProductRevenue
		resp["serviceRate"] = e.ServiceRate
		resp["productRate"] = e.ProductRate
	}
	return resp
}
