package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/identity"
	"salonops-backend/internal/ports"
)

type EmployeeHandler struct {
	Store ports.EmployeeStore
}

func (h EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.list)
	r.Post("/employees", h.create)
	r.Get("/employees/{id}", h.get)
	r.Put("/employees/{id}", h.update)
	r.Delete("/employees/{id}", h.delete)
}

type personRequest struct {
	Name      *string `json:"name"`
	BirthDate *string `json:"birthDate"`
	CPF       *string `json:"cpf"`
	Role      *string `json:"role"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	Social    *string `json:"social"`
	Pin       *string `json:"pin"`
}

// applyPerson validates and normalizes the shared identity fields.
func applyPerson(req personRequest, name, cpf, phone, email, address, social *string, birthDate *time.Time) error {
	if req.Name != nil {
		formatted, err := identity.FormatFullName(*req.Name)
		if err != nil {
			return err
		}
		*name = formatted
	}
	if req.CPF != nil {
		formatted, err := identity.FormatCPF(*req.CPF)
		if err != nil {
			return err
		}
		*cpf = formatted
	}
	if req.Phone != nil {
		formatted, err := identity.FormatPhone(*req.Phone)
		if err != nil {
			return err
		}
		*phone = formatted
	}
	if req.Email != nil {
		validated, err := identity.ValidateEmail(*req.Email)
		if err != nil {
			return err
		}
		*email = validated
	}
	if req.Address != nil {
		*address = *req.Address
	}
	if req.Social != nil {
		*social = *req.Social
	}
	if req.BirthDate != nil {
		parsed, err := identity.ParseFlexibleDate(*req.BirthDate, false)
		if err != nil {
			return err
		}
		*birthDate = parsed
	}
	return nil
}

func (h EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == nil || req.CPF == nil {
		writeError(w, http.StatusBadRequest, "name and cpf are required")
		return
	}
	var e domain.Employee
	if err := applyPerson(req, &e.Name, &e.CPF, &e.Phone, &e.Email, &e.Address, &e.Social, &e.BirthDate); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Role != nil {
		e.Role = *req.Role
	}
	if req.Pin != nil && *req.Pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Pin), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to hash pin")
			return
		}
		pinHash := string(hash)
		e.PinHash = &pinHash
	}
	created, err := h.Store.Create(r.Context(), e)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeResponse(*created))
}

func (h EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(*e))
}

func (h EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	if cpf := r.URL.Query().Get("cpf"); cpf != "" {
		formatted, err := identity.FormatCPF(cpf)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		e, err := h.Store.GetByCPF(r.Context(), formatted)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{toEmployeeResponse(*e)})
		return
	}
	items, err := h.Store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, toEmployeeResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := applyPerson(req, &e.Name, &e.CPF, &e.Phone, &e.Email, &e.Address, &e.Social, &e.BirthDate); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Role != nil {
		e.Role = *req.Role
	}
	if req.Pin != nil && *req.Pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Pin), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to hash pin")
			return
		}
		pinHash := string(hash)
		e.PinHash = &pinHash
	}
	updated, err := h.Store.Update(r.Context(), *e)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(*updated))
}

func (h EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toEmployeeResponse(e domain.Employee) map[string]any {
	return map[string]any{
		"id":        e.ID,
		"name":      e.Name,
		"birthDate": formatBirthDate(e.BirthDate),
		"cpf":       e.CPF,
		"role":      e.Role,
		"phone":     e.Phone,
		"email":     e.Email,
		"address":   e.Address,
		"social":    e.Social,
	}
}

type ClientHandler struct {
	Store ports.ClientStore
}

func (h ClientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clients", h.list)
	r.Post("/clients", h.create)
	r.Get("/clients/{id}", h.get)
	r.Put("/clients/{id}", h.update)
	r.Delete("/clients/{id}", h.delete)
}

func (h ClientHandler) create(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == nil || req.CPF == nil {
		writeError(w, http.StatusBadRequest, "name and cpf are required")
		return
	}
	var c domain.Client
	if err := applyPerson(req, &c.Name, &c.CPF, &c.Phone, &c.Email, &c.Address, &c.Social, &c.BirthDate); err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := h.Store.Create(r.Context(), c)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientResponse(*created))
}

func (h ClientHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(*c))
}

func (h ClientHandler) list(w http.ResponseWriter, r *http.Request) {
	if cpf := r.URL.Query().Get("cpf"); cpf != "" {
		formatted, err := identity.FormatCPF(cpf)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		c, err := h.Store.GetByCPF(r.Context(), formatted)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{toClientResponse(*c)})
		return
	}
	items, err := h.Store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, toClientResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ClientHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := applyPerson(req, &c.Name, &c.CPF, &c.Phone, &c.Email, &c.Address, &c.Social, &c.BirthDate); err != nil {
		writeDomainError(w, err)
		return
	}
	updated, err := h.Store.Update(r.Context(), *c)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(*updated))
}

func (h ClientHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toClientResponse(c domain.Client) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"birthDate": formatBirthDate(c.BirthDate),
		"cpf":       c.CPF,
		"phone":     c.Phone,
		"email":     c.Email,
		"address":   c.Address,
		"social":    c.Social,
	}
}

type SupplierHandler struct {
	Store ports.SupplierStore
}

func (h SupplierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/suppliers", h.list)
	r.Post("/suppliers", h.create)
	r.Get("/suppliers/{id}", h.get)
	r.Put("/suppliers/{id}", h.update)
	r.Delete("/suppliers/{id}", h.delete)
}

type supplierRequest struct {
	Name    *string `json:"name"`
	CNPJ    *string `json:"cnpj"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Social  *string `json:"social"`
}

func applySupplier(req supplierRequest, s *domain.Supplier) error {
	if req.Name != nil {
		if *req.Name == "" {
			return domain.Validationf("name cannot be empty")
		}
		s.Name = *req.Name
	}
	if req.CNPJ != nil {
		formatted, err := identity.FormatCNPJ(*req.CNPJ)
		if err != nil {
			return err
		}
		s.CNPJ = formatted
	}
	if req.Phone != nil {
		formatted, err := identity.FormatPhone(*req.Phone)
		if err != nil {
			return err
		}
		s.Phone = formatted
	}
	if req.Email != nil {
		validated, err := identity.ValidateEmail(*req.Email)
		if err != nil {
			return err
		}
		s.Email = validated
	}
	if req.Address != nil {
		s.Address = *req.Address
	}
	if req.Social != nil {
		s.Social = *req.Social
	}
	return nil
}

func (h SupplierHandler) create(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == nil || req.CNPJ == nil {
		writeError(w, http.StatusBadRequest, "name and cnpj are required")
		return
	}
	var s domain.Supplier
	if err := applySupplier(req, &s); err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := h.Store.Create(r.Context(), s)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSupplierResponse(*created))
}

func (h SupplierHandler) get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, toSupplierResponse(*s))
}

func (h SupplierHandler) list(w http.ResponseWriter, r *http.Request) {
	if cnpj := r.URL.Query().Get("cnpj"); cnpj != "" {
		formatted, err := identity.FormatCNPJ(cnpj)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s, err := h.Store.GetByCNPJ(r.Context(), formatted)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{toSupplierResponse(*s)})
		return
	}
	items, err := h.Store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, toSupplierResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SupplierHandler) update(w http.ResponseWriter, r *http.Request) {
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
	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := applySupplier(req, s); err != nil {
		writeDomainError(w, err)
		return
	}
	updated, err := h.Store.Update(r.Context(), *s)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplierResponse(*updated))
}

func (h SupplierHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toSupplierResponse(s domain.Supplier) map[string]any {
	return map[string]any{
		"id":      s.ID,
		"name":    s.Name,
		"cnpj":    s.CNPJ,
		"phone":   s.Phone,
		"email":   s.Email,
		"address": s.Address,
		"social":  s.Social,
	}
}

func formatBirthDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
