package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
	"salonops-backend/internal/registry"
	"salonops-backend/internal/service"
)

func newTestRouter(t *testing.T) (chi.Router, ports.Stores) {
	t.Helper()
	stores := registry.New().Stores()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	schedule := service.ScheduleService{
		Appointments: stores.Appointments,
		Sales:        stores.Sales,
		Products:     stores.Products,
		Supplies:     stores.Supplies,
		Services:     stores.Services,
		Machines:     stores.Machines,
		Employees:    stores.Employees,
		Clients:      stores.Clients,
		Logger:       logger,
	}

	r := chi.NewRouter()
	ProductHandler{Store: stores.Products}.RegisterRoutes(r)
	AppointmentHandler{Schedule: schedule}.RegisterRoutes(r)
	EmployeeHandler{Store: stores.Employees}.RegisterRoutes(r)
	return r, stores
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestProductEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, resp := doJSON(t, r, http.MethodPost, "/products", map[string]any{
		"name": "Pomada", "price": 20.0, "stock": 5.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp.Status != "ok" {
		t.Fatalf("envelope status = %q, want ok", resp.Status)
	}
	data := resp.Data.(map[string]any)
	if data["name"] != "Pomada" || data["price"] != 20.0 {
		t.Fatalf("data = %v", data)
	}

	t.Run("duplicate name is a 409", func(t *testing.T) {
		rec, resp := doJSON(t, r, http.MethodPost, "/products", map[string]any{
			"name": "pomada", "price": 10.0,
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		if resp.Error == nil || resp.Error.Code != http.StatusConflict {
			t.Fatalf("error envelope = %+v", resp.Error)
		}
	})

	t.Run("missing price is a 400", func(t *testing.T) {
		rec, _ := doJSON(t, r, http.MethodPost, "/products", map[string]any{"name": "Shampoo"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		rec, _ := doJSON(t, r, http.MethodGet, "/products/999", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("lookup by name", func(t *testing.T) {
		rec, resp := doJSON(t, r, http.MethodGet, "/products?name=POMADA", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		list := resp.Data.([]any)
		if len(list) != 1 {
			t.Fatalf("list length = %d, want 1", len(list))
		}
	})
}

func TestAppointmentEndpoints(t *testing.T) {
	ctx := context.Background()
	r, stores := newTestRouter(t)

	emp, err := stores.Employees.Create(ctx, domain.Employee{Name: "Ana Souza", CPF: "111.444.777-35"})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	cli, err := stores.Clients.Create(ctx, domain.Client{Name: "Bruno Lima", CPF: "529.982.247-25"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	svc, err := stores.Services.Create(ctx, domain.Service{Name: "Corte", SalePrice: 50})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}

	payload := map[string]any{
		"employeeId": emp.ID,
		"clientId":   cli.ID,
		"start":      "10/03/2026 10:00",
		"end":        "10/03/2026 11:00",
		"items": []map[string]any{
			{"kind": "service", "itemId": svc.ID, "qty": 1.0},
		},
	}

	rec, resp := doJSON(t, r, http.MethodPost, "/appointments", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]any)
	if data["status"] != "scheduled" || data["total"] != 50.0 {
		t.Fatalf("data = %v", data)
	}
	id := int64(data["id"].(float64))

	t.Run("overlap is a 409", func(t *testing.T) {
		rec, _ := doJSON(t, r, http.MethodPost, "/appointments", payload)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("status verbs", func(t *testing.T) {
		rec, resp := doJSON(t, r, http.MethodPost, "/appointments/"+strconv.FormatInt(id, 10)+"/done", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("done status = %d, body %s", rec.Code, rec.Body.String())
		}
		if resp.Data.(map[string]any)["status"] != "done" {
			t.Fatalf("data = %v", resp.Data)
		}
		rec, resp = doJSON(t, r, http.MethodPost, "/appointments/"+strconv.FormatInt(id, 10)+"/scheduled", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("scheduled status = %d", rec.Code)
		}
		if resp.Data.(map[string]any)["status"] != "scheduled" {
			t.Fatalf("data = %v", resp.Data)
		}
	})

	t.Run("portuguese status names parse", func(t *testing.T) {
		second := map[string]any{
			"employeeId": emp.ID,
			"clientId":   cli.ID,
			"start":      "11/03/2026 10:00",
			"end":        "11/03/2026 11:00",
			"status":     "Agendado",
			"items": []map[string]any{
				{"kind": "servico", "itemId": svc.ID, "qty": 1.0},
			},
		}
		rec, resp := doJSON(t, r, http.MethodPost, "/appointments", second)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if resp.Data.(map[string]any)["status"] != "scheduled" {
			t.Fatalf("data = %v", resp.Data)
		}
	})
}

func TestEmployeeEndpointNormalizesInput(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, resp := doJSON(t, r, http.MethodPost, "/employees", map[string]any{
		"name":  "ana clara souza",
		"cpf":   "52998224725",
		"phone": "11987654321",
		"email": "Ana@Example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]any)
	if data["name"] != "Ana Clara Souza" {
		t.Fatalf("name = %v, want title-cased", data["name"])
	}
	if data["cpf"] != "529.982.247-25" {
		t.Fatalf("cpf = %v, want formatted", data["cpf"])
	}
	if data["phone"] != "(11) 98765-4321" {
		t.Fatalf("phone = %v, want formatted", data["phone"])
	}
	if data["email"] != "ana@example.com" {
		t.Fatalf("email = %v, want lowercased", data["email"])
	}

	t.Run("invalid CPF is a 400", func(t *testing.T) {
		rec, _ := doJSON(t, r, http.MethodPost, "/employees", map[string]any{
			"name": "Davi Rocha",
			"cpf":  "12345678900",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
