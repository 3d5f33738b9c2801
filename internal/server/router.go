package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salonops-backend/internal/config"
	"salonops-backend/internal/handler"
)

// Handlers bundles every route group the router mounts.
type Handlers struct {
	Health       handler.HealthHandler
	Auth         handler.AuthHandler
	Appointments handler.AppointmentHandler
	Sales        handler.SaleHandler
	Expenses     handler.ExpenseHandler
	Products     handler.ProductHandler
	Supplies     handler.SupplyHandler
	Services     handler.ServiceHandler
	Machines     handler.MachineHandler
	Employees    handler.EmployeeHandler
	Clients      handler.ClientHandler
	Suppliers    handler.SupplierHandler
	Reports      handler.ReportHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	h.Health.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		h.Appointments.RegisterRoutes(pr)
		h.Sales.RegisterRoutes(pr)
		h.Expenses.RegisterRoutes(pr)
		h.Products.RegisterRoutes(pr)
		h.Supplies.RegisterRoutes(pr)
		h.Services.RegisterRoutes(pr)
		h.Machines.RegisterRoutes(pr)
		h.Employees.RegisterRoutes(pr)
		h.Clients.RegisterRoutes(pr)
		h.Suppliers.RegisterRoutes(pr)
		h.Reports.RegisterRoutes(pr)
	})

	return r
}
