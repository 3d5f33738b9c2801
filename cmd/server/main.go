package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"salonops-backend/internal/config"
	"salonops-backend/internal/db"
	"salonops-backend/internal/handler"
	"salonops-backend/internal/ports"
	"salonops-backend/internal/registry"
	"salonops-backend/internal/repository"
	"salonops-backend/internal/server"
	"salonops-backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var stores ports.Stores
	var health ports.HealthChecker
	switch cfg.StoreDriver {
	case "postgres":
		pg, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("failed to connect database", "err", err)
			os.Exit(1)
		}
		defer pg.Close()
		stores = repository.NewStores(pg)
		health = pg
	default:
		reg := registry.New()
		stores = reg.Stores()
		health = reg
	}

	// services
	scheduleSvc := service.ScheduleService{
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
	saleSvc := service.SaleService{Sales: stores.Sales, Schedule: scheduleSvc, Logger: logger}
	expenseSvc := service.ExpenseService{
		Expenses:  stores.Expenses,
		Products:  stores.Products,
		Supplies:  stores.Supplies,
		Machines:  stores.Machines,
		Suppliers: stores.Suppliers,
		Employees: stores.Employees,
		Logger:    logger,
	}
	authSvc := service.AuthService{Config: cfg, Logger: logger}

	router := server.NewRouter(cfg, logger, server.Handlers{
		Health:       handler.HealthHandler{Store: health},
		Auth:         handler.AuthHandler{Service: authSvc},
		Appointments: handler.AppointmentHandler{Schedule: scheduleSvc},
		Sales:        handler.SaleHandler{Sales: saleSvc},
		Expenses:     handler.ExpenseHandler{Expenses: expenseSvc},
		Products:     handler.ProductHandler{Store: stores.Products},
		Supplies:     handler.SupplyHandler{Store: stores.Supplies},
		Services:     handler.ServiceHandler{Store: stores.Services},
		Machines:     handler.MachineHandler{Store: stores.Machines, Schedule: scheduleSvc},
		Employees:    handler.EmployeeHandler{Store: stores.Employees},
		Clients:      handler.ClientHandler{Store: stores.Clients},
		Suppliers:    handler.SupplierHandler{Store: stores.Suppliers},
		Reports:      handler.ReportHandler{Schedule: scheduleSvc, Sales: saleSvc, Expenses: expenseSvc},
	})

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
