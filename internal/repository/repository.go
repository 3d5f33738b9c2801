// Package repository implements the persistence ports on PostgreSQL via pgx.
// Line entries, machine sets and cost histories are stored as JSONB columns
// on their owning rows; everything about an aggregate lives in one row.
package repository

import (
	"salonops-backend/internal/db"
	"salonops-backend/internal/ports"
)

// NewStores wires every PostgreSQL-backed store against one pool.
func NewStores(pg *db.Postgres) ports.Stores {
	return ports.Stores{
		Appointments: AppointmentRepository{DB: pg},
		Sales:        SaleRepository{DB: pg},
		Expenses:     ExpenseRepository{DB: pg},
		Products:     ProductRepository{DB: pg},
		Supplies:     SupplyRepository{DB: pg},
		Services:     ServiceRepository{DB: pg},
		Machines:     MachineRepository{DB: pg},
		Employees:    EmployeeRepository{DB: pg},
		Clients:      ClientRepository{DB: pg},
		Suppliers:    SupplierRepository{DB: pg},
	}
}
