// Package registry provides an in-memory implementation of the persistence
// ports. It backs tests and the "memory" store driver; the Postgres
// implementation lives in internal/repository.
package registry

import (
	"context"
	"sync"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

// Registry holds every entity table in process memory. A single mutex
// serializes access; operations are synchronous and run to completion.
type Registry struct {
	mu sync.Mutex

	nextID int64

	appointments map[int64]domain.Appointment
	sales        map[int64]domain.Sale
	expenses     map[int64]domain.Expense
	products     map[int64]domain.Product
	supplies     map[int64]domain.Supply
	services     map[int64]domain.Service
	machines     map[int64]domain.Machine
	employees    map[int64]domain.Employee
	clients      map[int64]domain.Client
	suppliers    map[int64]domain.Supplier
}

func New() *Registry {
	return &Registry{
		nextID:       0,
		appointments: map[int64]domain.Appointment{},
		sales:        map[int64]domain.Sale{},
		expenses:     map[int64]domain.Expense{},
		products:     map[int64]domain.Product{},
		supplies:     map[int64]domain.Supply{},
		services:     map[int64]domain.Service{},
		machines:     map[int64]domain.Machine{},
		employees:    map[int64]domain.Employee{},
		clients:      map[int64]domain.Client{},
		suppliers:    map[int64]domain.Supplier{},
	}
}

// Stores exposes the registry through the persistence ports.
func (r *Registry) Stores() ports.Stores {
	return ports.Stores{
		Appointments: AppointmentStore{reg: r},
		Sales:        SaleStore{reg: r},
		Expenses:     ExpenseStore{reg: r},
		Products:     ProductStore{reg: r},
		Supplies:     SupplyStore{reg: r},
		Services:     ServiceStore{reg: r},
		Machines:     MachineStore{reg: r},
		Employees:    EmployeeStore{reg: r},
		Clients:      ClientStore{reg: r},
		Suppliers:    SupplierStore{reg: r},
	}
}

// Health always succeeds; memory never degrades.
func (r *Registry) Health(ctx context.Context) error { return nil }

func (r *Registry) allocID() int64 {
	r.nextID++
	return r.nextID
}
