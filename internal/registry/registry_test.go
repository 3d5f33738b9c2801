package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonops-backend/internal/domain"
)

func TestProductStore(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	created, err := stores.Products.Create(ctx, domain.Product{Name: "Pomada", Price: 20, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("create did not assign an ID")
	}

	t.Run("name uniqueness is case-insensitive", func(t *testing.T) {
		if _, err := stores.Products.Create(ctx, domain.Product{Name: "POMADA", Price: 1}); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("lookup by name", func(t *testing.T) {
		p, err := stores.Products.GetByName(ctx, "pomada")
		if err != nil {
			t.Fatalf("get by name: %v", err)
		}
		if p.ID != created.ID {
			t.Fatalf("got ID %d, want %d", p.ID, created.ID)
		}
		if _, err := stores.Products.GetByName(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
	})

	t.Run("adjust stock rejects going negative", func(t *testing.T) {
		err := stores.Products.AdjustStock(ctx, created.ID, -6)
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
		if stockErr.Available != 5 || stockErr.Requested != 6 {
			t.Fatalf("error detail = %+v, want available 5 requested 6", stockErr)
		}
		// Stock is untouched after the rejection.
		p, _ := stores.Products.Get(ctx, created.ID)
		if p.Stock != 5 {
			t.Fatalf("stock = %v, want 5", p.Stock)
		}
	})

	t.Run("record purchase appends history", func(t *testing.T) {
		entry := domain.CostEntry{Date: time.Now(), Quantity: 10, UnitPrice: 8}
		if err := stores.Products.RecordPurchase(ctx, created.ID, entry); err != nil {
			t.Fatalf("record purchase: %v", err)
		}
		p, _ := stores.Products.Get(ctx, created.ID)
		if p.Stock != 15 {
			t.Fatalf("stock = %v, want 15", p.Stock)
		}
		if p.LastCost != 8 || len(p.CostHistory) != 1 {
			t.Fatalf("cost state = %v/%d entries, want 8/1", p.LastCost, len(p.CostHistory))
		}
	})

	t.Run("returned values are copies", func(t *testing.T) {
		p, _ := stores.Products.Get(ctx, created.ID)
		p.CostHistory[0].UnitPrice = 999
		again, _ := stores.Products.Get(ctx, created.ID)
		if again.CostHistory[0].UnitPrice == 999 {
			t.Fatal("store leaked internal slice to the caller")
		}
	})
}

func TestPeopleStores(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	emp, err := stores.Employees.Create(ctx, domain.Employee{Name: "Ana Souza", CPF: "111.444.777-35"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}

	t.Run("employee CPF must be unique", func(t *testing.T) {
		_, err := stores.Employees.Create(ctx, domain.Employee{Name: "Outra Ana", CPF: "111.444.777-35"})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("employee lookup by CPF", func(t *testing.T) {
		got, err := stores.Employees.GetByCPF(ctx, "111.444.777-35")
		if err != nil {
			t.Fatalf("get by CPF: %v", err)
		}
		if got.ID != emp.ID {
			t.Fatalf("got ID %d, want %d", got.ID, emp.ID)
		}
	})

	t.Run("supplier CNPJ must be unique", func(t *testing.T) {
		if _, err := stores.Suppliers.Create(ctx, domain.Supplier{Name: "Distribuidora Alfa", CNPJ: "11.222.333/0001-81"}); err != nil {
			t.Fatalf("create supplier: %v", err)
		}
		_, err := stores.Suppliers.Create(ctx, domain.Supplier{Name: "Distribuidora Beta", CNPJ: "11.222.333/0001-81"})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})
}

func TestMachineStore(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	m, err := stores.Machines.Create(ctx, domain.Machine{Name: "Maquina 1", Serial: "MCH-001", Status: domain.MachineOperating})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := stores.Machines.Create(ctx, domain.Machine{Name: "Maquina 2", Serial: "MCH-001"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want conflict for duplicate serial", err)
	}

	got, err := stores.Machines.GetBySerial(ctx, "MCH-001")
	if err != nil {
		t.Fatalf("get by serial: %v", err)
	}
	if got.ID != m.ID {
		t.Fatalf("got ID %d, want %d", got.ID, m.ID)
	}
}

func TestAppointmentStoreOverlapping(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	day := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	a, err := stores.Appointments.Create(ctx, domain.Appointment{
		Start: day, End: day.Add(time.Hour), Status: domain.StatusScheduled, EmployeeID: 1, ClientID: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("half-open window", func(t *testing.T) {
		// Starting exactly at the existing end does not overlap.
		got, err := stores.Appointments.Overlapping(ctx, day.Add(time.Hour), day.Add(2*time.Hour), 0)
		if err != nil {
			t.Fatalf("overlapping: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("touching window returned %d overlaps, want 0", len(got))
		}

		got, err = stores.Appointments.Overlapping(ctx, day.Add(30*time.Minute), day.Add(90*time.Minute), 0)
		if err != nil {
			t.Fatalf("overlapping: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("overlap count = %d, want 1", len(got))
		}
	})

	t.Run("exclude skips the given ID", func(t *testing.T) {
		got, err := stores.Appointments.Overlapping(ctx, day, day.Add(time.Hour), a.ID)
		if err != nil {
			t.Fatalf("overlapping: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("self was not excluded: %d overlaps", len(got))
		}
	})
}

func TestSaleStoreExistsForAppointment(t *testing.T) {
	ctx := context.Background()
	stores := New().Stores()

	apptID := int64(42)
	if _, err := stores.Sales.Create(ctx, domain.Sale{Code: "SAL-TEST", Date: time.Now(), EmployeeID: 1, ClientID: 2, AppointmentID: &apptID}); err != nil {
		t.Fatalf("create sale: %v", err)
	}

	linked, err := stores.Sales.ExistsForAppointment(ctx, apptID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !linked {
		t.Fatal("ExistsForAppointment = false, want true")
	}
	linked, err = stores.Sales.ExistsForAppointment(ctx, 99)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if linked {
		t.Fatal("ExistsForAppointment(99) = true, want false")
	}
}
