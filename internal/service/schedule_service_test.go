package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
	"salonops-backend/internal/registry"
)

type testEnv struct {
	stores   ports.Stores
	schedule ScheduleService
	sales    SaleService
	expenses ExpenseService

	employee domain.Employee
	client   domain.Client
	haircut  domain.Service
	pomade   domain.Product
	waxRefil domain.Supply
	clipper  domain.Machine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	stores := registry.New().Stores()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{stores: stores}
	env.schedule = ScheduleService{
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
	env.sales = SaleService{Sales: stores.Sales, Schedule: env.schedule, Logger: logger}
	env.expenses = ExpenseService{
		Expenses:  stores.Expenses,
		Products:  stores.Products,
		Supplies:  stores.Supplies,
		Machines:  stores.Machines,
		Suppliers: stores.Suppliers,
		Employees: stores.Employees,
		Logger:    logger,
	}

	employee, err := stores.Employees.Create(ctx, domain.Employee{Name: "Ana Souza", CPF: "111.444.777-35"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	env.employee = *employee

	client, err := stores.Clients.Create(ctx, domain.Client{Name: "Bruno Lima", CPF: "529.982.247-25"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	env.client = *client

	haircut, err := stores.Services.Create(ctx, domain.Service{Name: "Corte", SalePrice: 50})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	env.haircut = *haircut

	pomade, err := stores.Products.Create(ctx, domain.Product{Name: "Pomada", Price: 20, Stock: 5})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	env.pomade = *pomade

	wax, err := stores.Supplies.Create(ctx, domain.Supply{Name: "Cera", Unit: "kg", Stock: 2})
	if err != nil {
		t.Fatalf("create supply: %v", err)
	}
	env.waxRefil = *wax

	clipper, err := stores.Machines.Create(ctx, domain.Machine{Name: "Maquina 1", Serial: "MCH-001", Status: domain.MachineOperating})
	if err != nil {
		t.Fatalf("create machine: %v", err)
	}
	env.clipper = *clipper

	return env
}

func (e *testEnv) window(hour int) (time.Time, time.Time) {
	day := time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
	return day, day.Add(time.Hour)
}

func (e *testEnv) basicInput(startHour int) CreateAppointmentInput {
	start, end := e.window(startHour)
	return CreateAppointmentInput{
		EmployeeID: e.employee.ID,
		ClientID:   e.client.ID,
		Start:      start,
		End:        end,
		Items: []ItemInput{
			{Kind: domain.ItemService, ItemID: e.haircut.ID, Qty: 1},
		},
	}
}

func (e *testEnv) productStock(t *testing.T) float64 {
	t.Helper()
	p, err := e.stores.Products.Get(context.Background(), e.pomade.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return p.Stock
}

func (e *testEnv) supplyStock(t *testing.T) float64 {
	t.Helper()
	s, err := e.stores.Supplies.Get(context.Background(), e.waxRefil.ID)
	if err != nil {
		t.Fatalf("get supply: %v", err)
	}
	return s.Stock
}

func TestScheduleCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("computes total from items", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2})
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if a.Total != 90.00 {
			t.Fatalf("total = %v, want 90.00", a.Total)
		}
		if a.Status != domain.StatusScheduled {
			t.Fatalf("status = %v, want scheduled", a.Status)
		}
		// Scheduling alone moves no stock.
		if got := env.productStock(t); got != 5 {
			t.Fatalf("stock after scheduling = %v, want 5", got)
		}
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.End = in.Start.Add(-time.Hour)
		if _, err := env.schedule.Create(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("rejects empty items", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = nil
		if _, err := env.schedule.Create(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("rejects machine under maintenance", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.clipper
		m.Status = domain.MachineMaintenance
		if _, err := env.stores.Machines.Update(ctx, m); err != nil {
			t.Fatalf("update machine: %v", err)
		}
		in := env.basicInput(10)
		in.MachineIDs = []int64{env.clipper.ID}
		if _, err := env.schedule.Create(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("rejects supply shortage at scheduling", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Supplies = []SupplyInput{{SupplyID: env.waxRefil.ID, Qty: 3}}
		if _, err := env.schedule.Create(ctx, in); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("err = %v, want insufficient stock", err)
		}
	})
}

func TestScheduleConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("same employee overlap fails", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := env.schedule.Create(ctx, env.basicInput(10)); err != nil {
			t.Fatalf("first create: %v", err)
		}
		other, err := env.stores.Clients.Create(ctx, domain.Client{Name: "Clara Dias", CPF: "390.533.447-05"})
		if err != nil {
			t.Fatalf("create client: %v", err)
		}
		in := env.basicInput(10)
		in.ClientID = other.ID
		in.Start = in.Start.Add(30 * time.Minute)
		in.End = in.End.Add(30 * time.Minute)
		if _, err := env.schedule.Create(ctx, in); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("same client overlap fails", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := env.schedule.Create(ctx, env.basicInput(10)); err != nil {
			t.Fatalf("first create: %v", err)
		}
		other, err := env.stores.Employees.Create(ctx, domain.Employee{Name: "Davi Rocha", CPF: "168.995.350-09"})
		if err != nil {
			t.Fatalf("create employee: %v", err)
		}
		in := env.basicInput(10)
		in.EmployeeID = other.ID
		if _, err := env.schedule.Create(ctx, in); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("same machine overlap fails", func(t *testing.T) {
		env := newTestEnv(t)
		first := env.basicInput(10)
		first.MachineIDs = []int64{env.clipper.ID}
		if _, err := env.schedule.Create(ctx, first); err != nil {
			t.Fatalf("first create: %v", err)
		}
		otherEmp, err := env.stores.Employees.Create(ctx, domain.Employee{Name: "Davi Rocha", CPF: "168.995.350-09"})
		if err != nil {
			t.Fatalf("create employee: %v", err)
		}
		otherCli, err := env.stores.Clients.Create(ctx, domain.Client{Name: "Clara Dias", CPF: "390.533.447-05"})
		if err != nil {
			t.Fatalf("create client: %v", err)
		}
		in := env.basicInput(10)
		in.EmployeeID = otherEmp.ID
		in.ClientID = otherCli.ID
		in.MachineIDs = []int64{env.clipper.ID}
		if _, err := env.schedule.Create(ctx, in); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("touching windows do not conflict", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := env.schedule.Create(ctx, env.basicInput(10)); err != nil {
			t.Fatalf("first create: %v", err)
		}
		// Second booking starts exactly when the first ends.
		if _, err := env.schedule.Create(ctx, env.basicInput(11)); err != nil {
			t.Fatalf("touching create: %v", err)
		}
	})

	t.Run("update excludes itself from the check", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		newStart := a.Start.Add(15 * time.Minute)
		newEnd := a.End.Add(15 * time.Minute)
		if _, err := env.schedule.Update(ctx, a.ID, UpdateAppointmentInput{Start: &newStart, End: &newEnd}); err != nil {
			t.Fatalf("update: %v", err)
		}
	})
}

func TestScheduleStatusMachine(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, env *testEnv) *domain.Appointment {
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2})
		in.Supplies = []SupplyInput{{SupplyID: env.waxRefil.ID, Qty: 0.5}}
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return a
	}

	t.Run("done deducts and revert restores", func(t *testing.T) {
		env := newTestEnv(t)
		a := create(t, env)
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		if got := env.productStock(t); got != 3 {
			t.Fatalf("product stock after done = %v, want 3", got)
		}
		if got := env.supplyStock(t); got != 1.5 {
			t.Fatalf("supply stock after done = %v, want 1.5", got)
		}
		if _, err := env.schedule.MarkScheduled(ctx, a.ID); err != nil {
			t.Fatalf("mark scheduled: %v", err)
		}
		if got := env.productStock(t); got != 5 {
			t.Fatalf("product stock after revert = %v, want 5", got)
		}
		if got := env.supplyStock(t); got != 2 {
			t.Fatalf("supply stock after revert = %v, want 2", got)
		}
	})

	t.Run("done is idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		a := create(t, env)
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("second mark done: %v", err)
		}
		if got := env.productStock(t); got != 3 {
			t.Fatalf("stock deducted twice: %v, want 3", got)
		}
	})

	t.Run("insufficient stock blocks the whole transition", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2})
		in.Supplies = []SupplyInput{{SupplyID: env.waxRefil.ID, Qty: 1}}
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		// Drain the supply behind the appointment's back.
		if err := env.stores.Supplies.AdjustStock(ctx, env.waxRefil.ID, -1.5); err != nil {
			t.Fatalf("drain supply: %v", err)
		}
		if _, err := env.schedule.MarkDone(ctx, a.ID); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("err = %v, want insufficient stock", err)
		}
		// The product line must not have been deducted either.
		if got := env.productStock(t); got != 5 {
			t.Fatalf("partial deduction happened: product stock = %v, want 5", got)
		}
	})

	t.Run("not done after done restores stock", func(t *testing.T) {
		env := newTestEnv(t)
		a := create(t, env)
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		if _, err := env.schedule.MarkNotDone(ctx, a.ID); err != nil {
			t.Fatalf("mark not done: %v", err)
		}
		if got := env.productStock(t); got != 5 {
			t.Fatalf("stock after not done = %v, want 5", got)
		}
	})
}

func TestScheduleUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("line edits on done appointment are rejected", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		_, err = env.schedule.Update(ctx, a.ID, UpdateAppointmentInput{
			AddItems: []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 1}},
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("leaving done restocks old lines before edits", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2})
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		status := domain.StatusScheduled
		var productLine int64
		for _, it := range a.Items {
			if it.Item.Kind == domain.ItemProduct {
				productLine = it.ID
			}
		}
		updated, err := env.schedule.Update(ctx, a.ID, UpdateAppointmentInput{
			Status:        &status,
			RemoveItemIDs: []int64{productLine},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got := env.productStock(t); got != 5 {
			t.Fatalf("stock = %v, want 5", got)
		}
		if updated.Total != 50 {
			t.Fatalf("total = %v, want 50", updated.Total)
		}
	})

	t.Run("rejected update leaves done stock deducted", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2})
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		// Reverting the status with an inverted window must fail without
		// restoring the deducted stock or touching the stored status.
		status := domain.StatusScheduled
		badEnd := a.Start.Add(-time.Hour)
		_, err = env.schedule.Update(ctx, a.ID, UpdateAppointmentInput{Status: &status, End: &badEnd})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
		if got := env.productStock(t); got != 3 {
			t.Fatalf("stock after rejected update = %v, want 3", got)
		}
		stored, err := env.schedule.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if stored.Status != domain.StatusDone {
			t.Fatalf("status = %v, want done", stored.Status)
		}
		// The later revert restores exactly once.
		if _, err := env.schedule.MarkNotDone(ctx, a.ID); err != nil {
			t.Fatalf("mark not done: %v", err)
		}
		if got := env.productStock(t); got != 5 {
			t.Fatalf("stock after revert = %v, want 5", got)
		}
	})

	t.Run("recomputes total after item changes", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		updated, err := env.schedule.Update(ctx, a.ID, UpdateAppointmentInput{
			AddItems: []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2}},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Total != 90 {
			t.Fatalf("total = %v, want 90", updated.Total)
		}
	})
}

func TestScheduleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("done appointment restocks on delete", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2})
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		if err := env.schedule.Delete(ctx, a.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if got := env.productStock(t); got != 5 {
			t.Fatalf("stock after delete = %v, want 5", got)
		}
	})

	t.Run("sale-linked appointment cannot be deleted", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &a.ID}); err != nil {
			t.Fatalf("create sale: %v", err)
		}
		if err := env.schedule.Delete(ctx, a.ID); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})
}

func TestScheduleFilter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, hour := range []int{9, 11, 14} {
		if _, err := env.schedule.Create(ctx, env.basicInput(hour)); err != nil {
			t.Fatalf("create %d: %v", hour, err)
		}
	}

	from := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	got, err := env.schedule.Filter(ctx, ports.AppointmentFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("filtered = %d appointments, want 1", len(got))
	}

	if _, err := env.schedule.Filter(ctx, ports.AppointmentFilter{From: &to, To: &from}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error for inverted range", err)
	}
}
