package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"salonops-backend/internal/domain"
)

func TestSaleCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("standalone sale deducts product stock", func(t *testing.T) {
		env := newTestEnv(t)
		sale, err := env.sales.Create(ctx, CreateSaleInput{
			EmployeeID: env.employee.ID,
			ClientID:   env.client.ID,
			Items:      []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2}},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if sale.Total != 40 {
			t.Fatalf("total = %v, want 40", sale.Total)
		}
		if !strings.HasPrefix(sale.Code, "SAL-") {
			t.Fatalf("code = %q, want SAL- prefix", sale.Code)
		}
		if got := env.productStock(t); got != 3 {
			t.Fatalf("stock = %v, want 3", got)
		}
	})

	t.Run("linked sale advances appointment and sums its total", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2})
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		sale, err := env.sales.Create(ctx, CreateSaleInput{
			AppointmentID: &a.ID,
			Items:         []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 1}},
		})
		if err != nil {
			t.Fatalf("create sale: %v", err)
		}
		// 90 from the appointment plus one standalone unit at 20.
		if sale.Total != 110 {
			t.Fatalf("total = %v, want 110", sale.Total)
		}
		if sale.EmployeeID != env.employee.ID || sale.ClientID != env.client.ID {
			t.Fatalf("sale did not inherit employee/client from the appointment")
		}
		done, err := env.schedule.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("get appointment: %v", err)
		}
		if done.Status != domain.StatusDone {
			t.Fatalf("appointment status = %v, want done", done.Status)
		}
		// 2 units for the appointment lines and 1 standalone.
		if got := env.productStock(t); got != 2 {
			t.Fatalf("stock = %v, want 2", got)
		}
	})

	t.Run("done appointment cannot back a new sale", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		if _, err := env.schedule.MarkDone(ctx, a.ID); err != nil {
			t.Fatalf("mark done: %v", err)
		}
		if _, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &a.ID}); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("appointment cannot back two sales", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		if _, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &a.ID}); err != nil {
			t.Fatalf("first sale: %v", err)
		}
		if _, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &a.ID}); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("stock failure leaves everything untouched", func(t *testing.T) {
		env := newTestEnv(t)
		in := env.basicInput(10)
		in.Items = append(in.Items, ItemInput{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 3})
		a, err := env.schedule.Create(ctx, in)
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		// 3 units on the appointment plus 4 standalone exceeds the 5 in stock.
		_, err = env.sales.Create(ctx, CreateSaleInput{
			AppointmentID: &a.ID,
			Items:         []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 4}},
		})
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("err = %v, want insufficient stock", err)
		}
		if got := env.productStock(t); got != 5 {
			t.Fatalf("stock = %v, want 5", got)
		}
		current, err := env.schedule.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("get appointment: %v", err)
		}
		if current.Status != domain.StatusScheduled {
			t.Fatalf("appointment status = %v, want scheduled", current.Status)
		}
	})

	t.Run("needs items or a link", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.sales.Create(ctx, CreateSaleInput{EmployeeID: env.employee.ID, ClientID: env.client.ID})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})
}

func TestSaleUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("relink reverts old appointment and advances new", func(t *testing.T) {
		env := newTestEnv(t)
		first, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("first appointment: %v", err)
		}
		second, err := env.schedule.Create(ctx, env.basicInput(14))
		if err != nil {
			t.Fatalf("second appointment: %v", err)
		}
		sale, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &first.ID})
		if err != nil {
			t.Fatalf("create sale: %v", err)
		}
		updated, err := env.sales.Update(ctx, sale.ID, UpdateSaleInput{AppointmentID: &second.ID})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.AppointmentID == nil || *updated.AppointmentID != second.ID {
			t.Fatalf("sale still points at the old appointment")
		}
		a1, _ := env.schedule.Get(ctx, first.ID)
		a2, _ := env.schedule.Get(ctx, second.ID)
		if a1.Status != domain.StatusScheduled || a2.Status != domain.StatusDone {
			t.Fatalf("statuses = %v/%v, want scheduled/done", a1.Status, a2.Status)
		}
	})

	t.Run("failed relink leaves sale and appointments untouched", func(t *testing.T) {
		env := newTestEnv(t)
		first, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("first appointment: %v", err)
		}
		second, err := env.schedule.Create(ctx, env.basicInput(14))
		if err != nil {
			t.Fatalf("second appointment: %v", err)
		}
		sale, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &first.ID})
		if err != nil {
			t.Fatalf("sale on first: %v", err)
		}
		if _, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &second.ID}); err != nil {
			t.Fatalf("sale on second: %v", err)
		}
		// Relinking onto an appointment that already backs another sale
		// must fail before the old link is reverted.
		_, err = env.sales.Update(ctx, sale.ID, UpdateSaleInput{AppointmentID: &second.ID})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
		stored, err := env.sales.Get(ctx, sale.ID)
		if err != nil {
			t.Fatalf("get sale: %v", err)
		}
		if stored.AppointmentID == nil || *stored.AppointmentID != first.ID {
			t.Fatalf("sale link = %v, want appointment %d", stored.AppointmentID, first.ID)
		}
		a1, err := env.schedule.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("get appointment: %v", err)
		}
		if a1.Status != domain.StatusDone {
			t.Fatalf("old appointment status = %v, want still done", a1.Status)
		}
	})

	t.Run("relinking to the same appointment is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		sale, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &a.ID})
		if err != nil {
			t.Fatalf("create sale: %v", err)
		}
		updated, err := env.sales.Update(ctx, sale.ID, UpdateSaleInput{AppointmentID: &a.ID})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.AppointmentID == nil || *updated.AppointmentID != a.ID {
			t.Fatalf("link = %v, want appointment %d", updated.AppointmentID, a.ID)
		}
		current, err := env.schedule.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("get appointment: %v", err)
		}
		if current.Status != domain.StatusDone {
			t.Fatalf("status = %v, want done", current.Status)
		}
	})

	t.Run("replacing items restocks the old lines", func(t *testing.T) {
		env := newTestEnv(t)
		sale, err := env.sales.Create(ctx, CreateSaleInput{
			EmployeeID: env.employee.ID,
			ClientID:   env.client.ID,
			Items:      []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 3}},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		newItems := []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 1}}
		updated, err := env.sales.Update(ctx, sale.ID, UpdateSaleInput{Items: &newItems})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Total != 20 {
			t.Fatalf("total = %v, want 20", updated.Total)
		}
		if got := env.productStock(t); got != 4 {
			t.Fatalf("stock = %v, want 4", got)
		}
	})

	t.Run("cannot clear the link on an item-less sale", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		sale, err := env.sales.Create(ctx, CreateSaleInput{AppointmentID: &a.ID})
		if err != nil {
			t.Fatalf("create sale: %v", err)
		}
		if _, err := env.sales.Update(ctx, sale.ID, UpdateSaleInput{ClearLink: true}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})
}

func TestSaleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("restores standalone stock only", func(t *testing.T) {
		env := newTestEnv(t)
		a, err := env.schedule.Create(ctx, env.basicInput(10))
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		sale, err := env.sales.Create(ctx, CreateSaleInput{
			AppointmentID: &a.ID,
			Items:         []ItemInput{{Kind: domain.ItemProduct, ItemID: env.pomade.ID, Qty: 2}},
		})
		if err != nil {
			t.Fatalf("create sale: %v", err)
		}
		if err := env.sales.Delete(ctx, sale.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if got := env.productStock(t); got != 5 {
			t.Fatalf("stock = %v, want 5", got)
		}
		// The linked appointment stays done.
		current, err := env.schedule.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("get appointment: %v", err)
		}
		if current.Status != domain.StatusDone {
			t.Fatalf("appointment status = %v, want done", current.Status)
		}
	})
}
