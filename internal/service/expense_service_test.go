package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

func yesterday() time.Time { return time.Now().Add(-24 * time.Hour) }

func TestRecordPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("product purchase adds stock and cost history", func(t *testing.T) {
		env := newTestEnv(t)
		e, err := env.expenses.RecordPurchase(ctx, PurchaseInput{
			Date:      yesterday(),
			ItemKind:  domain.PurchaseItemProduct,
			ItemID:    &env.pomade.ID,
			Quantity:  10,
			UnitPrice: 8.50,
		})
		if err != nil {
			t.Fatalf("record purchase: %v", err)
		}
		if e.Total != 85 {
			t.Fatalf("total = %v, want 85", e.Total)
		}
		p, err := env.stores.Products.Get(ctx, env.pomade.ID)
		if err != nil {
			t.Fatalf("get product: %v", err)
		}
		if p.Stock != 15 {
			t.Fatalf("stock = %v, want 15", p.Stock)
		}
		if p.LastCost != 8.50 {
			t.Fatalf("last cost = %v, want 8.50", p.LastCost)
		}
		if len(p.CostHistory) != 1 || p.CostHistory[0].UnitPrice != 8.50 {
			t.Fatalf("cost history = %+v, want one entry at 8.50", p.CostHistory)
		}
	})

	t.Run("second purchase appends history and overwrites last cost", func(t *testing.T) {
		env := newTestEnv(t)
		for _, price := range []float64{8.50, 9.25} {
			_, err := env.expenses.RecordPurchase(ctx, PurchaseInput{
				Date:      yesterday(),
				ItemKind:  domain.PurchaseItemProduct,
				ItemID:    &env.pomade.ID,
				Quantity:  5,
				UnitPrice: price,
			})
			if err != nil {
				t.Fatalf("record purchase at %v: %v", price, err)
			}
		}
		p, _ := env.stores.Products.Get(ctx, env.pomade.ID)
		if len(p.CostHistory) != 2 {
			t.Fatalf("history length = %d, want 2", len(p.CostHistory))
		}
		if p.LastCost != 9.25 {
			t.Fatalf("last cost = %v, want 9.25", p.LastCost)
		}
	})

	t.Run("other kind needs a description", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.expenses.RecordPurchase(ctx, PurchaseInput{
			Date:      yesterday(),
			ItemKind:  domain.PurchaseItemOther,
			Quantity:  1,
			UnitPrice: 30,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("future date rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.expenses.RecordPurchase(ctx, PurchaseInput{
			Date:      time.Now().Add(48 * time.Hour),
			ItemKind:  domain.PurchaseItemProduct,
			ItemID:    &env.pomade.ID,
			Quantity:  1,
			UnitPrice: 10,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("deleting the purchase keeps the stock", func(t *testing.T) {
		env := newTestEnv(t)
		e, err := env.expenses.RecordPurchase(ctx, PurchaseInput{
			Date:      yesterday(),
			ItemKind:  domain.PurchaseItemSupply,
			ItemID:    &env.waxRefil.ID,
			Quantity:  4,
			UnitPrice: 12,
		})
		if err != nil {
			t.Fatalf("record purchase: %v", err)
		}
		if err := env.expenses.Delete(ctx, e.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if got := env.supplyStock(t); got != 6 {
			t.Fatalf("supply stock = %v, want 6 after delete", got)
		}
	})
}

func TestRecordSalary(t *testing.T) {
	ctx := context.Background()

	t.Run("total is gross minus deductions", func(t *testing.T) {
		env := newTestEnv(t)
		e, err := env.expenses.RecordSalary(ctx, SalaryInput{
			Date:        yesterday(),
			EmployeeID:  env.employee.ID,
			GrossSalary: 3000,
			Deductions:  450,
		})
		if err != nil {
			t.Fatalf("record salary: %v", err)
		}
		if e.Total != 2550 {
			t.Fatalf("total = %v, want 2550", e.Total)
		}
	})

	t.Run("deductions above gross rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.expenses.RecordSalary(ctx, SalaryInput{
			Date:        yesterday(),
			EmployeeID:  env.employee.ID,
			GrossSalary: 3000,
			Deductions:  3001,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})
}

func TestRecordCommission(t *testing.T) {
	ctx := context.Background()

	t.Run("total sums service and product shares", func(t *testing.T) {
		env := newTestEnv(t)
		e, err := env.expenses.RecordCommission(ctx, CommissionInput{
			Date:           yesterday(),
			EmployeeID:     env.employee.ID,
			ServiceRevenue: 1000,
			ProductRevenue: 400,
			ServiceRate:    0.4,
			ProductRate:    0.1,
		})
		if err != nil {
			t.Fatalf("record commission: %v", err)
		}
		if e.Total != 440 {
			t.Fatalf("total = %v, want 440", e.Total)
		}
	})

	t.Run("rate above one rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.expenses.RecordCommission(ctx, CommissionInput{
			Date:           yesterday(),
			EmployeeID:     env.employee.ID,
			ServiceRevenue: 1000,
			ServiceRate:    1.5,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})
}

func TestExpenseUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	e, err := env.expenses.RecordSalary(ctx, SalaryInput{
		Date:        yesterday(),
		EmployeeID:  env.employee.ID,
		GrossSalary: 3000,
	})
	if err != nil {
		t.Fatalf("record salary: %v", err)
	}

	label := "rent"
	if _, err := env.expenses.Update(ctx, e.ID, UpdateExpenseInput{Label: &label}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error for label on salary", err)
	}

	comment := "august payroll"
	updated, err := env.expenses.Update(ctx, e.ID, UpdateExpenseInput{Comment: &comment})
	if err != nil {
		t.Fatalf("update comment: %v", err)
	}
	if updated.Comment != comment {
		t.Fatalf("comment = %q, want %q", updated.Comment, comment)
	}
	if updated.Total != 3000 {
		t.Fatalf("total changed on update: %v", updated.Total)
	}
}

func TestExpenseFilter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	if _, err := env.expenses.RecordOther(ctx, OtherExpenseInput{Date: base, Label: "cleaning", Total: 80}); err != nil {
		t.Fatalf("record other: %v", err)
	}
	if _, err := env.expenses.RecordFixedThirdParty(ctx, FixedThirdPartyInput{Date: base.AddDate(0, 1, 0), Label: "rent", Total: 1200}); err != nil {
		t.Fatalf("record fixed: %v", err)
	}

	if _, err := env.expenses.Filter(ctx, ports.ExpenseFilter{From: base}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error for open range", err)
	}

	got, err := env.expenses.Filter(ctx, ports.ExpenseFilter{
		From:  base.AddDate(0, 0, -1),
		To:    base.AddDate(0, 0, 1),
		Kinds: []domain.ExpenseKind{domain.ExpenseOther},
	})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 || got[0].Label != "cleaning" {
		t.Fatalf("filtered = %+v, want the cleaning entry only", got)
	}
}
