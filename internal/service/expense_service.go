package service

import (
	"context"
	"log/slog"
	"time"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

// ExpenseService maintains the expense ledger. Purchase entries additionally
// feed product and supply inventory; deleting a purchase is a bookkeeping
// correction and does not reverse those inventory effects.
type ExpenseService struct {
	Expenses  ports.ExpenseStore
	Products  ports.ProductStore
	Supplies  ports.SupplyStore
	Machines  ports.MachineStore
	Suppliers ports.SupplierStore
	Employees ports.EmployeeStore
	Logger    *slog.Logger
}

type PurchaseInput struct {
	Date        time.Time
	SupplierID  *int64
	ItemKind    domain.PurchaseItemKind
	ItemID      *int64
	Description string
	Quantity    float64
	UnitPrice   float64
	Comment     string
}

type FixedThirdPartyInput struct {
	Date    time.Time
	Label   string
	Total   float64
	Comment string
}

type SalaryInput struct {
	Date        time.Time
	EmployeeID  int64
	GrossSalary float64
	Deductions  float64
	Comment     string
}

type CommissionInput struct {
	Date           time.Time
	EmployeeID     int64
	ServiceRevenue float64
	ProductRevenue float64
	ServiceRate    float64
	ProductRate    float64
	Comment        string
}

type OtherExpenseInput struct {
	Date    time.Time
	Label   string
	Total   float64
	Comment string
}

// UpdateExpenseInput covers the only mutable fields of a recorded expense.
// Amounts and references are immutable; a wrong entry is deleted and
// re-recorded.
type UpdateExpenseInput struct {
	Date    *time.Time
	Label   *string
	Comment *string
}

func (s ExpenseService) RecordPurchase(ctx context.Context, in PurchaseInput) (*domain.Expense, error) {
	if err := validateExpenseDate(in.Date); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, domain.Validationf("purchase quantity must be positive")
	}
	if in.UnitPrice <= 0 {
		return nil, domain.Validationf("purchase unit price must be positive")
	}
	if in.SupplierID != nil {
		if _, err := s.Suppliers.Get(ctx, *in.SupplierID); err != nil {
			return nil, err
		}
	}

	item := domain.PurchaseItemRef{Kind: in.ItemKind, ID: in.ItemID, Description: in.Description}
	switch in.ItemKind {
	case domain.PurchaseItemProduct, domain.PurchaseItemSupply, domain.PurchaseItemMachine:
		if in.ItemID == nil {
			return nil, domain.Validationf("purchase of kind %q needs an item reference", in.ItemKind)
		}
	case domain.PurchaseItemOther:
		if in.Description == "" {
			return nil, domain.Validationf("purchase of kind other needs a description")
		}
	default:
		return nil, domain.Validationf("unknown purchase item kind %q", in.ItemKind)
	}

	entry := domain.CostEntry{Date: in.Date, Quantity: in.Quantity, UnitPrice: in.UnitPrice, SupplierID: in.SupplierID}
	switch in.ItemKind {
	case domain.PurchaseItemProduct:
		if err := s.Products.RecordPurchase(ctx, *in.ItemID, entry); err != nil {
			return nil, err
		}
	case domain.PurchaseItemSupply:
		if err := s.Supplies.RecordPurchase(ctx, *in.ItemID, entry); err != nil {
			return nil, err
		}
	case domain.PurchaseItemMachine:
		if _, err := s.Machines.Get(ctx, *in.ItemID); err != nil {
			return nil, err
		}
	}

	expense := domain.Expense{
		Kind:       domain.ExpensePurchase,
		Date:       in.Date,
		Total:      in.Quantity * in.UnitPrice,
		Comment:    in.Comment,
		SupplierID: in.SupplierID,
		Item:       &item,
		Quantity:   &in.Quantity,
		UnitPrice:  &in.UnitPrice,
	}
	created, err := s.Expenses.Create(ctx, expense)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("purchase recorded", "id", created.ID, "item_kind", in.ItemKind, "total", created.Total)
	return created, nil
}

func (s ExpenseService) RecordFixedThirdParty(ctx context.Context, in FixedThirdPartyInput) (*domain.Expense, error) {
	if err := validateExpenseDate(in.Date); err != nil {
		return nil, err
	}
	if in.Label == "" {
		return nil, domain.Validationf("fixed expense needs a label")
	}
	if in.Total <= 0 {
		return nil, domain.Validationf("expense total must be positive")
	}
	return s.Expenses.Create(ctx, domain.Expense{
		Kind:    domain.ExpenseFixedThirdParty,
		Date:    in.Date,
		Total:   in.Total,
		Comment: in.Comment,
		Label:   in.Label,
	})
}

func (s ExpenseService) RecordSalary(ctx context.Context, in SalaryInput) (*domain.Expense, error) {
	if err := validateExpenseDate(in.Date); err != nil {
		return nil, err
	}
	if _, err := s.Employees.Get(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	if in.GrossSalary <= 0 {
		return nil, domain.Validationf("gross salary must be positive")
	}
	if in.Deductions < 0 || in.Deductions > in.GrossSalary {
		return nil, domain.Validationf("deductions must be between zero and the gross salary")
	}
	return s.Expenses.Create(ctx, domain.Expense{
		Kind:        domain.ExpenseSalary,
		Date:        in.Date,
		Total:       in.GrossSalary - in.Deductions,
		Comment:     in.Comment,
		EmployeeID:  &in.EmployeeID,
		GrossSalary: &in.GrossSalary,
		Deductions:  &in.Deductions,
	})
}

func (s ExpenseService) RecordCommission(ctx context.Context, in CommissionInput) (*domain.Expense, error) {
	if err := validateExpenseDate(in.Date); err != nil {
		return nil, err
	}
	if _, err := s.Employees.Get(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	if in.ServiceRevenue < 0 || in.ProductRevenue < 0 {
		return nil, domain.Validationf("commission revenues cannot be negative")
	}
	if in.ServiceRate < 0 || in.ServiceRate > 1 || in.ProductRate < 0 || in.ProductRate > 1 {
		return nil, domain.Validationf("commission rates must be between 0 and 1")
	}
	total := in.ServiceRevenue*in.ServiceRate + in.ProductRevenue*in.ProductRate
	if total <= 0 {
		return nil, domain.Validationf("commission total must be positive")
	}
	return s.Expenses.Create(ctx, domain.Expense{
		Kind:           domain.ExpenseCommission,
		Date:           in.Date,
		Total:          total,
		Comment:        in.Comment,
		EmployeeID:     &in.EmployeeID,
		ServiceRevenue: &in.ServiceRevenue,
		ProductRevenue: &in.ProductRevenue,
		ServiceRate:    &in.ServiceRate,
		ProductRate:    &in.ProductRate,
	})
}

func (s ExpenseService) RecordOther(ctx context.Context, in OtherExpenseInput) (*domain.Expense, error) {
	if err := validateExpenseDate(in.Date); err != nil {
		return nil, err
	}
	if in.Label == "" {
		return nil, domain.Validationf("expense needs a label")
	}
	if in.Total <= 0 {
		return nil, domain.Validationf("expense total must be positive")
	}
	return s.Expenses.Create(ctx, domain.Expense{
		Kind:    domain.ExpenseOther,
		Date:    in.Date,
		Total:   in.Total,
		Comment: in.Comment,
		Label:   in.Label,
	})
}

func (s ExpenseService) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.Expenses.Get(ctx, id)
}

func (s ExpenseService) Update(ctx context.Context, id int64, in UpdateExpenseInput) (*domain.Expense, error) {
	e, err := s.Expenses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Date != nil {
		if err := validateExpenseDate(*in.Date); err != nil {
			return nil, err
		}
		e.Date = *in.Date
	}
	if in.Label != nil {
		if e.Kind != domain.ExpenseFixedThirdParty && e.Kind != domain.ExpenseOther {
			return nil, domain.Validationf("only fixed and other expenses carry a label")
		}
		if *in.Label == "" {
			return nil, domain.Validationf("expense label cannot be empty")
		}
		e.Label = *in.Label
	}
	if in.Comment != nil {
		e.Comment = *in.Comment
	}
	return s.Expenses.Update(ctx, *e)
}

// Delete removes the ledger entry only. Stock added by a purchase stays; the
// goods are physically on the shelf regardless of the bookkeeping.
func (s ExpenseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Expenses.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Expenses.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("expense deleted", "id", id)
	return nil
}

func (s ExpenseService) Filter(ctx context.Context, f ports.ExpenseFilter) ([]domain.Expense, error) {
	if f.From.IsZero() || f.To.IsZero() {
		return nil, domain.Validationf("expense filter needs a start and an end date")
	}
	if f.From.After(f.To) {
		return nil, domain.Validationf("filter start date cannot be after end date")
	}
	return s.Expenses.List(ctx, f)
}

func validateExpenseDate(date time.Time) error {
	if date.IsZero() {
		return domain.Validationf("expense needs a date")
	}
	if date.After(endOfToday()) {
		return domain.Validationf("expense date cannot be in the future")
	}
	return nil
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}
