package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

// SaleService registers sales, optionally tied to an appointment. Closing a
// sale against a scheduled appointment advances it to done, deducting the
// appointment's stock together with the sale's own standalone product lines.
type SaleService struct {
	Sales    ports.SaleStore
	Schedule ScheduleService
	Logger   *slog.Logger
}

type CreateSaleInput struct {
	Date          time.Time
	EmployeeID    int64
	ClientID      int64
	AppointmentID *int64
	Items         []ItemInput
	Comment       string
}

type UpdateSaleInput struct {
	Date          *time.Time
	EmployeeID    *int64
	ClientID      *int64
	AppointmentID *int64
	ClearLink     bool
	Items         *[]ItemInput
	Comment       *string
}

func (s SaleService) Create(ctx context.Context, in CreateSaleInput) (*domain.Sale, error) {
	if in.AppointmentID == nil && len(in.Items) == 0 {
		return nil, domain.Validationf("sale needs at least one item or a linked appointment")
	}

	var linked *domain.Appointment
	if in.AppointmentID != nil {
		a, err := s.Schedule.Get(ctx, *in.AppointmentID)
		if err != nil {
			return nil, err
		}
		if a.Status == domain.StatusDone {
			return nil, domain.Conflictf("appointment %d is already done and cannot back a new sale", a.ID)
		}
		taken, err := s.Sales.ExistsForAppointment(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflictf("appointment %d is already linked to a sale", a.ID)
		}
		linked = a
		if in.EmployeeID == 0 {
			in.EmployeeID = a.EmployeeID
		}
		if in.ClientID == 0 {
			in.ClientID = a.ClientID
		}
	}
	if in.EmployeeID == 0 || in.ClientID == 0 {
		return nil, domain.Validationf("sale needs an employee and a client")
	}

	items, err := s.resolveItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	// All stock preconditions are verified before any deduction, so a
	// failing sale leaves inventory and the appointment untouched. The
	// standalone lines and the linked appointment's lines draw from the
	// same inventory and must be checked as one aggregate demand.
	if err := s.checkCombinedStock(ctx, items, linked); err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	sale := domain.Sale{
		Code:          newSaleCode(),
		Date:          date,
		EmployeeID:    in.EmployeeID,
		ClientID:      in.ClientID,
		AppointmentID: in.AppointmentID,
		Items:         items,
		Comment:       in.Comment,
	}
	sale.Total = saleTotal(items)
	if linked != nil {
		sale.Total += linked.Total
	}

	if err := s.adjustStandaloneStock(ctx, items, -1); err != nil {
		return nil, err
	}
	if linked != nil {
		if _, err := s.Schedule.MarkDone(ctx, linked.ID); err != nil {
			return nil, err
		}
	}

	created, err := s.Sales.Create(ctx, sale)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("sale created", "id", created.ID, "code", created.Code, "total", created.Total)
	return created, nil
}

func (s SaleService) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.Sales.Get(ctx, id)
}

func (s SaleService) Update(ctx context.Context, id int64, in UpdateSaleInput) (*domain.Sale, error) {
	sale, err := s.Sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Date != nil {
		sale.Date = *in.Date
	}
	if in.EmployeeID != nil {
		sale.EmployeeID = *in.EmployeeID
	}
	if in.ClientID != nil {
		sale.ClientID = *in.ClientID
	}
	if in.Comment != nil {
		sale.Comment = *in.Comment
	}

	hasLink := sale.AppointmentID != nil && !in.ClearLink || in.AppointmentID != nil
	lineCount := len(sale.Items)
	if in.Items != nil {
		lineCount = len(*in.Items)
	}
	if !hasLink && lineCount == 0 {
		return nil, domain.Validationf("sale needs at least one item or a linked appointment")
	}

	var oldLinkedTotal float64
	if sale.AppointmentID != nil {
		a, err := s.Schedule.Get(ctx, *sale.AppointmentID)
		if err != nil {
			return nil, err
		}
		oldLinkedTotal = a.Total
	}

	relink := in.ClearLink || in.AppointmentID != nil
	if in.AppointmentID != nil && sale.AppointmentID != nil && *in.AppointmentID == *sale.AppointmentID {
		// Relinking to the appointment already backing this sale changes
		// nothing.
		relink = false
	}
	if relink {
		// The new link is vetted completely before the old appointment is
		// reverted; a rejected relink must leave the sale and both
		// appointments untouched.
		var next *domain.Appointment
		if in.AppointmentID != nil {
			a, err := s.Schedule.Get(ctx, *in.AppointmentID)
			if err != nil {
				return nil, err
			}
			taken, err := s.Sales.ExistsForAppointment(ctx, a.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.Conflictf("appointment %d is already linked to a sale", a.ID)
			}
			if a.Status == domain.StatusDone {
				return nil, domain.Conflictf("appointment %d is already done and cannot back a sale", a.ID)
			}
			if err := s.Schedule.checkStock(ctx, *a); err != nil {
				return nil, err
			}
			next = a
		}
		if sale.AppointmentID != nil {
			if _, err := s.Schedule.MarkScheduled(ctx, *sale.AppointmentID); err != nil {
				return nil, err
			}
			sale.AppointmentID = nil
			oldLinkedTotal = 0
		}
		if next != nil {
			if _, err := s.Schedule.MarkDone(ctx, next.ID); err != nil {
				return nil, err
			}
			sale.AppointmentID = in.AppointmentID
			oldLinkedTotal = next.Total
		}
	}

	if in.Items != nil {
		items, err := s.resolveItems(ctx, *in.Items)
		if err != nil {
			return nil, err
		}
		if err := s.checkStandaloneStock(ctx, items); err != nil {
			return nil, err
		}
		if err := s.adjustStandaloneStock(ctx, sale.Items, +1); err != nil {
			return nil, err
		}
		if err := s.adjustStandaloneStock(ctx, items, -1); err != nil {
			return nil, err
		}
		sale.Items = items
	}
	sale.Total = saleTotal(sale.Items) + oldLinkedTotal

	return s.Sales.Update(ctx, *sale)
}

// Delete removes the sale and restores the stock of its standalone product
// lines. A linked appointment keeps its done status; reverting it is a
// scheduling decision, not a sales one.
func (s SaleService) Delete(ctx context.Context, id int64) error {
	sale, err := s.Sales.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.adjustStandaloneStock(ctx, sale.Items, +1); err != nil {
		return err
	}
	if err := s.Sales.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("sale deleted", "id", id, "code", sale.Code)
	return nil
}

func (s SaleService) Filter(ctx context.Context, f ports.SaleFilter) ([]domain.Sale, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.Validationf("filter start date cannot be after end date")
	}
	return s.Sales.List(ctx, f)
}

func (s SaleService) resolveItems(ctx context.Context, in []ItemInput) ([]domain.SaleItem, error) {
	resolved, err := s.Schedule.resolveItems(ctx, in)
	if err != nil {
		return nil, err
	}
	items := make([]domain.SaleItem, 0, len(resolved))
	for i, it := range resolved {
		items = append(items, domain.SaleItem{ID: int64(i + 1), Item: it.Item, Qty: it.Qty, UnitPrice: it.UnitPrice})
	}
	return items, nil
}

func (s SaleService) checkStandaloneStock(ctx context.Context, items []domain.SaleItem) error {
	return s.checkCombinedStock(ctx, items, nil)
}

// checkCombinedStock verifies the sale's standalone product lines together
// with the linked appointment's product and supply lines against current
// stock. Summing the two demands first catches the case where each side
// alone fits but the combination does not.
func (s SaleService) checkCombinedStock(ctx context.Context, items []domain.SaleItem, linked *domain.Appointment) error {
	products := map[int64]float64{}
	supplies := map[int64]float64{}
	for _, it := range items {
		if it.Item.Kind == domain.ItemProduct {
			products[it.Item.ID] += it.Qty
		}
	}
	if linked != nil && linked.Status != domain.StatusDone {
		lp, ls := stockNeeds(*linked)
		for id, qty := range lp {
			products[id] += qty
		}
		for id, qty := range ls {
			supplies[id] += qty
		}
	}
	for id, qty := range products {
		p, err := s.Schedule.Products.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.Stock < qty {
			return &domain.InsufficientStockError{Kind: "product", Name: p.Name, Available: p.Stock, Requested: qty}
		}
	}
	for id, qty := range supplies {
		sup, err := s.Schedule.Supplies.Get(ctx, id)
		if err != nil {
			return err
		}
		if sup.Stock < qty {
			return &domain.InsufficientStockError{Kind: "supply", Name: sup.Name, Available: sup.Stock, Requested: qty}
		}
	}
	return nil
}

func (s SaleService) adjustStandaloneStock(ctx context.Context, items []domain.SaleItem, sign float64) error {
	needs := map[int64]float64{}
	for _, it := range items {
		if it.Item.Kind == domain.ItemProduct {
			needs[it.Item.ID] += it.Qty
		}
	}
	for id, qty := range needs {
		if err := s.Schedule.Products.AdjustStock(ctx, id, sign*qty); err != nil {
			return err
		}
	}
	return nil
}

func saleTotal(items []domain.SaleItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

func newSaleCode() string {
	return "SAL-" + strings.ToUpper(uuid.NewString()[:8])
}
