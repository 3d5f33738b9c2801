package service

import (
	"context"
	"log/slog"
	"time"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

// ScheduleService owns the appointment lifecycle: conflict detection,
// the status state machine and its inventory side effects.
type ScheduleService struct {
	Appointments ports.AppointmentStore
	Sales        ports.SaleStore
	Products     ports.ProductStore
	Supplies     ports.SupplyStore
	Services     ports.ServiceStore
	Machines     ports.MachineStore
	Employees    ports.EmployeeStore
	Clients      ports.ClientStore
	Logger       *slog.Logger
}

// ItemInput references a service or product line with an optional negotiated
// price; nil means the catalog price applies.
type ItemInput struct {
	Kind      domain.ItemKind
	ItemID    int64
	Qty       float64
	UnitPrice *float64
}

type SupplyInput struct {
	SupplyID int64
	Qty      float64
}

type CreateAppointmentInput struct {
	EmployeeID int64
	ClientID   int64
	Start      time.Time
	End        time.Time
	Items      []ItemInput
	MachineIDs []int64
	Supplies   []SupplyInput
	Comment    string
	Status     domain.AppointmentStatus
}

type UpdateAppointmentInput struct {
	EmployeeID    *int64
	ClientID      *int64
	Start         *time.Time
	End           *time.Time
	Comment       *string
	Status        *domain.AppointmentStatus
	AddItems      []ItemInput
	RemoveItemIDs []int64
	MachineIDs    *[]int64
	Supplies      *[]SupplyInput
}

func (s ScheduleService) Create(ctx context.Context, in CreateAppointmentInput) (*domain.Appointment, error) {
	if !in.End.After(in.Start) {
		return nil, domain.Validationf("appointment end must be after start")
	}
	if len(in.Items) == 0 {
		return nil, domain.Validationf("appointment needs at least one service or product")
	}
	status := in.Status
	if status == "" {
		status = domain.StatusScheduled
	}

	if _, err := s.Employees.Get(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	if _, err := s.Clients.Get(ctx, in.ClientID); err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	numberLines(items, 0)
	if err := s.checkMachines(ctx, in.MachineIDs); err != nil {
		return nil, err
	}
	supplies, err := s.resolveSupplies(ctx, in.Supplies, status == domain.StatusScheduled)
	if err != nil {
		return nil, err
	}

	a := domain.Appointment{
		Start:      in.Start,
		End:        in.End,
		Status:     status,
		EmployeeID: in.EmployeeID,
		ClientID:   in.ClientID,
		Items:      items,
		MachineIDs: in.MachineIDs,
		Supplies:   supplies,
		Comment:    in.Comment,
	}
	a.Total = appointmentTotal(items)

	if err := s.checkConflicts(ctx, a, 0); err != nil {
		return nil, err
	}

	// Appointments constructed directly as done only consume stock when
	// their window has already passed.
	deductNow := status == domain.StatusDone && a.End.Before(time.Now())
	if deductNow {
		if err := s.checkStock(ctx, a); err != nil {
			return nil, err
		}
	}

	created, err := s.Appointments.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	if deductNow {
		if err := s.applyStock(ctx, *created, -1); err != nil {
			return nil, err
		}
	}
	s.Logger.Info("appointment created", "id", created.ID, "status", created.Status, "total", created.Total)
	return created, nil
}

func (s ScheduleService) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.Appointments.Get(ctx, id)
}

// MarkDone transitions to done, deducting product and supply stock
// all-or-nothing. Calling it on an already done appointment is a no-op.
func (s ScheduleService) MarkDone(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transitionTo(ctx, id, domain.StatusDone)
}

// MarkNotDone transitions to not_done, restoring stock if the appointment
// was done. Calling it on an already not_done appointment is a no-op.
func (s ScheduleService) MarkNotDone(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transitionTo(ctx, id, domain.StatusNotDone)
}

// MarkScheduled transitions back to scheduled, restoring stock if the
// appointment was done.
func (s ScheduleService) MarkScheduled(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transitionTo(ctx, id, domain.StatusScheduled)
}

func (s ScheduleService) transitionTo(ctx context.Context, id int64, target domain.AppointmentStatus) (*domain.Appointment, error) {
	a, err := s.Appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, a, target); err != nil {
		return nil, err
	}
	return s.Appointments.Update(ctx, *a)
}

// transition applies the status state machine to a in place, performing the
// stock side effects. It does not persist the appointment.
func (s ScheduleService) transition(ctx context.Context, a *domain.Appointment, target domain.AppointmentStatus) error {
	if a.Status == target {
		return nil
	}
	switch {
	case target == domain.StatusDone:
		if err := s.checkStock(ctx, *a); err != nil {
			return err
		}
		if err := s.applyStock(ctx, *a, -1); err != nil {
			return err
		}
	case a.Status == domain.StatusDone:
		// Leaving done only adds stock back; no precondition.
		if err := s.applyStock(ctx, *a, +1); err != nil {
			return err
		}
	}
	s.Logger.Info("appointment status change", "id", a.ID, "from", a.Status, "to", target)
	a.Status = target
	return nil
}

func (s ScheduleService) Update(ctx context.Context, id int64, in UpdateAppointmentInput) (*domain.Appointment, error) {
	a, err := s.Appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	target := a.Status
	if in.Status != nil {
		target = *in.Status
	}

	editsLines := len(in.AddItems) > 0 || len(in.RemoveItemIDs) > 0 || in.Supplies != nil
	if a.Status == domain.StatusDone && target == domain.StatusDone && editsLines {
		return nil, domain.Validationf("cannot modify line entries of a done appointment; revert its status first")
	}

	// Edits are staged on a copy and validated completely before any stock
	// moves; a rejected update must leave both the stored appointment and
	// the inventory exactly as they were.
	updated := *a
	if in.EmployeeID != nil {
		if _, err := s.Employees.Get(ctx, *in.EmployeeID); err != nil {
			return nil, err
		}
		updated.EmployeeID = *in.EmployeeID
	}
	if in.ClientID != nil {
		if _, err := s.Clients.Get(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		updated.ClientID = *in.ClientID
	}
	if in.Start != nil {
		updated.Start = *in.Start
	}
	if in.End != nil {
		updated.End = *in.End
	}
	if !updated.End.After(updated.Start) {
		return nil, domain.Validationf("appointment end must be after start")
	}
	if in.Comment != nil {
		updated.Comment = *in.Comment
	}

	if len(in.RemoveItemIDs) > 0 {
		kept := updated.Items[:0:0]
		for _, it := range updated.Items {
			if !containsID(in.RemoveItemIDs, it.ID) {
				kept = append(kept, it)
			}
		}
		if len(updated.Items)-len(kept) != len(in.RemoveItemIDs) {
			return nil, domain.Validationf("one or more line entry IDs do not belong to this appointment")
		}
		updated.Items = kept
	}
	if len(in.AddItems) > 0 {
		added, err := s.resolveItems(ctx, in.AddItems)
		if err != nil {
			return nil, err
		}
		var last int64
		for _, it := range updated.Items {
			if it.ID > last {
				last = it.ID
			}
		}
		numberLines(added, last)
		updated.Items = append(updated.Items, added...)
	}
	if len(updated.Items) == 0 {
		return nil, domain.Validationf("appointment needs at least one service or product")
	}
	updated.Total = appointmentTotal(updated.Items)

	if in.MachineIDs != nil {
		if err := s.checkMachines(ctx, *in.MachineIDs); err != nil {
			return nil, err
		}
		updated.MachineIDs = *in.MachineIDs
	}
	if in.Supplies != nil {
		supplies, err := s.resolveSupplies(ctx, *in.Supplies, target == domain.StatusScheduled)
		if err != nil {
			return nil, err
		}
		updated.Supplies = supplies
	}

	if err := s.checkConflicts(ctx, updated, a.ID); err != nil {
		return nil, err
	}
	if a.Status != domain.StatusDone && target == domain.StatusDone {
		if err := s.checkStock(ctx, updated); err != nil {
			return nil, err
		}
	}

	// Validation is complete; stock moves run last. Leaving done restores
	// against the original line entries that were deducted, entering done
	// deducts against the updated ones.
	if a.Status == domain.StatusDone && target != domain.StatusDone {
		if err := s.applyStock(ctx, *a, +1); err != nil {
			return nil, err
		}
	}
	if a.Status != domain.StatusDone && target == domain.StatusDone {
		if err := s.applyStock(ctx, updated, -1); err != nil {
			return nil, err
		}
	}
	updated.Status = target

	return s.Appointments.Update(ctx, updated)
}

// Delete removes the appointment, restoring stock first when it was done so
// the deduction does not leak. Appointments referenced by a sale cannot be
// deleted.
func (s ScheduleService) Delete(ctx context.Context, id int64) error {
	a, err := s.Appointments.Get(ctx, id)
	if err != nil {
		return err
	}
	linked, err := s.Sales.ExistsForAppointment(ctx, id)
	if err != nil {
		return err
	}
	if linked {
		return domain.Conflictf("appointment %d is referenced by a sale and cannot be deleted", id)
	}
	if a.Status == domain.StatusDone {
		if err := s.applyStock(ctx, *a, +1); err != nil {
			return err
		}
	}
	if err := s.Appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("appointment deleted", "id", id)
	return nil
}

func (s ScheduleService) Filter(ctx context.Context, f ports.AppointmentFilter) ([]domain.Appointment, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.Validationf("filter start date cannot be after end date")
	}
	return s.Appointments.List(ctx, f)
}

// MachineInUse reports whether any appointment references the machine.
func (s ScheduleService) MachineInUse(ctx context.Context, machineID int64) (bool, error) {
	all, err := s.Appointments.List(ctx, ports.AppointmentFilter{})
	if err != nil {
		return false, err
	}
	for _, a := range all {
		if a.UsesMachine(machineID) {
			return true, nil
		}
	}
	return false, nil
}

// checkConflicts fails when another appointment with the same employee,
// client or machine overlaps the proposed window.
func (s ScheduleService) checkConflicts(ctx context.Context, a domain.Appointment, excludeID int64) error {
	overlapping, err := s.Appointments.Overlapping(ctx, a.Start, a.End, excludeID)
	if err != nil {
		return err
	}
	for _, other := range overlapping {
		if other.EmployeeID == a.EmployeeID {
			return domain.Conflictf("employee %d is already booked between %s and %s",
				a.EmployeeID, other.Start.Format(time.RFC3339), other.End.Format(time.RFC3339))
		}
		if other.ClientID == a.ClientID {
			return domain.Conflictf("client %d is already booked between %s and %s",
				a.ClientID, other.Start.Format(time.RFC3339), other.End.Format(time.RFC3339))
		}
		for _, machineID := range a.MachineIDs {
			if other.UsesMachine(machineID) {
				return domain.Conflictf("machine %d is already in use between %s and %s",
					machineID, other.Start.Format(time.RFC3339), other.End.Format(time.RFC3339))
			}
		}
	}
	return nil
}

func (s ScheduleService) resolveItems(ctx context.Context, in []ItemInput) ([]domain.ScheduledItem, error) {
	items := make([]domain.ScheduledItem, 0, len(in))
	for _, it := range in {
		if it.Qty <= 0 {
			return nil, domain.Validationf("item quantity must be positive")
		}
		var defaultPrice float64
		switch it.Kind {
		case domain.ItemService:
			svc, err := s.Services.Get(ctx, it.ItemID)
			if err != nil {
				return nil, err
			}
			defaultPrice = svc.SalePrice
		case domain.ItemProduct:
			p, err := s.Products.Get(ctx, it.ItemID)
			if err != nil {
				return nil, err
			}
			defaultPrice = p.Price
		default:
			return nil, domain.Validationf("unknown item kind %q", it.Kind)
		}
		price := defaultPrice
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		if price <= 0 {
			return nil, domain.Validationf("item unit price must be positive")
		}
		items = append(items, domain.ScheduledItem{
			Item:      domain.ItemRef{Kind: it.Kind, ID: it.ItemID},
			Qty:       it.Qty,
			UnitPrice: price,
		})
	}
	return items, nil
}

// resolveSupplies validates supply lines; checkAvailability additionally
// requires sufficient stock, which applies while the appointment stays
// scheduled.
func (s ScheduleService) resolveSupplies(ctx context.Context, in []SupplyInput, checkAvailability bool) ([]domain.ScheduledSupply, error) {
	supplies := make([]domain.ScheduledSupply, 0, len(in))
	for _, su := range in {
		if su.Qty <= 0 {
			return nil, domain.Validationf("supply quantity must be positive")
		}
		sup, err := s.Supplies.Get(ctx, su.SupplyID)
		if err != nil {
			return nil, err
		}
		if checkAvailability && sup.Stock < su.Qty {
			return nil, &domain.InsufficientStockError{Kind: "supply", Name: sup.Name, Available: sup.Stock, Requested: su.Qty}
		}
		supplies = append(supplies, domain.ScheduledSupply{SupplyID: su.SupplyID, Qty: su.Qty})
	}
	return supplies, nil
}

func (s ScheduleService) checkMachines(ctx context.Context, machineIDs []int64) error {
	for _, id := range machineIDs {
		m, err := s.Machines.Get(ctx, id)
		if err != nil {
			return err
		}
		if m.Status != domain.MachineOperating {
			return domain.Validationf("machine %q is not operating and cannot be scheduled", m.Name)
		}
	}
	return nil
}

// stockNeeds aggregates the product and supply quantities an appointment
// consumes when done.
func stockNeeds(a domain.Appointment) (products, supplies map[int64]float64) {
	products = map[int64]float64{}
	supplies = map[int64]float64{}
	for _, it := range a.Items {
		if it.Item.Kind == domain.ItemProduct {
			products[it.Item.ID] += it.Qty
		}
	}
	for _, su := range a.Supplies {
		supplies[su.SupplyID] += su.Qty
	}
	return products, supplies
}

// checkStock verifies every product and supply the appointment consumes has
// sufficient stock. Nothing is mutated, so a failure leaves all quantities
// untouched.
func (s ScheduleService) checkStock(ctx context.Context, a domain.Appointment) error {
	products, supplies := stockNeeds(a)
	for id, qty := range products {
		p, err := s.Products.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.Stock < qty {
			return &domain.InsufficientStockError{Kind: "product", Name: p.Name, Available: p.Stock, Requested: qty}
		}
	}
	for id, qty := range supplies {
		sup, err := s.Supplies.Get(ctx, id)
		if err != nil {
			return err
		}
		if sup.Stock < qty {
			return &domain.InsufficientStockError{Kind: "supply", Name: sup.Name, Available: sup.Stock, Requested: qty}
		}
	}
	return nil
}

// applyStock adds sign*qty to every consumed product and supply; sign is -1
// for deduction and +1 for reversal.
func (s ScheduleService) applyStock(ctx context.Context, a domain.Appointment, sign float64) error {
	products, supplies := stockNeeds(a)
	for id, qty := range products {
		if err := s.Products.AdjustStock(ctx, id, sign*qty); err != nil {
			return err
		}
	}
	for id, qty := range supplies {
		if err := s.Supplies.AdjustStock(ctx, id, sign*qty); err != nil {
			return err
		}
	}
	return nil
}

// numberLines assigns sequential line IDs above last so clients can address
// individual entries on later edits.
func numberLines(items []domain.ScheduledItem, last int64) {
	for i := range items {
		last++
		items[i].ID = last
	}
}

func appointmentTotal(items []domain.ScheduledItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
