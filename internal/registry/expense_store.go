package registry

import (
	"context"
	"sort"
	"strings"
	"time"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

type ExpenseStore struct {
	reg *Registry
}

func (s ExpenseStore) Create(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	e.ID = s.reg.allocID()
	e.CreatedAt = time.Now()
	s.reg.expenses[e.ID] = e
	return &e, nil
}

func (s ExpenseStore) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	e, ok := s.reg.expenses[id]
	if !ok {
		return nil, domain.NotFound("expense", id)
	}
	return &e, nil
}

func (s ExpenseStore) Update(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.expenses[e.ID]
	if !ok {
		return nil, domain.NotFound("expense", e.ID)
	}
	e.CreatedAt = stored.CreatedAt
	s.reg.expenses[e.ID] = e
	return &e, nil
}

func (s ExpenseStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.expenses[id]; !ok {
		return domain.NotFound("expense", id)
	}
	delete(s.reg.expenses, id)
	return nil
}

func (s ExpenseStore) List(ctx context.Context, f ports.ExpenseFilter) ([]domain.Expense, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var out []domain.Expense
	for _, e := range s.reg.expenses {
		if e.Date.Before(f.From) || e.Date.After(f.To) {
			continue
		}
		if len(f.Kinds) > 0 && !kindIn(e.Kind, f.Kinds) {
			continue
		}
		if f.SupplierID != nil && (e.SupplierID == nil || *e.SupplierID != *f.SupplierID) {
			continue
		}
		if f.EmployeeID != nil && (e.EmployeeID == nil || *e.EmployeeID != *f.EmployeeID) {
			continue
		}
		if f.Item != nil && !purchaseItemMatches(e.Item, f.Item) {
			continue
		}
		if f.Comment != "" && !strings.Contains(strings.ToLower(e.Comment), strings.ToLower(f.Comment)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func kindIn(k domain.ExpenseKind, kinds []domain.ExpenseKind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func purchaseItemMatches(have, want *domain.PurchaseItemRef) bool {
	if have == nil {
		return false
	}
	if have.Kind != want.Kind {
		return false
	}
	if want.ID != nil {
		return have.ID != nil && *have.ID == *want.ID
	}
	return strings.EqualFold(have.Description, want.Description)
}
