package registry

import (
	"context"
	"sort"
	"strings"
	"time"

	"salonops-backend/internal/domain"
)

type SupplyStore struct {
	reg *Registry
}

func (s SupplyStore) Create(ctx context.Context, sup domain.Supply) (*domain.Supply, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, existing := range s.reg.supplies {
		if strings.EqualFold(existing.Name, sup.Name) {
			return nil, domain.Conflictf("supply with name %q already exists", sup.Name)
		}
	}
	now := time.Now()
	sup.ID = s.reg.allocID()
	sup.CreatedAt = now
	sup.UpdatedAt = now
	s.reg.supplies[sup.ID] = sup
	out := cloneSupply(sup)
	return &out, nil
}

func (s SupplyStore) Get(ctx context.Context, id int64) (*domain.Supply, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	sup, ok := s.reg.supplies[id]
	if !ok {
		return nil, domain.NotFound("supply", id)
	}
	out := cloneSupply(sup)
	return &out, nil
}

func (s SupplyStore) GetByName(ctx context.Context, name string) (*domain.Supply, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, sup := range s.reg.supplies {
		if strings.EqualFold(sup.Name, name) {
			out := cloneSupply(sup)
			return &out, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "supply", Name: name}
}

func (s SupplyStore) Update(ctx context.Context, sup domain.Supply) (*domain.Supply, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.supplies[sup.ID]
	if !ok {
		return nil, domain.NotFound("supply", sup.ID)
	}
	for _, existing := range s.reg.supplies {
		if existing.ID != sup.ID && strings.EqualFold(existing.Name, sup.Name) {
			return nil, domain.Conflictf("supply with name %q already exists", sup.Name)
		}
	}
	sup.CreatedAt = stored.CreatedAt
	sup.UpdatedAt = time.Now()
	s.reg.supplies[sup.ID] = sup
	out := cloneSupply(sup)
	return &out, nil
}

func (s SupplyStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.supplies[id]; !ok {
		return domain.NotFound("supply", id)
	}
	delete(s.reg.supplies, id)
	return nil
}

func (s SupplyStore) List(ctx context.Context) ([]domain.Supply, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	out := make([]domain.Supply, 0, len(s.reg.supplies))
	for _, sup := range s.reg.supplies {
		out = append(out, cloneSupply(sup))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s SupplyStore) AdjustStock(ctx context.Context, id int64, delta float64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	sup, ok := s.reg.supplies[id]
	if !ok {
		return domain.NotFound("supply", id)
	}
	if sup.Stock+delta < 0 {
		return &domain.InsufficientStockError{Kind: "supply", Name: sup.Name, Available: sup.Stock, Requested: -delta}
	}
	sup.Stock += delta
	sup.UpdatedAt = time.Now()
	s.reg.supplies[id] = sup
	return nil
}

func (s SupplyStore) RecordPurchase(ctx context.Context, id int64, entry domain.CostEntry) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	sup, ok := s.reg.supplies[id]
	if !ok {
		return domain.NotFound("supply", id)
	}
	sup.Stock += entry.Quantity
	sup.UnitCost = entry.UnitPrice
	sup.CostHistory = append(append([]domain.CostEntry(nil), sup.CostHistory...), entry)
	sup.UpdatedAt = time.Now()
	s.reg.supplies[id] = sup
	return nil
}

func cloneSupply(s domain.Supply) domain.Supply {
	s.CostHistory = append([]domain.CostEntry(nil), s.CostHistory...)
	return s
}
