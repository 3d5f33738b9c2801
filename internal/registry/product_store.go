package registry

import (
	"context"
	"sort"
	"strings"
	"time"

	"salonops-backend/internal/domain"
)

type ProductStore struct {
	reg *Registry
}

func (s ProductStore) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, existing := range s.reg.products {
		if strings.EqualFold(existing.Name, p.Name) {
			return nil, domain.Conflictf("product with name %q already exists", p.Name)
		}
	}
	now := time.Now()
	p.ID = s.reg.allocID()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.reg.products[p.ID] = p
	out := cloneProduct(p)
	return &out, nil
}

func (s ProductStore) Get(ctx context.Context, id int64) (*domain.Product, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	p, ok := s.reg.products[id]
	if !ok {
		return nil, domain.NotFound("product", id)
	}
	out := cloneProduct(p)
	return &out, nil
}

func (s ProductStore) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, p := range s.reg.products {
		if strings.EqualFold(p.Name, name) {
			out := cloneProduct(p)
			return &out, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "product", Name: name}
}

func (s ProductStore) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.products[p.ID]
	if !ok {
		return nil, domain.NotFound("product", p.ID)
	}
	for _, existing := range s.reg.products {
		if existing.ID != p.ID && strings.EqualFold(existing.Name, p.Name) {
			return nil, domain.Conflictf("product with name %q already exists", p.Name)
		}
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now()
	s.reg.products[p.ID] = p
	out := cloneProduct(p)
	return &out, nil
}

func (s ProductStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.products[id]; !ok {
		return domain.NotFound("product", id)
	}
	delete(s.reg.products, id)
	return nil
}

func (s ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	out := make([]domain.Product, 0, len(s.reg.products))
	for _, p := range s.reg.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s ProductStore) AdjustStock(ctx context.Context, id int64, delta float64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	p, ok := s.reg.products[id]
	if !ok {
		return domain.NotFound("product", id)
	}
	if p.Stock+delta < 0 {
		return &domain.InsufficientStockError{Kind: "product", Name: p.Name, Available: p.Stock, Requested: -delta}
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	s.reg.products[id] = p
	return nil
}

func (s ProductStore) RecordPurchase(ctx context.Context, id int64, entry domain.CostEntry) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	p, ok := s.reg.products[id]
	if !ok {
		return domain.NotFound("product", id)
	}
	p.Stock += entry.Quantity
	p.LastCost = entry.UnitPrice
	p.CostHistory = append(append([]domain.CostEntry(nil), p.CostHistory...), entry)
	p.UpdatedAt = time.Now()
	s.reg.products[id] = p
	return nil
}

func cloneProduct(p domain.Product) domain.Product {
	p.CostHistory = append([]domain.CostEntry(nil), p.CostHistory...)
	return p
}
