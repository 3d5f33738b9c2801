package registry

import (
	"context"
	"sort"
	"time"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

type SaleStore struct {
	reg *Registry
}

func (s SaleStore) Create(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	now := time.Now()
	sale.ID = s.reg.allocID()
	sale.CreatedAt = now
	sale.UpdatedAt = now
	s.reg.sales[sale.ID] = sale
	return &sale, nil
}

func (s SaleStore) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	sale, ok := s.reg.sales[id]
	if !ok {
		return nil, domain.NotFound("sale", id)
	}
	return &sale, nil
}

func (s SaleStore) Update(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.sales[sale.ID]
	if !ok {
		return nil, domain.NotFound("sale", sale.ID)
	}
	sale.CreatedAt = stored.CreatedAt
	sale.UpdatedAt = time.Now()
	s.reg.sales[sale.ID] = sale
	return &sale, nil
}

func (s SaleStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.sales[id]; !ok {
		return domain.NotFound("sale", id)
	}
	delete(s.reg.sales, id)
	return nil
}

func (s SaleStore) List(ctx context.Context, f ports.SaleFilter) ([]domain.Sale, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var out []domain.Sale
	for _, sale := range s.reg.sales {
		if f.From != nil && sale.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && sale.Date.After(*f.To) {
			continue
		}
		if f.EmployeeID != nil && sale.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.ClientID != nil && sale.ClientID != *f.ClientID {
			continue
		}
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s SaleStore) ExistsForAppointment(ctx context.Context, appointmentID int64) (bool, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, sale := range s.reg.sales {
		if sale.AppointmentID != nil && *sale.AppointmentID == appointmentID {
			return true, nil
		}
	}
	return false, nil
}
