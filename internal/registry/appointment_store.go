package registry

import (
	"context"
	"sort"
	"time"

	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

type AppointmentStore struct {
	reg *Registry
}

func (s AppointmentStore) Create(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	now := time.Now()
	a.ID = s.reg.allocID()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.reg.appointments[a.ID] = a
	return &a, nil
}

func (s AppointmentStore) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	a, ok := s.reg.appointments[id]
	if !ok {
		return nil, domain.NotFound("appointment", id)
	}
	return &a, nil
}

func (s AppointmentStore) Update(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.appointments[a.ID]
	if !ok {
		return nil, domain.NotFound("appointment", a.ID)
	}
	a.CreatedAt = stored.CreatedAt
	a.UpdatedAt = time.Now()
	s.reg.appointments[a.ID] = a
	return &a, nil
}

func (s AppointmentStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.appointments[id]; !ok {
		return domain.NotFound("appointment", id)
	}
	delete(s.reg.appointments, id)
	return nil
}

func (s AppointmentStore) List(ctx context.Context, f ports.AppointmentFilter) ([]domain.Appointment, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var out []domain.Appointment
	for _, a := range s.reg.appointments {
		if f.From != nil && a.Start.Before(*f.From) {
			continue
		}
		if f.To != nil && a.Start.After(*f.To) {
			continue
		}
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.ClientID != nil && a.ClientID != *f.ClientID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out, nil
}

func (s AppointmentStore) Overlapping(ctx context.Context, start, end time.Time, excludeID int64) ([]domain.Appointment, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	var out []domain.Appointment
	for _, a := range s.reg.appointments {
		if a.ID == excludeID {
			continue
		}
		if a.Overlaps(start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}
