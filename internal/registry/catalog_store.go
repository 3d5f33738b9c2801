package registry

import (
	"context"
	"sort"
	"strings"
	"time"

	"salonops-backend/internal/domain"
)

type ServiceStore struct {
	reg *Registry
}

func (s ServiceStore) Create(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, existing := range s.reg.services {
		if strings.EqualFold(existing.Name, svc.Name) {
			return nil, domain.Conflictf("service with name %q already exists", svc.Name)
		}
	}
	now := time.Now()
	svc.ID = s.reg.allocID()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	s.reg.services[svc.ID] = svc
	return &svc, nil
}

func (s ServiceStore) Get(ctx context.Context, id int64) (*domain.Service, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	svc, ok := s.reg.services[id]
	if !ok {
		return nil, domain.NotFound("service", id)
	}
	return &svc, nil
}

func (s ServiceStore) GetByName(ctx context.Context, name string) (*domain.Service, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, svc := range s.reg.services {
		if strings.EqualFold(svc.Name, name) {
			return &svc, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "service", Name: name}
}

func (s ServiceStore) Update(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.services[svc.ID]
	if !ok {
		return nil, domain.NotFound("service", svc.ID)
	}
	for _, existing := range s.reg.services {
		if existing.ID != svc.ID && strings.EqualFold(existing.Name, svc.Name) {
			return nil, domain.Conflictf("service with name %q already exists", svc.Name)
		}
	}
	svc.CreatedAt = stored.CreatedAt
	svc.UpdatedAt = time.Now()
	s.reg.services[svc.ID] = svc
	return &svc, nil
}

func (s ServiceStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.services[id]; !ok {
		return domain.NotFound("service", id)
	}
	delete(s.reg.services, id)
	return nil
}

func (s ServiceStore) List(ctx context.Context) ([]domain.Service, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	out := make([]domain.Service, 0, len(s.reg.services))
	for _, svc := range s.reg.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type MachineStore struct {
	reg *Registry
}

func (s MachineStore) Create(ctx context.Context, m domain.Machine) (*domain.Machine, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, existing := range s.reg.machines {
		if strings.EqualFold(existing.Serial, m.Serial) {
			return nil, domain.Conflictf("machine with serial %q already exists", m.Serial)
		}
	}
	now := time.Now()
	m.ID = s.reg.allocID()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.reg.machines[m.ID] = m
	return &m, nil
}

func (s MachineStore) Get(ctx context.Context, id int64) (*domain.Machine, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	m, ok := s.reg.machines[id]
	if !ok {
		return nil, domain.NotFound("machine", id)
	}
	return &m, nil
}

func (s MachineStore) GetBySerial(ctx context.Context, serial string) (*domain.Machine, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, m := range s.reg.machines {
		if strings.EqualFold(m.Serial, serial) {
			return &m, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "machine", Name: serial}
}

func (s MachineStore) Update(ctx context.Context, m domain.Machine) (*domain.Machine, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.machines[m.ID]
	if !ok {
		return nil, domain.NotFound("machine", m.ID)
	}
	for _, existing := range s.reg.machines {
		if existing.ID != m.ID && strings.EqualFold(existing.Serial, m.Serial) {
			return nil, domain.Conflictf("machine with serial %q already exists", m.Serial)
		}
	}
	m.CreatedAt = stored.CreatedAt
	m.UpdatedAt = time.Now()
	s.reg.machines[m.ID] = m
	return &m, nil
}

func (s MachineStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.machines[id]; !ok {
		return domain.NotFound("machine", id)
	}
	delete(s.reg.machines, id)
	return nil
}

func (s MachineStore) List(ctx context.Context) ([]domain.Machine, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	out := make([]domain.Machine, 0, len(s.reg.machines))
	for _, m := range s.reg.machines {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
