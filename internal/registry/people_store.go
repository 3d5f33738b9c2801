package registry

import (
	"context"
	"sort"
	"time"

	"salonops-backend/internal/domain"
)

type EmployeeStore struct {
	reg *Registry
}

func (s EmployeeStore) Create(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, existing := range s.reg.employees {
		if existing.CPF == e.CPF {
			return nil, domain.Conflictf("employee with CPF %s already exists", e.CPF)
		}
	}
	now := time.Now()
	e.ID = s.reg.allocID()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.reg.employees[e.ID] = e
	return &e, nil
}

func (s EmployeeStore) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	e, ok := s.reg.employees[id]
	if !ok {
		return nil, domain.NotFound("employee", id)
	}
	return &e, nil
}

func (s EmployeeStore) GetByCPF(ctx context.Context, cpf string) (*domain.Employee, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, e := range s.reg.employees {
		if e.CPF == cpf {
			return &e, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "employee", Name: cpf}
}

func (s EmployeeStore) Update(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.employees[e.ID]
	if !ok {
		return nil, domain.NotFound("employee", e.ID)
	}
	for _, existing := range s.reg.employees {
		if existing.ID != e.ID && existing.CPF == e.CPF {
			return nil, domain.Conflictf("employee with CPF %s already exists", e.CPF)
		}
	}
	e.CreatedAt = stored.CreatedAt
	e.UpdatedAt = time.Now()
	s.reg.employees[e.ID] = e
	return &e, nil
}

func (s EmployeeStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.employees[id]; !ok {
		return domain.NotFound("employee", id)
	}
	delete(s.reg.employees, id)
	return nil
}

func (s EmployeeStore) List(ctx context.Context) ([]domain.Employee, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	out := make([]domain.Employee, 0, len(s.reg.employees))
	for _, e := range s.reg.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type ClientStore struct {
	reg *Registry
}

func (s ClientStore) Create(ctx context.Context, c domain.Client) (*domain.Client, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, existing := range s.reg.clients {
		if existing.CPF == c.CPF {
			return nil, domain.Conflictf("client with CPF %s already exists", c.CPF)
		}
	}
	now := time.Now()
	c.ID = s.reg.allocID()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.reg.clients[c.ID] = c
	return &c, nil
}

func (s ClientStore) Get(ctx context.Context, id int64) (*domain.Client, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	c, ok := s.reg.clients[id]
	if !ok {
		return nil, domain.NotFound("client", id)
	}
	return &c, nil
}

func (s ClientStore) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, c := range s.reg.clients {
		if c.CPF == cpf {
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "client", Name: cpf}
}

func (s ClientStore) Update(ctx context.Context, c domain.Client) (*domain.Client, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.clients[c.ID]
	if !ok {
		return nil, domain.NotFound("client", c.ID)
	}
	for _, existing := range s.reg.clients {
		if existing.ID != c.ID && existing.CPF == c.CPF {
			return nil, domain.Conflictf("client with CPF %s already exists", c.CPF)
		}
	}
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = time.Now()
	s.reg.clients[c.ID] = c
	return &c, nil
}

func (s ClientStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.clients[id]; !ok {
		return domain.NotFound("client", id)
	}
	delete(s.reg.clients, id)
	return nil
}

func (s ClientStore) List(ctx context.Context) ([]domain.Client, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	out := make([]domain.Client, 0, len(s.reg.clients))
	for _, c := range s.reg.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type SupplierStore struct {
	reg *Registry
}

func (s SupplierStore) Create(ctx context.Context, sup domain.Supplier) (*domain.Supplier, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, existing := range s.reg.suppliers {
		if existing.CNPJ == sup.CNPJ {
			return nil, domain.Conflictf("supplier with CNPJ %s already exists", sup.CNPJ)
		}
	}
	now := time.Now()
	sup.ID = s.reg.allocID()
	sup.CreatedAt = now
	sup.UpdatedAt = now
	s.reg.suppliers[sup.ID] = sup
	return &sup, nil
}

func (s SupplierStore) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	sup, ok := s.reg.suppliers[id]
	if !ok {
		return nil, domain.NotFound("supplier", id)
	}
	return &sup, nil
}

func (s SupplierStore) GetByCNPJ(ctx context.Context, cnpj string) (*domain.Supplier, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	for _, sup := range s.reg.suppliers {
		if sup.CNPJ == cnpj {
			return &sup, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "supplier", Name: cnpj}
}

func (s SupplierStore) Update(ctx context.Context, sup domain.Supplier) (*domain.Supplier, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	stored, ok := s.reg.suppliers[sup.ID]
	if !ok {
		return nil, domain.NotFound("supplier", sup.ID)
	}
	for _, existing := range s.reg.suppliers {
		if existing.ID != sup.ID && existing.CNPJ == sup.CNPJ {
			return nil, domain.Conflictf("supplier with CNPJ %s already exists", sup.CNPJ)
		}
	}
	sup.CreatedAt = stored.CreatedAt
	sup.UpdatedAt = time.Now()
	s.reg.suppliers[sup.ID] = sup
	return &sup, nil
}

func (s SupplierStore) Delete(ctx context.Context, id int64) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.suppliers[id]; !ok {
		return domain.NotFound("supplier", id)
	}
	delete(s.reg.suppliers, id)
	return nil
}

func (s SupplierStore) List(ctx context.Context) ([]domain.Supplier, error) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	out := make([]domain.Supplier, 0, len(s.reg.suppliers))
	for _, sup := range s.reg.suppliers {
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
