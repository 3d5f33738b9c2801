package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"salonops-backend/internal/db"
	"salonops-backend/internal/domain"
)

type ServiceRepository struct {
	DB *db.Postgres
}

const serviceColumns = `id, name, sale_price, cost, created_at, updated_at`

func (r ServiceRepository) Create(ctx context.Context, s domain.Service) (*domain.Service, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO services (name, sale_price, cost, created_at, updated_at)
		VALUES ($1,$2,$3, now(), now())
		RETURNING `+serviceColumns,
		s.Name, s.SalePrice, s.Cost)
	created, err := scanService(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("service name %q already exists", s.Name)
		}
		return nil, err
	}
	return created, nil
}

func (r ServiceRepository) Get(ctx context.Context, id int64) (*domain.Service, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id=$1`, id)
	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "service", ID: id}
		}
		return nil, err
	}
	return s, nil
}

func (r ServiceRepository) GetByName(ctx context.Context, name string) (*domain.Service, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE lower(name)=lower($1)`, name)
	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "service", Name: name}
		}
		return nil, err
	}
	return s, nil
}

func (r ServiceRepository) Update(ctx context.Context, s domain.Service) (*domain.Service, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE services SET name=$1, sale_price=$2, cost=$3, updated_at=now()
		WHERE id=$4
		RETURNING `+serviceColumns,
		s.Name, s.SalePrice, s.Cost, s.ID)
	updated, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "service", ID: s.ID}
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("service name %q already exists", s.Name)
		}
		return nil, err
	}
	return updated, nil
}

func (r ServiceRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "service", ID: id}
	}
	return nil
}

func (r ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var s domain.Service
	if err := row.Scan(&s.ID, &s.Name, &s.SalePrice, &s.Cost, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

type MachineRepository struct {
	DB *db.Postgres
}

const machineColumns = `id, name, serial, acquisition_cost, status, created_at, updated_at`

func (r MachineRepository) Create(ctx context.Context, m domain.Machine) (*domain.Machine, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO machines (name, serial, acquisition_cost, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4, now(), now())
		RETURNING `+machineColumns,
		m.Name, m.Serial, m.AcquisitionCost, m.Status)
	created, err := scanMachine(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("machine serial %q already exists", m.Serial)
		}
		return nil, err
	}
	return created, nil
}

func (r MachineRepository) Get(ctx context.Context, id int64) (*domain.Machine, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+machineColumns+` FROM machines WHERE id=$1`, id)
	m, err := scanMachine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "machine", ID: id}
		}
		return nil, err
	}
	return m, nil
}

func (r MachineRepository) GetBySerial(ctx context.Context, serial string) (*domain.Machine, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+machineColumns+` FROM machines WHERE serial=$1`, serial)
	m, err := scanMachine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "machine", Name: serial}
		}
		return nil, err
	}
	return m, nil
}

func (r MachineRepository) Update(ctx context.Context, m domain.Machine) (*domain.Machine, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE machines SET name=$1, serial=$2, acquisition_cost=$3, status=$4, updated_at=now()
		WHERE id=$5
		RETURNING `+machineColumns,
		m.Name, m.Serial, m.AcquisitionCost, m.Status, m.ID)
	updated, err := scanMachine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "machine", ID: m.ID}
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("machine serial %q already exists", m.Serial)
		}
		return nil, err
	}
	return updated, nil
}

func (r MachineRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM machines WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "machine", ID: id}
	}
	return nil
}

func (r MachineRepository) List(ctx context.Context) ([]domain.Machine, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+machineColumns+` FROM machines ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Machine
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanMachine(row pgx.Row) (*domain.Machine, error) {
	var m domain.Machine
	if err := row.Scan(&m.ID, &m.Name, &m.Serial, &m.AcquisitionCost, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
