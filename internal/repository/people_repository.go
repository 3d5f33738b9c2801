package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"salonops-backend/internal/db"
	"salonops-backend/internal/domain"
)

type EmployeeRepository struct {
	DB *db.Postgres
}

const employeeColumns = `id, name, birth_date, cpf, role, phone, email, address, social, pin_hash, created_at, updated_at`

func (r EmployeeRepository) Create(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO employees (name, birth_date, cpf, role, phone, email, address, social, pin_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now(), now())
		RETURNING `+employeeColumns,
		e.Name, e.BirthDate, e.CPF, e.Role, e.Phone, e.Email, e.Address, e.Social, e.PinHash)
	created, err := scanEmployee(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("employee CPF %s already registered", e.CPF)
		}
		return nil, err
	}
	return created, nil
}

func (r EmployeeRepository) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "employee", ID: id}
		}
		return nil, err
	}
	return e, nil
}

func (r EmployeeRepository) GetByCPF(ctx context.Context, cpf string) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE cpf=$1`, cpf)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "employee", Name: cpf}
		}
		return nil, err
	}
	return e, nil
}

func (r EmployeeRepository) Update(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE employees
		SET name=$1, birth_date=$2, cpf=$3, role=$4, phone=$5, email=$6, address=$7, social=$8, pin_hash=$9, updated_at=now()
		WHERE id=$10
		RETURNING `+employeeColumns,
		e.Name, e.BirthDate, e.CPF, e.Role, e.Phone, e.Email, e.Address, e.Social, e.PinHash, e.ID)
	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "employee", ID: e.ID}
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("employee CPF %s already registered", e.CPF)
		}
		return nil, err
	}
	return updated, nil
}

func (r EmployeeRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "employee", ID: id}
	}
	return nil
}

func (r EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.BirthDate, &e.CPF, &e.Role, &e.Phone, &e.Email, &e.Address, &e.Social, &e.PinHash, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

type ClientRepository struct {
	DB *db.Postgres
}

const clientColumns = `id, name, birth_date, cpf, phone, email, address, social, created_at, updated_at`

func (r ClientRepository) Create(ctx context.Context, c domain.Client) (*domain.Client, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO clients (name, birth_date, cpf, phone, email, address, social, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING `+clientColumns,
		c.Name, c.BirthDate, c.CPF, c.Phone, c.Email, c.Address, c.Social)
	created, err := scanClient(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("client CPF %s already registered", c.CPF)
		}
		return nil, err
	}
	return created, nil
}

func (r ClientRepository) Get(ctx context.Context, id int64) (*domain.Client, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "client", ID: id}
		}
		return nil, err
	}
	return c, nil
}

func (r ClientRepository) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE cpf=$1`, cpf)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "client", Name: cpf}
		}
		return nil, err
	}
	return c, nil
}

func (r ClientRepository) Update(ctx context.Context, c domain.Client) (*domain.Client, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE clients
		SET name=$1, birth_date=$2, cpf=$3, phone=$4, email=$5, address=$6, social=$7, updated_at=now()
		WHERE id=$8
		RETURNING `+clientColumns,
		c.Name, c.BirthDate, c.CPF, c.Phone, c.Email, c.Address, c.Social, c.ID)
	updated, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "client", ID: c.ID}
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("client CPF %s already registered", c.CPF)
		}
		return nil, err
	}
	return updated, nil
}

func (r ClientRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "client", ID: id}
	}
	return nil
}

func (r ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.Name, &c.BirthDate, &c.CPF, &c.Phone, &c.Email, &c.Address, &c.Social, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

type SupplierRepository struct {
	DB *db.Postgres
}

const supplierColumns = `id, name, cnpj, phone, email, address, social, created_at, updated_at`

func (r SupplierRepository) Create(ctx context.Context, s domain.Supplier) (*domain.Supplier, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, cnpj, phone, email, address, social, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		RETURNING `+supplierColumns,
		s.Name, s.CNPJ, s.Phone, s.Email, s.Address, s.Social)
	created, err := scanSupplier(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("supplier CNPJ %s already registered", s.CNPJ)
		}
		return nil, err
	}
	return created, nil
}

func (r SupplierRepository) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id=$1`, id)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "supplier", ID: id}
		}
		return nil, err
	}
	return s, nil
}

func (r SupplierRepository) GetByCNPJ(ctx context.Context, cnpj string) (*domain.Supplier, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE cnpj=$1`, cnpj)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "supplier", Name: cnpj}
		}
		return nil, err
	}
	return s, nil
}

func (r SupplierRepository) Update(ctx context.Context, s domain.Supplier) (*domain.Supplier, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE suppliers
		SET name=$1, cnpj=$2, phone=$3, email=$4, address=$5, social=$6, updated_at=now()
		WHERE id=$7
		RETURNING `+supplierColumns,
		s.Name, s.CNPJ, s.Phone, s.Email, s.Address, s.Social, s.ID)
	updated, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "supplier", ID: s.ID}
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("supplier CNPJ %s already registered", s.CNPJ)
		}
		return nil, err
	}
	return updated, nil
}

func (r SupplierRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "supplier", ID: id}
	}
	return nil
}

func (r SupplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.CNPJ, &s.Phone, &s.Email, &s.Address, &s.Social, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
