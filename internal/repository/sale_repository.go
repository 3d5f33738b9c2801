package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"salonops-backend/internal/db"
	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

type SaleRepository struct {
	DB *db.Postgres
}

const saleColumns = `id, code, sale_date, employee_id, client_id, appointment_id, items, total, comment, created_at, updated_at`

func (r SaleRepository) Create(ctx context.Context, s domain.Sale) (*domain.Sale, error) {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO sales (code, sale_date, employee_id, client_id, appointment_id, items, total, comment, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now(), now())
		RETURNING `+saleColumns,
		s.Code, s.Date, s.EmployeeID, s.ClientID, s.AppointmentID, items, s.Total, s.Comment)
	sale, err := scanSale(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("sale code %q already exists", s.Code)
		}
		return nil, err
	}
	return sale, nil
}

func (r SaleRepository) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id=$1`, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "sale", ID: id}
		}
		return nil, err
	}
	return s, nil
}

func (r SaleRepository) Update(ctx context.Context, s domain.Sale) (*domain.Sale, error) {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE sales
		SET sale_date=$1, employee_id=$2, client_id=$3, appointment_id=$4, items=$5, total=$6, comment=$7, updated_at=now()
		WHERE id=$8
		RETURNING `+saleColumns,
		s.Date, s.EmployeeID, s.ClientID, s.AppointmentID, items, s.Total, s.Comment, s.ID)
	updated, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "sale", ID: s.ID}
		}
		return nil, err
	}
	return updated, nil
}

func (r SaleRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM sales WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "sale", ID: id}
	}
	return nil
}

func (r SaleRepository) List(ctx context.Context, f ports.SaleFilter) ([]domain.Sale, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("sale_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("sale_date <= $%d", *f.To)
	}
	if f.EmployeeID != nil {
		add("employee_id = $%d", *f.EmployeeID)
	}
	if f.ClientID != nil {
		add("client_id = $%d", *f.ClientID)
	}
	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY sale_date ASC`

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r SaleRepository) ExistsForAppointment(ctx context.Context, appointmentID int64) (bool, error) {
	var exists bool
	err := r.DB.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales WHERE appointment_id=$1)`, appointmentID).Scan(&exists)
	return exists, err
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var s domain.Sale
	var items []byte
	if err := row.Scan(&s.ID, &s.Code, &s.Date, &s.EmployeeID, &s.ClientID, &s.AppointmentID,
		&items, &s.Total, &s.Comment, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return nil, err
	}
	return &s, nil
}
