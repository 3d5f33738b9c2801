package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"salonops-backend/internal/db"
	"salonops-backend/internal/domain"
	"salonops-backend/internal/ports"
)

type AppointmentRepository struct {
	DB *db.Postgres
}

const appointmentColumns = `id, start_at, end_at, status, employee_id, client_id, items, machine_ids, supplies, total, comment, created_at, updated_at`

func (r AppointmentRepository) Create(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	items, machines, supplies, err := marshalAppointmentLines(a)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO appointments (start_at, end_at, status, employee_id, client_id, items, machine_ids, supplies, total, comment, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, now(), now())
		RETURNING `+appointmentColumns,
		a.Start, a.End, a.Status, a.EmployeeID, a.ClientID, items, machines, supplies, a.Total, a.Comment)
	return scanAppointment(row)
}

func (r AppointmentRepository) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id=$1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "appointment", ID: id}
		}
		return nil, err
	}
	return a, nil
}

func (r AppointmentRepository) Update(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	items, machines, supplies, err := marshalAppointmentLines(a)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE appointments
		SET start_at=$1, end_at=$2, status=$3, employee_id=$4, client_id=$5,
			items=$6, machine_ids=$7, supplies=$8, total=$9, comment=$10, updated_at=now()
		WHERE id=$11
		RETURNING `+appointmentColumns,
		a.Start, a.End, a.Status, a.EmployeeID, a.ClientID, items, machines, supplies, a.Total, a.Comment, a.ID)
	updated, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "appointment", ID: a.ID}
		}
		return nil, err
	}
	return updated, nil
}

func (r AppointmentRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "appointment", ID: id}
	}
	return nil
}

func (r AppointmentRepository) List(ctx context.Context, f ports.AppointmentFilter) ([]domain.Appointment, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("start_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("start_at <= $%d", *f.To)
	}
	if f.EmployeeID != nil {
		add("employee_id = $%d", *f.EmployeeID)
	}
	if f.ClientID != nil {
		add("client_id = $%d", *f.ClientID)
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY start_at DESC`

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r AppointmentRepository) Overlapping(ctx context.Context, start, end time.Time, excludeID int64) ([]domain.Appointment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE start_at < $1 AND end_at > $2 AND id <> $3
	`, end, start, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func marshalAppointmentLines(a domain.Appointment) (items, machines, supplies []byte, err error) {
	if items, err = json.Marshal(a.Items); err != nil {
		return nil, nil, nil, err
	}
	if a.MachineIDs == nil {
		a.MachineIDs = []int64{}
	}
	if machines, err = json.Marshal(a.MachineIDs); err != nil {
		return nil, nil, nil, err
	}
	if supplies, err = json.Marshal(a.Supplies); err != nil {
		return nil, nil, nil, err
	}
	return items, machines, supplies, nil
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	var items, machines, supplies []byte
	if err := row.Scan(&a.ID, &a.Start, &a.End, &a.Status, &a.EmployeeID, &a.ClientID,
		&items, &machines, &supplies, &a.Total, &a.Comment, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &a.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(machines, &a.MachineIDs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(supplies, &a.Supplies); err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
