package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"salonops-backend/internal/db"
	"salonops-backend/internal/domain"
)

type SupplyRepository struct {
	DB *db.Postgres
}

const supplyColumns = `id, name, unit, unit_cost, stock, cost_history, created_at, updated_at`

func (r SupplyRepository) Create(ctx context.Context, s domain.Supply) (*domain.Supply, error) {
	history, err := marshalCostHistory(s.CostHistory)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO supplies (name, unit, unit_cost, stock, cost_history, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5, now(), now())
		RETURNING `+supplyColumns,
		s.Name, s.Unit, s.UnitCost, s.Stock, history)
	created, err := scanSupply(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("supply name %q already exists", s.Name)
		}
		return nil, err
	}
	return created, nil
}

func (r SupplyRepository) Get(ctx context.Context, id int64) (*domain.Supply, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id=$1`, id)
	s, err := scanSupply(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "supply", ID: id}
		}
		return nil, err
	}
	return s, nil
}

func (r SupplyRepository) GetByName(ctx context.Context, name string) (*domain.Supply, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE lower(name)=lower($1)`, name)
	s, err := scanSupply(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "supply", Name: name}
		}
		return nil, err
	}
	return s, nil
}

func (r SupplyRepository) Update(ctx context.Context, s domain.Supply) (*domain.Supply, error) {
	history, err := marshalCostHistory(s.CostHistory)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE supplies
		SET name=$1, unit=$2, unit_cost=$3, stock=$4, cost_history=$5, updated_at=now()
		WHERE id=$6
		RETURNING `+supplyColumns,
		s.Name, s.Unit, s.UnitCost, s.Stock, history, s.ID)
	updated, err := scanSupply(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "supply", ID: s.ID}
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("supply name %q already exists", s.Name)
		}
		return nil, err
	}
	return updated, nil
}

func (r SupplyRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM supplies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "supply", ID: id}
	}
	return nil
}

func (r SupplyRepository) List(ctx context.Context) ([]domain.Supply, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+supplyColumns+` FROM supplies ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Supply
	for rows.Next() {
		s, err := scanSupply(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r SupplyRepository) AdjustStock(ctx context.Context, id int64, delta float64) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE supplies SET stock = stock + $1, updated_at=now()
		WHERE id=$2 AND stock + $1 >= 0
	`, delta, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		s, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		return &domain.InsufficientStockError{Kind: "supply", Name: s.Name, Available: s.Stock, Requested: -delta}
	}
	return nil
}

func (r SupplyRepository) RecordPurchase(ctx context.Context, id int64, entry domain.CostEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE supplies
		SET stock = stock + $1,
			unit_cost = $2,
			cost_history = cost_history || $3::jsonb,
			updated_at = now()
		WHERE id=$4
	`, entry.Quantity, entry.UnitPrice, payload, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "supply", ID: id}
	}
	return nil
}

func scanSupply(row pgx.Row) (*domain.Supply, error) {
	var s domain.Supply
	var history []byte
	if err := row.Scan(&s.ID, &s.Name, &s.Unit, &s.UnitCost, &s.Stock, &history, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &s.CostHistory); err != nil {
		return nil, err
	}
	return &s, nil
}
