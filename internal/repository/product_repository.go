package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"salonops-backend/internal/db"
	"salonops-backend/internal/domain"
)

type ProductRepository struct {
	DB *db.Postgres
}

const productColumns = `id, name, price, stock, last_cost, cost_history, created_at, updated_at`

func (r ProductRepository) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	history, err := marshalCostHistory(p.CostHistory)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO products (name, price, stock, last_cost, cost_history, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5, now(), now())
		RETURNING `+productColumns,
		p.Name, p.Price, p.Stock, p.LastCost, history)
	created, err := scanProduct(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("product name %q already exists", p.Name)
		}
		return nil, err
	}
	return created, nil
}

func (r ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func (r ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE lower(name)=lower($1)`, name)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "product", Name: name}
		}
		return nil, err
	}
	return p, nil
}

func (r ProductRepository) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	history, err := marshalCostHistory(p.CostHistory)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET name=$1, price=$2, stock=$3, last_cost=$4, cost_history=$5, updated_at=now()
		WHERE id=$6
		RETURNING `+productColumns,
		p.Name, p.Price, p.Stock, p.LastCost, history, p.ID)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "product", ID: p.ID}
		}
		if db.IsUniqueViolation(err) {
			return nil, domain.Conflictf("product name %q already exists", p.Name)
		}
		return nil, err
	}
	return updated, nil
}

func (r ProductRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

func (r ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r ProductRepository) AdjustStock(ctx context.Context, id int64, delta float64) error {
	// The WHERE guard makes the check-and-adjust atomic across requests.
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE products SET stock = stock + $1, updated_at=now()
		WHERE id=$2 AND stock + $1 >= 0
	`, delta, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		p, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		return &domain.InsufficientStockError{Kind: "product", Name: p.Name, Available: p.Stock, Requested: -delta}
	}
	return nil
}

func (r ProductRepository) RecordPurchase(ctx context.Context, id int64, entry domain.CostEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE products
		SET stock = stock + $1,
			last_cost = $2,
			cost_history = cost_history || $3::jsonb,
			updated_at = now()
		WHERE id=$4
	`, entry.Quantity, entry.UnitPrice, payload, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

func marshalCostHistory(history []domain.CostEntry) ([]byte, error) {
	if history == nil {
		history = []domain.CostEntry{}
	}
	return json.Marshal(history)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var history []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.LastCost, &history, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &p.CostHistory); err != nil {
		return nil, err
	}
	return &p, nil
}
