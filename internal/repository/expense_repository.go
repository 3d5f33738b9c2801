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

type ExpenseRepository struct {
	DB *db.Postgres
}

const expenseColumns = `id, kind, expense_date, total, comment, supplier_id, item, quantity, unit_price,
	label, employee_id, gross_salary, deductions, service_revenue, product_revenue, service_rate, product_rate, created_at`

func (r ExpenseRepository) Create(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	item, err := marshalPurchaseItem(e.Item)
	if err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO expenses (kind, expense_date, total, comment, supplier_id, item, quantity, unit_price,
			label, employee_id, gross_salary, deductions, service_revenue, product_revenue, service_rate, product_rate, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16, now())
		RETURNING `+expenseColumns,
		e.Kind, e.Date, e.Total, e.Comment, e.SupplierID, item, e.Quantity, e.UnitPrice,
		e.Label, e.EmployeeID, e.GrossSalary, e.Deductions, e.ServiceRevenue, e.ProductRevenue, e.ServiceRate, e.ProductRate)
	return scanExpense(row)
}

func (r ExpenseRepository) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id=$1`, id)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "expense", ID: id}
		}
		return nil, err
	}
	return e, nil
}

func (r ExpenseRepository) Update(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE expenses SET expense_date=$1, label=$2, comment=$3 WHERE id=$4
		RETURNING `+expenseColumns,
		e.Date, e.Label, e.Comment, e.ID)
	updated, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "expense", ID: e.ID}
		}
		return nil, err
	}
	return updated, nil
}

func (r ExpenseRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "expense", ID: id}
	}
	return nil
}

func (r ExpenseRepository) List(ctx context.Context, f ports.ExpenseFilter) ([]domain.Expense, error) {
	args := []any{f.From, f.To}
	conds := []string{"expense_date >= $1", "expense_date <= $2"}
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, 0, len(f.Kinds))
		for _, k := range f.Kinds {
			kinds = append(kinds, string(k))
		}
		add("kind = ANY($%d)", kinds)
	}
	if f.SupplierID != nil {
		add("supplier_id = $%d", *f.SupplierID)
	}
	if f.EmployeeID != nil {
		add("employee_id = $%d", *f.EmployeeID)
	}
	if f.Item != nil {
		add("item->>'Kind' = $%d", string(f.Item.Kind))
		if f.Item.ID != nil {
			add("(item->>'ID')::bigint = $%d", *f.Item.ID)
		}
	}
	if f.Comment != "" {
		add("comment ILIKE $%d", "%"+f.Comment+"%")
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY expense_date ASC, id ASC`
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func marshalPurchaseItem(item *domain.PurchaseItemRef) ([]byte, error) {
	if item == nil {
		return nil, nil
	}
	return json.Marshal(item)
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var item []byte
	if err := row.Scan(&e.ID, &e.Kind, &e.Date, &e.Total, &e.Comment, &e.SupplierID, &item, &e.Quantity, &e.UnitPrice,
		&e.Label, &e.EmployeeID, &e.GrossSalary, &e.Deductions, &e.ServiceRevenue, &e.ProductRevenue, &e.ServiceRate, &e.ProductRate, &e.CreatedAt); err != nil {
		return nil, err
	}
	if item != nil {
		e.Item = &domain.PurchaseItemRef{}
		if err := json.Unmarshal(item, e.Item); err != nil {
			return nil, err
		}
	}
	return &e, nil
}
