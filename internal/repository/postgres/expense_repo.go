package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL.
// Statements run on a context detached from request cancellation so that an
// aborted request does not interrupt a statement already sent to the server.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts a new active expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	ctx = context.WithoutCancel(ctx)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, owner_id, amount, category, note, occurred_at, created_at)
		VALUES ($1, $2, $3, $4::expense_category, $5, $6, $7)
		RETURNING `+expenseColumns,
		expense.ID,
		expense.OwnerID,
		expense.Amount,
		string(expense.Category),
		expense.Note,
		expense.OccurredAt,
		expense.CreatedAt,
	)
	created, err := scanExpense(row)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetActiveByID retrieves an expense by id, ignoring soft-deleted rows
func (r *ExpenseRepository) GetActiveByID(ctx context.Context, id string) (*domain.Expense, error) {
	ctx = context.WithoutCancel(ctx)

	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND deleted_at IS NULL`, id)
	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// Count counts the active expenses matching filters
func (r *ExpenseRepository) Count(ctx context.Context, filters *domain.ExpenseFilters) (int64, error) {
	ctx = context.WithoutCancel(ctx)

	sql, args := newExpenseQuery(filters).countSQL()
	var count int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// List returns one page of the active expenses matching filters
func (r *ExpenseRepository) List(ctx context.Context, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	ctx = context.WithoutCancel(ctx)

	sql, args := newExpenseQuery(filters).listSQL(filters)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0, filters.PageSize)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Update overwrites the mutable fields of an active expense
func (r *ExpenseRepository) Update(ctx context.Context, id string, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	ctx = context.WithoutCancel(ctx)

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET note = $2, category = $3::expense_category, amount = $4, occurred_at = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+expenseColumns,
		id,
		data.Note,
		string(data.Category),
		data.Amount,
		data.OccurredAt,
		data.UpdatedAt,
	)
	updated, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks an active expense as deleted
func (r *ExpenseRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*domain.Expense, error) {
	ctx = context.WithoutCancel(ctx)

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+expenseColumns,
		id, deletedAt,
	)
	deleted, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return deleted, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e        domain.Expense
		category string
	)
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Amount,
		&category,
		&e.Note,
		&e.OccurredAt,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = domain.ExpenseCategory(category)
	e.OccurredAt = e.OccurredAt.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}
