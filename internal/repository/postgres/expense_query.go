package postgres

import (
	"fmt"
	"strings"

	"github.com/tivecs/finance/finance-backend/internal/domain"
	"github.com/tivecs/finance/finance-backend/internal/util"
)

const expenseColumns = `id, owner_id, amount, category::text, note, occurred_at, created_at, updated_at, deleted_at`

var expenseSortColumns = map[domain.ExpenseSortField]string{
	domain.ExpenseSortByOccurredAt: "occurred_at",
	domain.ExpenseSortByAmount:     "amount",
}

// expenseQuery composes the list predicate. It always starts with the owner
// and not-deleted clauses; optional filters are appended with AND.
type expenseQuery struct {
	where []string
	args  []any
}

func newExpenseQuery(filters *domain.ExpenseFilters) *expenseQuery {
	q := &expenseQuery{}
	q.add("owner_id = $%d", filters.OwnerID)
	q.where = append(q.where, "deleted_at IS NULL")

	if filters.Category != nil {
		q.add("category = $%d::expense_category", string(*filters.Category))
	}
	if filters.MinAmount != nil {
		q.add("amount >= $%d", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		q.add("amount <= $%d", *filters.MaxAmount)
	}
	if filters.StartDate != nil {
		q.add("occurred_at >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		q.add("occurred_at <= $%d", *filters.EndDate)
	}
	return q
}

func (q *expenseQuery) add(clause string, arg any) {
	q.args = append(q.args, arg)
	q.where = append(q.where, fmt.Sprintf(clause, len(q.args)))
}

func (q *expenseQuery) whereClause() string {
	return strings.Join(q.where, " AND ")
}

func (q *expenseQuery) countSQL() (string, []any) {
	return "SELECT COUNT(*) FROM expenses WHERE " + q.whereClause(), q.args
}

func (q *expenseQuery) listSQL(filters *domain.ExpenseFilters) (string, []any) {
	column, ok := expenseSortColumns[filters.SortBy]
	if !ok {
		column = expenseSortColumns[domain.ExpenseSortByOccurredAt]
	}
	direction := "DESC"
	if filters.SortDir == domain.SortAsc {
		direction = "ASC"
	}

	args := append([]any{}, q.args...)
	args = append(args, filters.PageSize, util.Offset(filters.Page, filters.PageSize))

	sql := fmt.Sprintf(
		"SELECT %s FROM expenses WHERE %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		expenseColumns, q.whereClause(), column, direction, len(args)-1, len(args),
	)
	return sql, args
}
