package postgres

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

func TestExpenseQuery_MandatoryClausesOnly(t *testing.T) {
	ownerID := uuid.New()
	filters := &domain.ExpenseFilters{
		OwnerID:  ownerID,
		SortBy:   domain.ExpenseSortByOccurredAt,
		SortDir:  domain.SortDesc,
		Page:     1,
		PageSize: 10,
	}

	sql, args := newExpenseQuery(filters).countSQL()

	assert.Equal(t, "SELECT COUNT(*) FROM expenses WHERE owner_id = $1 AND deleted_at IS NULL", sql)
	assert.Equal(t, []any{ownerID}, args)
}

func TestExpenseQuery_OptionalClausesAppendedWithAnd(t *testing.T) {
	ownerID := uuid.New()
	category := domain.ExpenseCategoryFood
	minAmount, maxAmount := int64(5000), int64(10000)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	filters := &domain.ExpenseFilters{
		OwnerID:   ownerID,
		Category:  &category,
		MinAmount: &minAmount,
		MaxAmount: &maxAmount,
		StartDate: &start,
		EndDate:   &end,
		SortBy:    domain.ExpenseSortByAmount,
		SortDir:   domain.SortAsc,
		Page:      3,
		PageSize:  20,
	}

	q := newExpenseQuery(filters)
	countSQL, countArgs := q.countSQL()
	listSQL, listArgs := q.listSQL(filters)

	wantWhere := "owner_id = $1 AND deleted_at IS NULL AND category = $2::expense_category" +
		" AND amount >= $3 AND amount <= $4 AND occurred_at >= $5 AND occurred_at <= $6"

	assert.Equal(t, "SELECT COUNT(*) FROM expenses WHERE "+wantWhere, countSQL)
	assert.Equal(t, []any{ownerID, "food", minAmount, maxAmount, start, end}, countArgs)

	assert.Equal(t,
		"SELECT "+expenseColumns+" FROM expenses WHERE "+wantWhere+
			" ORDER BY amount ASC, id ASC LIMIT $7 OFFSET $8",
		listSQL)
	assert.Equal(t, []any{ownerID, "food", minAmount, maxAmount, start, end, int32(20), int64(40)}, listArgs)
}

func TestExpenseQuery_LargePageOffsetStaysPositive(t *testing.T) {
	filters := &domain.ExpenseFilters{OwnerID: uuid.New(), Page: math.MaxInt32, PageSize: 100}

	_, args := newExpenseQuery(filters).listSQL(filters)

	assert.Equal(t, int64(math.MaxInt32-1)*100, args[len(args)-1])
}

func TestExpenseQuery_ListDoesNotMutateCountArgs(t *testing.T) {
	filters := &domain.ExpenseFilters{OwnerID: uuid.New(), Page: 2, PageSize: 5}

	q := newExpenseQuery(filters)
	_, _ = q.listSQL(filters)
	_, countArgs := q.countSQL()

	assert.Len(t, countArgs, 1)
}

func TestExpenseQuery_SortWhitelist(t *testing.T) {
	tests := []struct {
		name    string
		sortBy  domain.ExpenseSortField
		sortDir domain.SortDirection
		want    string
	}{
		{"occurredAt desc", domain.ExpenseSortByOccurredAt, domain.SortDesc, "ORDER BY occurred_at DESC, id ASC"},
		{"occurredAt asc", domain.ExpenseSortByOccurredAt, domain.SortAsc, "ORDER BY occurred_at ASC, id ASC"},
		{"amount desc", domain.ExpenseSortByAmount, domain.SortDesc, "ORDER BY amount DESC, id ASC"},
		{"unknown column falls back", "name; DROP TABLE expenses", "sideways", "ORDER BY occurred_at DESC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := &domain.ExpenseFilters{
				OwnerID:  uuid.New(),
				SortBy:   tt.sortBy,
				SortDir:  tt.sortDir,
				Page:     1,
				PageSize: 10,
			}
			sql, _ := newExpenseQuery(filters).listSQL(filters)
			assert.Contains(t, sql, tt.want)
			assert.NotContains(t, sql, "DROP")
		})
	}
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/finance?sslmode=disable",
		migrateURL("postgres://u:p@localhost:5432/finance?sslmode=disable"))
	assert.Equal(t, "pgx5://localhost/finance", migrateURL("postgresql://localhost/finance"))
	assert.Equal(t, "pgx5://localhost/finance", migrateURL("pgx5://localhost/finance"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
