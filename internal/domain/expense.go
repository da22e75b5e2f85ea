package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExpenseCategory is one of the closed set of spending categories
type ExpenseCategory string

const (
	ExpenseCategoryFood           ExpenseCategory = "food"
	ExpenseCategoryTransportation ExpenseCategory = "transportation"
	ExpenseCategoryEducation      ExpenseCategory = "education"
	ExpenseCategoryEntertainment  ExpenseCategory = "entertainment"
	ExpenseCategoryHealth         ExpenseCategory = "health"
	ExpenseCategoryShopping       ExpenseCategory = "shopping"
	ExpenseCategoryTravel         ExpenseCategory = "travel"
	ExpenseCategoryInvestment     ExpenseCategory = "investment"
	ExpenseCategoryHousehold      ExpenseCategory = "household"
	ExpenseCategoryUtilities      ExpenseCategory = "utilities"
	ExpenseCategoryOthers         ExpenseCategory = "others"
)

// ExpenseCategories lists every category in display order
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryFood,
	ExpenseCategoryTransportation,
	ExpenseCategoryEducation,
	ExpenseCategoryEntertainment,
	ExpenseCategoryHealth,
	ExpenseCategoryShopping,
	ExpenseCategoryTravel,
	ExpenseCategoryInvestment,
	ExpenseCategoryHousehold,
	ExpenseCategoryUtilities,
	ExpenseCategoryOthers,
}

// IsValid reports whether c is a member of the closed category set
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ExpenseSortField names a column expense lists can be ordered by
type ExpenseSortField string

const (
	ExpenseSortByOccurredAt ExpenseSortField = "occurredAt"
	ExpenseSortByAmount     ExpenseSortField = "amount"
)

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	DefaultPageSize      = 10
	MaxPageSize          = 100
	MaxExpenseNoteLength = 50
)

// Expense is a single spending record. Amount is in the smallest currency unit.
type Expense struct {
	ID         string          `json:"id"`
	OwnerID    uuid.UUID       `json:"ownerId"`
	Amount     int64           `json:"amount"`
	Category   ExpenseCategory `json:"category"`
	Note       *string         `json:"note"`
	OccurredAt time.Time       `json:"occurredAt"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  *time.Time      `json:"updatedAt"`
	DeletedAt  *time.Time      `json:"deletedAt,omitempty"`
}

// IsActive reports whether the expense has not been soft-deleted
func (e *Expense) IsActive() bool {
	return e.DeletedAt == nil
}

// IsOwnedBy reports whether ownerID owns the expense
func (e *Expense) IsOwnedBy(ownerID uuid.UUID) bool {
	return e.OwnerID == ownerID
}

// ExpenseFilters describes a page of an owner's active expenses.
// Nil pointer fields are not applied.
type ExpenseFilters struct {
	OwnerID   uuid.UUID
	Category  *ExpenseCategory
	MinAmount *int64
	MaxAmount *int64
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    ExpenseSortField
	SortDir   SortDirection
	Page      int32
	PageSize  int32
}

// UpdateExpenseData holds the mutable fields of an expense
type UpdateExpenseData struct {
	Note       *string
	Category   ExpenseCategory
	Amount     int64
	OccurredAt time.Time
	UpdatedAt  time.Time
}

// ExpenseRepository persists expenses. Every read ignores soft-deleted rows.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	// GetActiveByID returns ErrExpenseNotFound for missing and soft-deleted rows
	GetActiveByID(ctx context.Context, id string) (*Expense, error)
	Count(ctx context.Context, filters *ExpenseFilters) (int64, error)
	List(ctx context.Context, filters *ExpenseFilters) ([]*Expense, error)
	Update(ctx context.Context, id string, data *UpdateExpenseData) (*Expense, error)
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*Expense, error)
}
