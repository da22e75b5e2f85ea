package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/domain"
	"github.com/tivecs/finance/finance-backend/internal/event"
	"github.com/tivecs/finance/finance-backend/internal/result"
	"github.com/tivecs/finance/finance-backend/internal/util"
	"github.com/tivecs/finance/finance-backend/internal/validation"
	"golang.org/x/sync/errgroup"
)

// ExpenseService holds the expense usecases
type ExpenseService struct {
	expenseRepo domain.ExpenseRepository
	publisher   event.Publisher
	validator   *validation.Validator
	now         func() time.Time
	newID       func() (string, error)
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, publisher event.Publisher) *ExpenseService {
	if publisher == nil {
		publisher = event.NoOp{}
	}
	return &ExpenseService{
		expenseRepo: expenseRepo,
		publisher:   publisher,
		validator:   validation.New(),
		now:         time.Now,
		newID:       newExpenseID,
	}
}

func newExpenseID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Validate reports the structural violations of a usecase input, or nil.
// Handlers use it to merge their own parse errors with tag violations.
func (s *ExpenseService) Validate(input any) result.FieldErrors {
	return s.validator.Validate(input)
}

// ExpenseSummary is the wire shape of an expense in list and get responses
type ExpenseSummary struct {
	ID         string                 `json:"id"`
	Note       *string                `json:"note"`
	Category   domain.ExpenseCategory `json:"category"`
	Amount     int64                  `json:"amount"`
	OccurredAt string                 `json:"occurredAt"`
	CreatedAt  string                 `json:"createdAt"`
	UpdatedAt  *string                `json:"updatedAt"`
}

// NewExpenseSummary formats an expense with date-only occurredAt and ISO-8601 timestamps
func NewExpenseSummary(e *domain.Expense) ExpenseSummary {
	return ExpenseSummary{
		ID:         e.ID,
		Note:       e.Note,
		Category:   e.Category,
		Amount:     e.Amount,
		OccurredAt: util.FormatDate(e.OccurredAt),
		CreatedAt:  util.FormatTimestamp(e.CreatedAt),
		UpdatedAt:  util.FormatOptionalTimestamp(e.UpdatedAt),
	}
}

// ListExpensesInput holds the input for listing an owner's expenses
type ListExpensesInput struct {
	OwnerID   uuid.UUID               `json:"ownerId" validate:"required"`
	Page      int32                   `json:"page" validate:"min=1"`
	PageSize  int32                   `json:"pageSize" validate:"min=1,max=100"`
	SortBy    domain.ExpenseSortField `json:"sortBy" validate:"oneof=occurredAt amount"`
	SortDir   domain.SortDirection    `json:"sortDir" validate:"oneof=asc desc"`
	Category  *domain.ExpenseCategory `json:"category" validate:"omitempty,expense_category"`
	MinAmount *int64                  `json:"minAmount" validate:"omitempty,gt=0"`
	MaxAmount *int64                  `json:"maxAmount" validate:"omitempty,gt=0"`
	StartDate *time.Time              `json:"startDate"`
	EndDate   *time.Time              `json:"endDate"`
}

// ListExpenses returns one page of the owner's active expenses.
// The count and the page fetch share the same predicate and run concurrently.
func (s *ExpenseService) ListExpenses(ctx context.Context, input ListExpensesInput) (result.Result[util.Page[ExpenseSummary]], error) {
	if fieldErrors := s.validator.Validate(input); fieldErrors != nil {
		return result.Fail[util.Page[ExpenseSummary]](result.Validation(fieldErrors)), nil
	}

	filters := &domain.ExpenseFilters{
		OwnerID:   input.OwnerID,
		Category:  input.Category,
		MinAmount: input.MinAmount,
		MaxAmount: input.MaxAmount,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		SortBy:    input.SortBy,
		SortDir:   input.SortDir,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	var (
		totalItems int64
		expenses   []*domain.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.expenseRepo.Count(gctx, filters)
		if err != nil {
			return fmt.Errorf("count expenses: %w", err)
		}
		totalItems = n
		return nil
	})
	g.Go(func() error {
		rows, err := s.expenseRepo.List(gctx, filters)
		if err != nil {
			return fmt.Errorf("fetch expenses page: %w", err)
		}
		expenses = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return result.Result[util.Page[ExpenseSummary]]{}, err
	}

	page := util.NewPage(expenses, input.Page, input.PageSize, totalItems)
	return result.Ok(util.MapItems(page, NewExpenseSummary)), nil
}

// GetExpenseInput identifies an expense on behalf of an owner
type GetExpenseInput struct {
	ExpenseID string    `json:"expenseId" validate:"required,max=64"`
	OwnerID   uuid.UUID `json:"ownerId" validate:"required"`
}

// GetExpense returns a single active expense owned by the caller
func (s *ExpenseService) GetExpense(ctx context.Context, input GetExpenseInput) (result.Result[ExpenseSummary], error) {
	if fieldErrors := s.validator.Validate(input); fieldErrors != nil {
		return result.Fail[ExpenseSummary](result.Validation(fieldErrors)), nil
	}

	expense, failure, err := s.getOwnedExpense(ctx, input.ExpenseID, input.OwnerID)
	if err != nil {
		return result.Result[ExpenseSummary]{}, err
	}
	if failure != nil {
		return result.Fail[ExpenseSummary](failure), nil
	}

	return result.Ok(NewExpenseSummary(expense)), nil
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	OwnerID    uuid.UUID              `json:"ownerId" validate:"required"`
	Note       *string                `json:"note" validate:"omitempty,max=50"`
	Category   domain.ExpenseCategory `json:"category" validate:"required,expense_category"`
	Amount     int64                  `json:"amount" validate:"gt=0"`
	OccurredAt time.Time              `json:"occurredAt" validate:"required"`
}

// CreatedExpense is returned by CreateExpense
type CreatedExpense struct {
	ID        string
	CreatedAt time.Time
}

// CreateExpense inserts a new active expense for the owner
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (result.Result[CreatedExpense], error) {
	if fieldErrors := s.validator.Validate(input); fieldErrors != nil {
		return result.Fail[CreatedExpense](result.Validation(fieldErrors)), nil
	}

	id, err := s.newID()
	if err != nil {
		return result.Result[CreatedExpense]{}, fmt.Errorf("generate expense id: %w", err)
	}

	created, err := s.expenseRepo.Create(ctx, &domain.Expense{
		ID:         id,
		OwnerID:    input.OwnerID,
		Amount:     input.Amount,
		Category:   input.Category,
		Note:       normalizeNote(input.Note),
		OccurredAt: util.TruncateToDate(input.OccurredAt),
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return result.Result[CreatedExpense]{}, fmt.Errorf("create expense: %w", err)
	}

	log.Info().Str("owner_id", input.OwnerID.String()).Str("expense_id", created.ID).Msg("Expense created")
	s.publisher.Publish(created.OwnerID, event.ExpenseCreated(NewExpenseSummary(created)))

	return result.Ok(CreatedExpense{ID: created.ID, CreatedAt: created.CreatedAt}), nil
}

// EditExpenseInput holds the input for editing an expense
type EditExpenseInput struct {
	ExpenseID  string                 `json:"expenseId" validate:"required,max=64"`
	OwnerID    uuid.UUID              `json:"ownerId" validate:"required"`
	Note       *string                `json:"note" validate:"omitempty,max=50"`
	Category   domain.ExpenseCategory `json:"category" validate:"required,expense_category"`
	Amount     int64                  `json:"amount" validate:"gt=0"`
	OccurredAt time.Time              `json:"occurredAt" validate:"required"`
}

// UpdatedExpense is returned by EditExpense
type UpdatedExpense struct {
	ID        string
	UpdatedAt time.Time
}

// EditExpense overwrites the mutable fields of an active expense owned by the caller
func (s *ExpenseService) EditExpense(ctx context.Context, input EditExpenseInput) (result.Result[UpdatedExpense], error) {
	if fieldErrors := s.validator.Validate(input); fieldErrors != nil {
		return result.Fail[UpdatedExpense](result.Validation(fieldErrors)), nil
	}

	_, failure, err := s.getOwnedExpense(ctx, input.ExpenseID, input.OwnerID)
	if err != nil {
		return result.Result[UpdatedExpense]{}, err
	}
	if failure != nil {
		return result.Fail[UpdatedExpense](failure), nil
	}

	updated, err := s.expenseRepo.Update(ctx, input.ExpenseID, &domain.UpdateExpenseData{
		Note:       normalizeNote(input.Note),
		Category:   input.Category,
		Amount:     input.Amount,
		OccurredAt: util.TruncateToDate(input.OccurredAt),
		UpdatedAt:  s.now().UTC(),
	})
	if errors.Is(err, domain.ErrExpenseNotFound) {
		// soft-deleted between the read and the write
		return result.Fail[UpdatedExpense](domain.ExpenseNotFound), nil
	}
	if err != nil {
		return result.Result[UpdatedExpense]{}, fmt.Errorf("update expense: %w", err)
	}

	log.Info().Str("owner_id", input.OwnerID.String()).Str("expense_id", updated.ID).Msg("Expense updated")
	s.publisher.Publish(updated.OwnerID, event.ExpenseUpdated(NewExpenseSummary(updated)))

	return result.Ok(UpdatedExpense{ID: updated.ID, UpdatedAt: *updated.UpdatedAt}), nil
}

// DeleteExpenseInput identifies the expense to soft-delete
type DeleteExpenseInput struct {
	ExpenseID string    `json:"expenseId" validate:"required,max=64"`
	OwnerID   uuid.UUID `json:"ownerId" validate:"required"`
}

// DeletedExpense is returned by DeleteExpense
type DeletedExpense struct {
	ID        string
	DeletedAt time.Time
}

// DeleteExpense soft-deletes an active expense owned by the caller.
// Deleting the same expense again reports not-found.
func (s *ExpenseService) DeleteExpense(ctx context.Context, input DeleteExpenseInput) (result.Result[DeletedExpense], error) {
	if fieldErrors := s.validator.Validate(input); fieldErrors != nil {
		return result.Fail[DeletedExpense](result.Validation(fieldErrors)), nil
	}

	_, failure, err := s.getOwnedExpense(ctx, input.ExpenseID, input.OwnerID)
	if err != nil {
		return result.Result[DeletedExpense]{}, err
	}
	if failure != nil {
		return result.Fail[DeletedExpense](failure), nil
	}

	deleted, err := s.expenseRepo.SoftDelete(ctx, input.ExpenseID, s.now().UTC())
	if errors.Is(err, domain.ErrExpenseNotFound) {
		return result.Fail[DeletedExpense](domain.ExpenseNotFound), nil
	}
	if err != nil {
		return result.Result[DeletedExpense]{}, fmt.Errorf("soft delete expense: %w", err)
	}

	log.Info().Str("owner_id", input.OwnerID.String()).Str("expense_id", deleted.ID).Msg("Expense deleted")
	s.publisher.Publish(deleted.OwnerID, event.ExpenseDeleted(map[string]string{
		"id":        deleted.ID,
		"deletedAt": util.FormatTimestamp(*deleted.DeletedAt),
	}))

	return result.Ok(DeletedExpense{ID: deleted.ID, DeletedAt: *deleted.DeletedAt}), nil
}

// getOwnedExpense loads an active expense and checks ownership.
// Existence is always checked before ownership.
func (s *ExpenseService) getOwnedExpense(ctx context.Context, id string, ownerID uuid.UUID) (*domain.Expense, *result.Failure, error) {
	expense, err := s.expenseRepo.GetActiveByID(ctx, id)
	if errors.Is(err, domain.ErrExpenseNotFound) {
		return nil, domain.ExpenseNotFound, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get expense: %w", err)
	}

	if !expense.IsOwnedBy(ownerID) {
		log.Debug().Str("owner_id", ownerID.String()).Str("expense_id", id).Msg("Expense access denied")
		return nil, domain.ExpenseNotOwned, nil
	}

	return expense, nil, nil
}

// normalizeNote trims the note and drops it when blank
func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
