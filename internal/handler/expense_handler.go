package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tivecs/finance/finance-backend/internal/domain"
	"github.com/tivecs/finance/finance-backend/internal/middleware"
	"github.com/tivecs/finance/finance-backend/internal/result"
	"github.com/tivecs/finance/finance-backend/internal/service"
	"github.com/tivecs/finance/finance-backend/internal/util"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest is the body of create and edit requests
type ExpenseRequest struct {
	Note       *string         `json:"note,omitempty" example:"Lunch"`
	Category   string          `json:"category" example:"food"`
	Amount     json.RawMessage `json:"amount" swaggertype:"integer" example:"15000"`
	OccurredAt string          `json:"occurredAt" example:"2024-01-10"`
}

// CreateExpenseResponse represents a created expense
type CreateExpenseResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

// UpdateExpenseResponse represents an edited expense
type UpdateExpenseResponse struct {
	ID        string `json:"id"`
	UpdatedAt string `json:"updatedAt"`
}

// DeleteExpenseResponse represents a soft-deleted expense
type DeleteExpenseResponse struct {
	ID        string `json:"id"`
	DeletedAt string `json:"deletedAt"`
}

// ExpenseListResponse documents the paginated list body
type ExpenseListResponse struct {
	Items      []service.ExpenseSummary `json:"items"`
	Page       int32                    `json:"page"`
	PageSize   int32                    `json:"pageSize"`
	TotalItems int64                    `json:"totalItems"`
	TotalPages int32                    `json:"totalPages"`
}

// CategoriesResponse lists the expense categories
type CategoriesResponse struct {
	Categories []domain.ExpenseCategory `json:"categories"`
}

// ListExpenses godoc
// @Summary List expenses
// @Description List the caller's active expenses with filters, sorting and pagination
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (>= 1)" default(1)
// @Param pageSize query int false "Page size (1-100)" default(10)
// @Param sortBy query string false "Sort field" Enums(occurredAt, amount) default(occurredAt)
// @Param sortDir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param category query string false "Category filter"
// @Param minAmount query int false "Minimum amount (inclusive)"
// @Param maxAmount query int false "Maximum amount (inclusive)"
// @Param startDate query string false "Earliest occurredAt (YYYY-MM-DD, inclusive)"
// @Param endDate query string false "Latest occurredAt (YYYY-MM-DD, inclusive)"
// @Success 200 {object} ExpenseListResponse
// @Failure 400 {object} FailureResponse
// @Failure 401 {object} FailureResponse
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	parseErrors := result.FieldErrors{}
	input := service.ListExpensesInput{
		OwnerID:  middleware.GetUserID(c),
		Page:     1,
		PageSize: domain.DefaultPageSize,
		SortBy:   domain.ExpenseSortByOccurredAt,
		SortDir:  domain.SortDesc,
	}

	if v := c.QueryParam("page"); v != "" {
		input.Page = parseInt32(parseErrors, "page", v)
	}
	if v := c.QueryParam("pageSize"); v != "" {
		input.PageSize = parseInt32(parseErrors, "pageSize", v)
	}
	if v := c.QueryParam("sortBy"); v != "" {
		input.SortBy = domain.ExpenseSortField(v)
	}
	if v := c.QueryParam("sortDir"); v != "" {
		input.SortDir = domain.SortDirection(v)
	}
	if v := c.QueryParam("category"); v != "" {
		category := domain.ExpenseCategory(v)
		input.Category = &category
	}
	if v := c.QueryParam("minAmount"); v != "" {
		input.MinAmount = parseOptionalInt64(parseErrors, "minAmount", v)
	}
	if v := c.QueryParam("maxAmount"); v != "" {
		input.MaxAmount = parseOptionalInt64(parseErrors, "maxAmount", v)
	}
	if v := c.QueryParam("startDate"); v != "" {
		input.StartDate = parseOptionalDate(parseErrors, "startDate", v)
	}
	if v := c.QueryParam("endDate"); v != "" {
		input.EndDate = parseOptionalDate(parseErrors, "endDate", v)
	}

	if failure := h.mergeParseErrors(input, parseErrors); failure != nil {
		return respondFailure(c, failure)
	}

	r, err := h.expenseService.ListExpenses(c.Request().Context(), input)
	return respond(c, http.StatusOK, r, err, func(page util.Page[service.ExpenseSummary]) any {
		return page
	})
}

// GetExpense godoc
// @Summary Get an expense
// @Description Get one of the caller's active expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} service.ExpenseSummary
// @Failure 401 {object} FailureResponse
// @Failure 403 {object} FailureResponse
// @Failure 404 {object} FailureResponse
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	r, err := h.expenseService.GetExpense(c.Request().Context(), service.GetExpenseInput{
		ExpenseID: c.Param("id"),
		OwnerID:   middleware.GetUserID(c),
	})
	return respond(c, http.StatusOK, r, err, func(summary service.ExpenseSummary) any {
		return summary
	})
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Record a new expense for the caller
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense"
// @Success 201 {object} CreateExpenseResponse
// @Failure 400 {object} FailureResponse
// @Failure 401 {object} FailureResponse
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return respondFailure(c, invalidBody())
	}

	parseErrors := result.FieldErrors{}
	input := service.CreateExpenseInput{
		OwnerID:    middleware.GetUserID(c),
		Note:       req.Note,
		Category:   domain.ExpenseCategory(req.Category),
		Amount:     parseAmount(parseErrors, req.Amount),
		OccurredAt: parseRequiredDate(parseErrors, "occurredAt", req.OccurredAt),
	}
	if failure := h.mergeParseErrors(input, parseErrors); failure != nil {
		return respondFailure(c, failure)
	}

	r, err := h.expenseService.CreateExpense(c.Request().Context(), input)
	return respond(c, http.StatusCreated, r, err, func(created service.CreatedExpense) any {
		return CreateExpenseResponse{
			ID:        created.ID,
			CreatedAt: util.FormatTimestamp(created.CreatedAt),
		}
	})
}

// EditExpense godoc
// @Summary Edit an expense
// @Description Overwrite the note, category, amount and date of one of the caller's expenses
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param request body ExpenseRequest true "Expense"
// @Success 200 {object} UpdateExpenseResponse
// @Failure 400 {object} FailureResponse
// @Failure 401 {object} FailureResponse
// @Failure 403 {object} FailureResponse
// @Failure 404 {object} FailureResponse
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) EditExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return respondFailure(c, invalidBody())
	}

	parseErrors := result.FieldErrors{}
	input := service.EditExpenseInput{
		ExpenseID:  c.Param("id"),
		OwnerID:    middleware.GetUserID(c),
		Note:       req.Note,
		Category:   domain.ExpenseCategory(req.Category),
		Amount:     parseAmount(parseErrors, req.Amount),
		OccurredAt: parseRequiredDate(parseErrors, "occurredAt", req.OccurredAt),
	}
	if failure := h.mergeParseErrors(input, parseErrors); failure != nil {
		return respondFailure(c, failure)
	}

	r, err := h.expenseService.EditExpense(c.Request().Context(), input)
	return respond(c, http.StatusOK, r, err, func(updated service.UpdatedExpense) any {
		return UpdateExpenseResponse{
			ID:        updated.ID,
			UpdatedAt: util.FormatTimestamp(updated.UpdatedAt),
		}
	})
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Soft-delete one of the caller's expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} DeleteExpenseResponse
// @Failure 401 {object} FailureResponse
// @Failure 403 {object} FailureResponse
// @Failure 404 {object} FailureResponse
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	r, err := h.expenseService.DeleteExpense(c.Request().Context(), service.DeleteExpenseInput{
		ExpenseID: c.Param("id"),
		OwnerID:   middleware.GetUserID(c),
	})
	return respond(c, http.StatusOK, r, err, func(deleted service.DeletedExpense) any {
		return DeleteExpenseResponse{
			ID:        deleted.ID,
			DeletedAt: util.FormatTimestamp(deleted.DeletedAt),
		}
	})
}

// GetCategories godoc
// @Summary List expense categories
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CategoriesResponse
// @Failure 401 {object} FailureResponse
// @Router /expenses/categories [get]
func (h *ExpenseHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: domain.ExpenseCategories})
}

// mergeParseErrors returns nil when nothing failed to parse. Otherwise it
// returns a validation failure carrying the parse errors plus every tag
// violation of the remaining fields.
func (h *ExpenseHandler) mergeParseErrors(input any, parseErrors result.FieldErrors) *result.Failure {
	if len(parseErrors) == 0 {
		return nil
	}
	merged := result.FieldErrors{}
	merged.Merge(parseErrors)
	merged.Merge(h.expenseService.Validate(input))
	return result.Validation(merged)
}

func invalidBody() *result.Failure {
	fieldErrors := result.FieldErrors{}
	fieldErrors.Add("body", "must be a valid JSON object")
	return result.Validation(fieldErrors)
}

func parseInt32(fieldErrors result.FieldErrors, field, v string) int32 {
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		fieldErrors.Add(field, "must be an integer")
		return 0
	}
	return int32(n)
}

func parseOptionalInt64(fieldErrors result.FieldErrors, field, v string) *int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		fieldErrors.Add(field, "must be an integer")
		return nil
	}
	return &n
}

func parseAmount(fieldErrors result.FieldErrors, raw json.RawMessage) int64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var amount int64
	if err := json.Unmarshal(raw, &amount); err != nil {
		fieldErrors.Add("amount", "must be an integer")
		return 0
	}
	return amount
}

// parseDate accepts a calendar date or a full ISO-8601 timestamp
func parseDate(v string) (time.Time, error) {
	if d, err := util.ParseDate(v); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return util.TruncateToDate(t), nil
}

func parseOptionalDate(fieldErrors result.FieldErrors, field, v string) *time.Time {
	d, err := parseDate(v)
	if err != nil {
		fieldErrors.Add(field, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}

func parseRequiredDate(fieldErrors result.FieldErrors, field, v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	d, err := parseDate(v)
	if err != nil {
		fieldErrors.Add(field, "must be a date in YYYY-MM-DD format")
		return time.Time{}
	}
	return d
}
