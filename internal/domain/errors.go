package domain

import (
	"errors"
	"net/http"

	"github.com/tivecs/finance/finance-backend/internal/result"
)

// Domain errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Expense failure codes
const (
	CodeExpenseNotFound = "expense.not-found"
	CodeExpenseNotOwned = "expense.not-owned"
)

// Failures returned by the expense usecases
var (
	ExpenseNotFound = result.NewFailure(CodeExpenseNotFound, "The requested expense was not found", http.StatusNotFound)
	ExpenseNotOwned = result.NewFailure(CodeExpenseNotOwned, "The requested expense does not belong to the user", http.StatusForbidden)
)
