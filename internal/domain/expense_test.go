package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestExpenseCategory_IsValid(t *testing.T) {
	for _, c := range ExpenseCategories {
		if !c.IsValid() {
			t.Errorf("Expected %q to be valid", c)
		}
	}

	for _, c := range []ExpenseCategory{"", "Food", "groceries", "other"} {
		if c.IsValid() {
			t.Errorf("Expected %q to be invalid", c)
		}
	}
}

func TestExpenseCategories_Count(t *testing.T) {
	if len(ExpenseCategories) != 11 {
		t.Errorf("Expected 11 categories, got %d", len(ExpenseCategories))
	}
}

func TestExpense_IsActive(t *testing.T) {
	e := &Expense{}
	if !e.IsActive() {
		t.Error("Expected expense without deletedAt to be active")
	}

	now := time.Now()
	e.DeletedAt = &now
	if e.IsActive() {
		t.Error("Expected soft-deleted expense to be inactive")
	}
}

func TestExpense_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	e := &Expense{OwnerID: owner}

	if !e.IsOwnedBy(owner) {
		t.Error("Expected owner to own expense")
	}
	if e.IsOwnedBy(uuid.New()) {
		t.Error("Expected other user not to own expense")
	}
}
