// Package validation checks usecase inputs against their struct tags and
// reports every violation keyed by the field's JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tivecs/finance/finance-backend/internal/domain"
	"github.com/tivecs/finance/finance-backend/internal/result"
)

// Validator wraps a configured validator.Validate
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with JSON field naming and the domain rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("expense_category", func(fl validator.FieldLevel) bool {
		return domain.ExpenseCategory(fl.Field().String()).IsValid()
	})

	return &Validator{validate: v}
}

// Validate returns nil when s satisfies its rules, otherwise every violation
func (v *Validator) Validate(s any) result.FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors := result.FieldErrors{}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fieldErrors.Add("", err.Error())
		return fieldErrors
	}

	for _, fe := range validationErrs {
		fieldErrors.Add(fieldPath(fe), message(fe))
	}
	return fieldErrors
}

// fieldPath drops the root struct name from the namespace, e.g.
// "CreateExpenseInput.amount" becomes "amount"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "expense_category":
		names := make([]string, len(domain.ExpenseCategories))
		for i, c := range domain.ExpenseCategories {
			names[i] = string(c)
		}
		return "must be one of: " + strings.Join(names, ", ")
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
