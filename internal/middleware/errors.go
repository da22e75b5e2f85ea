package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tivecs/finance/finance-backend/internal/result"
)

// Gate-level failure codes. These are produced before a request reaches a
// usecase and are not part of the usecase failure taxonomy.
const (
	CodeRateLimited = "rate-limited"
	CodeInternal    = "internal"
)

// writeFailure renders a failure as {code, description, fieldErrors?}
func writeFailure(c echo.Context, failure *result.Failure) error {
	return c.JSON(failure.Status, failure)
}

func internalError(c echo.Context) error {
	return writeFailure(c, result.NewFailure(CodeInternal, "An unexpected error occurred", http.StatusInternalServerError))
}
