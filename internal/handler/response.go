package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/result"
)

// FailureResponse is the body of every non-2xx response
type FailureResponse struct {
	Code        string              `json:"code" example:"validation-error"`
	Description string              `json:"description" example:"The request contains invalid fields"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

// CodeInternal is used for unexpected failures. It is not part of the usecase taxonomy.
const CodeInternal = "internal"

var internalFailure = result.NewFailure(CodeInternal, "An unexpected error occurred", http.StatusInternalServerError)

// respondFailure renders a failure with its own status
func respondFailure(c echo.Context, failure *result.Failure) error {
	return c.JSON(failure.Status, failure)
}

// respondInternal logs err and renders a 500
func respondInternal(c echo.Context, err error, msg string) error {
	log.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("path", c.Request().URL.Path).
		Msg(msg)
	return respondFailure(c, internalFailure)
}

// respond renders a usecase outcome: infra errors become a 500, failures use
// their mapped status and successes are rendered with status.
func respond[T any](c echo.Context, status int, r result.Result[T], err error, render func(T) any) error {
	if err != nil {
		return respondInternal(c, err, "Usecase failed")
	}
	return result.Match(r,
		func(v T) error { return c.JSON(status, render(v)) },
		func(f *result.Failure) error { return respondFailure(c, f) },
	)
}

// HTTPErrorHandler renders framework errors (unknown routes, unsupported
// methods, panics recovered upstream) with the failure body shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	failure := internalFailure
	var httpErr *echo.HTTPError
	var f *result.Failure
	switch {
	case errors.As(err, &f):
		failure = f
	case errors.As(err, &httpErr):
		description := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			description = msg
		}
		failure = result.NewFailure(statusCode(httpErr.Code), description, httpErr.Code)
	}

	if failure.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled error")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(failure.Status)
	} else {
		writeErr = respondFailure(c, failure)
	}
	if writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// statusCode turns an HTTP status into a failure code, e.g. 405 -> "method-not-allowed"
func statusCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return result.CodeUnauthorized
	case http.StatusInternalServerError:
		return CodeInternal
	}
	text := http.StatusText(status)
	if text == "" {
		return CodeInternal
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "-")
}
