// Package apperr defines the error taxonomy shared by the domain services:
// authentication required, forbidden, validation failed, and not found.
// Services return these; handlers translate them to HTTP responses with
// ToHTTP so denial reasons reach the caller verbatim.
package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Kind int

const (
	KindAuthRequired Kind = iota
	KindForbidden
	KindValidation
	KindNotFound
)

// Error is a terminal, caller-facing failure. Message is safe to surface.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func AuthRequired(msg string) *Error { return &Error{Kind: KindAuthRequired, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// ToHTTP maps a service error to an echo HTTP error. Unrecognized errors
// become 500 with a generic message so internal details never leak.
func ToHTTP(err error) *echo.HTTPError {
	var ae *Error
	if !errors.As(err, &ae) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	switch ae.Kind {
	case KindAuthRequired:
		return echo.NewHTTPError(http.StatusUnauthorized, ae.Message)
	case KindForbidden:
		return echo.NewHTTPError(http.StatusForbidden, ae.Message)
	case KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, ae.Message)
	case KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, ae.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
