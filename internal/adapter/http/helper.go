package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"loanverse/internal/domain/identity"
	"loanverse/internal/domain/ledger"
	"loanverse/internal/usecase/marketplace"
)

// jsonError renders a domain error with the status it maps to. Unknown
// errors stay opaque 500s.
func jsonError(c echo.Context, err error) error {
	return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidTerms),
		errors.Is(err, ledger.ErrPaymentIndex),
		errors.Is(err, identity.ErrInvalidUser):
		return http.StatusBadRequest
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, marketplace.ErrNotOfferOwner),
		errors.Is(err, identity.ErrRemoveAdmin):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrOfferNotFound),
		errors.Is(err, ledger.ErrRequestNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateRequest),
		errors.Is(err, identity.ErrDuplicateUser),
		errors.Is(err, ledger.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ---- test helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
