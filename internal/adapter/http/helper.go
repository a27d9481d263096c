package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	domainAccount "lendpeer-backend/internal/domain/account"
	domainLoan "lendpeer-backend/internal/domain/loan"
	domainNotification "lendpeer-backend/internal/domain/notification"
	domainPayment "lendpeer-backend/internal/domain/payment"
	domainRel "lendpeer-backend/internal/domain/relationship"
	domainTerm "lendpeer-backend/internal/domain/term"
	"lendpeer-backend/internal/rail"
	ucAccount "lendpeer-backend/internal/usecase/account"
	ucInvite "lendpeer-backend/internal/usecase/invite"
	ucLoan "lendpeer-backend/internal/usecase/loan"
	ucNotification "lendpeer-backend/internal/usecase/notification"
	ucSettlement "lendpeer-backend/internal/usecase/settlement"
	ucTerm "lendpeer-backend/internal/usecase/term"
)

var notFoundErrs = []error{
	domainLoan.ErrNotFound,
	domainPayment.ErrNotFound,
	domainAccount.ErrNotFound,
	domainTerm.ErrNotFound,
	domainNotification.ErrNotFound,
	domainRel.ErrNotFound,
	ucInvite.ErrInviteNotFound,
}

var forbiddenErrs = []error{
	ucLoan.ErrNotLender,
	ucLoan.ErrNotParty,
	ucSettlement.ErrActorNotParty,
	ucSettlement.ErrActorNotPayer,
	ucAccount.ErrNotOwner,
	ucTerm.ErrNotOwner,
	ucInvite.ErrNotInPair,
	ucNotification.ErrNotOwner,
	ucLoan.ErrTermNotOwned,
}

var conflictErrs = []error{
	domainLoan.ErrNotPending,
	domainLoan.ErrAlreadyCompleted,
	domainLoan.ErrInvalidTransition,
	ucSettlement.ErrAlreadyConfirmed,
	ucLoan.ErrOpenLoanExists,
	domainAccount.ErrDuplicateHandle,
	ucInvite.ErrBlocked,
	ucInvite.ErrOwnInvite,
}

var badRequestErrs = []error{
	domainPayment.ErrUnknownMethod,
	ucSettlement.ErrSameRole,
	ucSettlement.ErrLoanNotFunded,
	ucSettlement.ErrNotManual,
	ucLoan.ErrMissingFields,
	ucLoan.ErrNoRelationship,
	ucLoan.ErrAmountTooLarge,
	ucLoan.ErrBadMultiple,
	ucLoan.ErrPaybackTooLong,
	ucLoan.ErrNoMatchingAccount,
	ucTerm.ErrBadLimits,
	ucTerm.ErrUnknownMethod,
	ucAccount.ErrBadHandle,
	ucAccount.ErrUnsupported,
}

func payMethod(s string) domainPayment.Method { return domainPayment.Method(strings.ToUpper(s)) }

func payRole(s string) domainPayment.Role { return domainPayment.Role(strings.ToUpper(s)) }

// respondError maps usecase errors onto the wire contract. Unknown errors
// become an opaque 500: no internals leak past this point.
func respondError(c echo.Context, err error) error {
	var missing *ucSettlement.AccountMissingError
	if errors.As(err, &missing) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":           missing.Error(),
			"requiresAccount": strings.ToLower(string(missing.Role)),
		})
	}
	var remote *rail.Error
	if errors.As(err, &remote) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: remote.Message})
	}

	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		}
	}
	for _, target := range forbiddenErrs {
		if errors.Is(err, target) {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		}
	}
	for _, target := range conflictErrs {
		if errors.Is(err, target) {
			return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		}
	}
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
	}

	log.Printf("http: internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
