package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainLoan "lendpeer-backend/internal/domain/loan"
	domainPayment "lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/rail"
	ucLoan "lendpeer-backend/internal/usecase/loan"
	ucSettlement "lendpeer-backend/internal/usecase/settlement"
)

func respond(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, respondError(c, err))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespondError_MissingAccountCarriesRole(t *testing.T) {
	code, body := respond(t, &ucSettlement.AccountMissingError{
		Role:   domainPayment.RoleBorrower,
		Method: domainPayment.MethodCashApp,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "borrower", body["requiresAccount"])
	assert.Contains(t, body["error"], "no default CASHAPP account")
}

func TestRespondError_RailErrorSurfacesVerbatim(t *testing.T) {
	code, body := respond(t, &rail.Error{Message: "card declined"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "card declined", body["error"])
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown loan", domainLoan.ErrNotFound, http.StatusNotFound},
		{"wrong actor", ucSettlement.ErrActorNotPayer, http.StatusForbidden},
		{"not pending", domainLoan.ErrNotPending, http.StatusConflict},
		{"no relationship", ucLoan.ErrNoRelationship, http.StatusBadRequest},
		{"loan not funded", ucSettlement.ErrLoanNotFunded, http.StatusBadRequest},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), domainLoan.ErrNotFound), http.StatusNotFound},
		{"unknown error is opaque", errors.New("driver: broken pipe"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := respond(t, tt.err)
			assert.Equal(t, tt.want, code)
			if tt.want == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body["error"], "internals never leak")
			}
		})
	}
}

func TestPayMethodAndRoleNormalize(t *testing.T) {
	assert.Equal(t, domainPayment.MethodCashApp, payMethod("cashapp"))
	assert.Equal(t, domainPayment.RoleLender, payRole("lender"))
}
