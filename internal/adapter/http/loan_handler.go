package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpeer-backend/internal/adapter/middleware"
	"lendpeer-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	LenderID    string  `json:"lenderId"    validate:"required,hex32"`
	TermID      string  `json:"termId"      validate:"omitempty,hex32"`
	Amount      float64 `json:"amount"      validate:"required,gt=0,dec2"`
	PaybackDays int     `json:"paybackDays" validate:"required,gt=0"`
	SignedBy    string  `json:"signedBy"    validate:"required"`
	Method      string  `json:"method"      validate:"omitempty"`
}

func (h *LoanHandler) Create(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), loan.CreateInput{
		ActorUserID: middleware.UserID(c),
		LenderID:    req.LenderID,
		TermID:      req.TermID,
		Amount:      req.Amount,
		PaybackDays: req.PaybackDays,
		SignedBy:    req.SignedBy,
		Method:      req.Method,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Fund(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Fund(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "loan": dto})
}

func (h *LoanHandler) Deny(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Deny(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "loan": dto})
}

func (h *LoanHandler) ListAsLender(c echo.Context) error {
	rows, err := h.uc.ListForLender(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": rows})
}

func (h *LoanHandler) ListAsBorrower(c echo.Context) error {
	rows, err := h.uc.ListForBorrower(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": rows})
}
