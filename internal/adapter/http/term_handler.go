package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpeer-backend/internal/adapter/middleware"
	"lendpeer-backend/internal/usecase/term"
)

type TermHandler struct{ uc *term.Usecase }

func NewTermHandler(uc *term.Usecase) *TermHandler { return &TermHandler{uc: uc} }

type createTermReq struct {
	MaxLoanAmount         float64  `json:"maxLoanAmount"         validate:"required,gt=0,dec2"`
	LoanMultiple          float64  `json:"loanMultiple"          validate:"omitempty,gt=0"`
	MaxPaybackDays        int      `json:"maxPaybackDays"        validate:"required,gt=0"`
	FeePer10Short         float64  `json:"feePer10Short"         validate:"required,gt=0,dec2"`
	FeePer10Long          float64  `json:"feePer10Long"          validate:"required,gt=0,dec2"`
	AllowMultipleLoans    bool     `json:"allowMultipleLoans"`
	PreferredMethods      []string `json:"preferredMethods"`
	RequireMatchingMethod bool     `json:"requireMatchingMethod"`
}

func (h *TermHandler) Create(c echo.Context) error {
	var req createTermReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), term.CreateInput{
		ActorUserID:           middleware.UserID(c),
		MaxLoanAmount:         req.MaxLoanAmount,
		LoanMultiple:          req.LoanMultiple,
		MaxPaybackDays:        req.MaxPaybackDays,
		FeePer10Short:         req.FeePer10Short,
		FeePer10Long:          req.FeePer10Long,
		AllowMultipleLoans:    req.AllowMultipleLoans,
		PreferredMethods:      req.PreferredMethods,
		RequireMatchingMethod: req.RequireMatchingMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type updateTermReq struct {
	MaxLoanAmount      *float64 `json:"maxLoanAmount"      validate:"omitempty,gt=0,dec2"`
	LoanMultiple       *float64 `json:"loanMultiple"       validate:"omitempty,gt=0"`
	MaxPaybackDays     *int     `json:"maxPaybackDays"     validate:"omitempty,gt=0"`
	FeePer10Short      *float64 `json:"feePer10Short"      validate:"omitempty,gt=0,dec2"`
	FeePer10Long       *float64 `json:"feePer10Long"       validate:"omitempty,gt=0,dec2"`
	AllowMultipleLoans *bool    `json:"allowMultipleLoans"`
}

func (h *TermHandler) Update(c echo.Context) error {
	termID := c.Param("term_id")
	if !reHex32.MatchString(termID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid term_id"})
	}
	var req updateTermReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Update(c.Request().Context(), term.UpdateInput{
		ActorUserID:        middleware.UserID(c),
		TermID:             termID,
		MaxLoanAmount:      req.MaxLoanAmount,
		LoanMultiple:       req.LoanMultiple,
		MaxPaybackDays:     req.MaxPaybackDays,
		FeePer10Short:      req.FeePer10Short,
		FeePer10Long:       req.FeePer10Long,
		AllowMultipleLoans: req.AllowMultipleLoans,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type termPreferencesReq struct {
	PreferredMethods      []string `json:"preferredMethods"`
	RequireMatchingMethod bool     `json:"requireMatchingMethod"`
}

func (h *TermHandler) UpdatePreferences(c echo.Context) error {
	termID := c.Param("term_id")
	if !reHex32.MatchString(termID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid term_id"})
	}
	var req termPreferencesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	dto, err := h.uc.UpdatePreferences(c.Request().Context(), term.PreferencesInput{
		ActorUserID:           middleware.UserID(c),
		TermID:                termID,
		PreferredMethods:      req.PreferredMethods,
		RequireMatchingMethod: req.RequireMatchingMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TermHandler) List(c echo.Context) error {
	rows, err := h.uc.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"terms": rows})
}

func (h *TermHandler) Get(c echo.Context) error {
	termID := c.Param("term_id")
	if !reHex32.MatchString(termID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid term_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c), termID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
