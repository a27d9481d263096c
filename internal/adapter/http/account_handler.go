package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpeer-backend/internal/adapter/middleware"
	"lendpeer-backend/internal/usecase/account"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

type createAccountReq struct {
	AccountType string `json:"accountType" validate:"required,oneof=CASHAPP ZELLE PAYPAL"`
	Handle      string `json:"handle"      validate:"required"`
	Nickname    string `json:"nickname"`
	IsDefault   bool   `json:"isDefault"`
}

func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), account.CreateInput{
		ActorUserID: middleware.UserID(c),
		AccountType: req.AccountType,
		Handle:      req.Handle,
		Nickname:    req.Nickname,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type updateAccountReq struct {
	Nickname  *string `json:"nickname"`
	IsDefault *bool   `json:"isDefault"`
}

func (h *AccountHandler) Update(c echo.Context) error {
	accountID := c.Param("account_id")
	if !reHex32.MatchString(accountID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id"})
	}
	var req updateAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	dto, err := h.uc.Update(c.Request().Context(), account.UpdateInput{
		ActorUserID: middleware.UserID(c),
		AccountID:   accountID,
		Nickname:    req.Nickname,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) Delete(c echo.Context) error {
	accountID := c.Param("account_id")
	if !reHex32.MatchString(accountID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id"})
	}
	if err := h.uc.Delete(c.Request().Context(), middleware.UserID(c), accountID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *AccountHandler) List(c echo.Context) error {
	rows, err := h.uc.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"accounts": rows})
}

func (h *AccountHandler) Get(c echo.Context) error {
	accountID := c.Param("account_id")
	if !reHex32.MatchString(accountID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c), accountID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
