package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lendpeer-backend/internal/adapter/middleware"
	domainRel "lendpeer-backend/internal/domain/relationship"
	"lendpeer-backend/internal/usecase/invite"
)

type InviteHandler struct{ uc *invite.Usecase }

func NewInviteHandler(uc *invite.Usecase) *InviteHandler { return &InviteHandler{uc: uc} }

func (h *InviteHandler) Lookup(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing token"})
	}
	dto, err := h.uc.Lookup(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InviteHandler) Accept(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing token"})
	}
	dto, err := h.uc.Accept(c.Request().Context(), token, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "relationship": dto})
}

func (h *InviteHandler) ListRelationships(c echo.Context) error {
	rows, err := h.uc.ListForUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"relationships": rows})
}

type relationshipStatusReq struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED BLOCKED"`
}

func (h *InviteHandler) SetRelationshipStatus(c echo.Context) error {
	relationshipID := c.Param("relationship_id")
	if !reHex32.MatchString(relationshipID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid relationship_id"})
	}
	var req relationshipStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.SetStatus(c.Request().Context(), middleware.UserID(c), relationshipID, domainRel.Status(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "relationship": dto})
}
