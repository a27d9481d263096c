package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpeer-backend/internal/adapter/middleware"
	"lendpeer-backend/internal/usecase/notification"
)

type NotificationHandler struct{ uc *notification.Usecase }

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	rows, err := h.uc.ListForUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"notifications": rows})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	notificationID := c.Param("notification_id")
	if !reHex32.MatchString(notificationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid notification_id"})
	}
	n, err := h.uc.MarkRead(c.Request().Context(), middleware.UserID(c), notificationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}
