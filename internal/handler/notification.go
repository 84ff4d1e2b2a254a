package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/talent-hub/internal/repository"
)

// NotificationHandler lets a user read and clear their own notifications.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	Log           logrus.FieldLogger
}

// List returns the notifications of :userId, newest first.  Ownership is
// checked by the route.
func (h *NotificationHandler) List(c echo.Context) error {
	id, ok := parseID(c, "userId")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Notifications.ListByUser(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// MarkRead only touches notifications addressed to the caller; others look
// like missing rows.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid notification id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, uid); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_read": true})
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid notification id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Notifications.Delete(ctx, id, uid); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
