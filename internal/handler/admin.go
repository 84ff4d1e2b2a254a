package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/repository"
)

// AdminHandler holds the federation-only endpoints: profile approval and
// private notes on any user.
type AdminHandler struct {
	Athletes      *repository.AthleteRepo
	Coaches       *repository.CoachRepo
	Notifications *repository.NotificationRepo
	Notes         *repository.NoteRepo
	Log           logrus.FieldLogger
}

func (h *AdminHandler) ListAthletes(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Athletes.List(ctx, repository.AthleteFilter{Status: strings.TrimSpace(c.QueryParam("status"))})
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) ListCoaches(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Coaches.List(ctx, strings.TrimSpace(c.QueryParam("status")))
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *AdminHandler) SetAthleteStatus(c echo.Context) error {
	return h.setStatus(c, "athlete", h.Athletes.UpdateStatus)
}

func (h *AdminHandler) SetCoachStatus(c echo.Context) error {
	return h.setStatus(c, "coach", h.Coaches.UpdateStatus)
}

// setStatus applies the new status and tells the user about it.  The
// notification is best effort.
func (h *AdminHandler) setStatus(c echo.Context, kind string, update func(context.Context, uint64, string) error) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid "+kind+" id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	status := normalizeStatus(req.Status)
	if !model.ValidStatus(status) {
		return badRequest(c, "status must be Pending, approved, rejected or revoked")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := update(ctx, id, status); err != nil {
		return fail(c, h.Log, err)
	}
	msg := fmt.Sprintf("Your %s profile status is now %s.", kind, status)
	if err := h.Notifications.Create(ctx, id, "Profile status updated", msg); err != nil {
		h.Log.WithError(err).WithField("user_id", id).Warn("status notification failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "status": status})
}

// normalizeStatus accepts any casing; Pending keeps its stored spelling.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == strings.ToLower(model.StatusPending) {
		return model.StatusPending
	}
	return s
}

func (h *AdminHandler) Note(c echo.Context) error {
	subject, ok := parseID(c, "subjectId")
	if !ok {
		return badRequest(c, "invalid subject id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return getNote(c, h.Notes, h.Log, uid, subject)
}

func (h *AdminHandler) PutNote(c echo.Context) error {
	subject, ok := parseID(c, "subjectId")
	if !ok {
		return badRequest(c, "invalid subject id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return putNote(c, h.Notes, h.Log, uid, subject)
}
