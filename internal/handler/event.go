package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/talent-hub/internal/middleware"
	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/repository"
	"github.com/iliyamo/talent-hub/internal/service"
)

// EventHandler serves federation events and athlete registrations.  Writes
// purge the public response cache.
type EventHandler struct {
	Events   *repository.EventRepo
	Notifier service.EventNotifier
	Cache    *middleware.ResponseCache
	Log      logrus.FieldLogger
}

type eventReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventDate   string  `json:"event_date"`
	Venue       *string `json:"venue"`
	Category    *string `json:"category"`
}

func (r eventReq) event() (model.Event, string) {
	e := model.Event{
		Title:       strings.TrimSpace(r.Title),
		Description: cleanStr(r.Description),
		EventDate:   strings.TrimSpace(r.EventDate),
		Venue:       cleanStr(r.Venue),
		Category:    cleanStr(r.Category),
	}
	if e.Title == "" || e.EventDate == "" {
		return e, "title and event_date are required"
	}
	if !validDate(&e.EventDate) {
		return e, "event_date must be YYYY-MM-DD"
	}
	return e, ""
}

func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Events.List(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *EventHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Create stores the event and then notifies matching athletes.  Notification
// problems never fail the request.
func (h *EventHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	e, msg := req.event()
	if msg != "" {
		return badRequest(c, msg)
	}
	e.CreatedBy = uid

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Events.Create(ctx, &e); err != nil {
		return fail(c, h.Log, err)
	}
	created, err := h.Events.GetByID(ctx, e.ID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	h.Cache.Purge(ctx)

	if h.Notifier != nil {
		nctx, ncancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), dbTimeout)
		h.Notifier.EventCreated(nctx, *created)
		ncancel()
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	e, msg := req.event()
	if msg != "" {
		return badRequest(c, msg)
	}
	e.ID = id

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Events.Update(ctx, &e); err != nil {
		return fail(c, h.Log, err)
	}
	h.Cache.Purge(ctx)

	updated, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return fail(c, h.Log, err)
	}
	h.Cache.Purge(ctx)
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// Register enters the calling athlete into the event.
func (h *EventHandler) Register(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Events.Register(ctx, id, uid); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return badRequest(c, "already registered for this event")
		}
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"event_id": id, "athlete_id": uid})
}

func (h *EventHandler) Registrations(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, id); err != nil {
		return fail(c, h.Log, err)
	}
	list, err := h.Events.Registrations(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}
