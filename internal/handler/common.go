package handler // handler defines http handlers

import (
    "context"  // per-request DB deadlines
    "errors"   // sentinel matching
    "net/http" // status codes
    "strconv"  // path parameter parsing
    "strings"  // trimming optional strings
    "time"     // timeout length

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/talent-hub/internal/middleware"
    "github.com/iliyamo/talent-hub/internal/repository"
    "github.com/iliyamo/talent-hub/internal/service"
)

// dbTimeout bounds the database work of a single request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID returns the authenticated caller's ID set by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
    if id, ok := middleware.UserID(c); ok {
        return id, nil
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    return n, err == nil && n > 0
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// cleanStr trims s and turns blanks into nil so empty form fields are
// stored as NULL.
func cleanStr(s *string) *string {
    if s == nil {
        return nil
    }
    t := strings.TrimSpace(*s)
    if t == "" {
        return nil
    }
    return &t
}

// validDate accepts nil or a YYYY-MM-DD date.
func validDate(s *string) bool {
    if s == nil {
        return true
    }
    _, err := time.Parse("2006-01-02", *s)
    return err == nil
}

// fail maps domain errors to status codes.  Anything unrecognised is logged
// with the route and caller and answered with a generic 500.
func fail(c echo.Context, log logrus.FieldLogger, err error) error {
    status, msg := http.StatusInternalServerError, "internal server error"
    switch {
    case errors.Is(err, repository.ErrAthleteNotFound),
        errors.Is(err, repository.ErrCoachNotFound),
        errors.Is(err, repository.ErrSquadNotFound),
        errors.Is(err, repository.ErrEventNotFound),
        errors.Is(err, repository.ErrAchievementNotFound),
        errors.Is(err, repository.ErrNotificationNotFound),
        errors.Is(err, repository.ErrNoteNotFound),
        errors.Is(err, repository.ErrUserNotFound),
        errors.Is(err, repository.ErrNotFound):
        status, msg = http.StatusNotFound, err.Error()
    case errors.Is(err, repository.ErrCoachProfileMissing):
        status, msg = http.StatusBadRequest, "create your coach profile before adding squads"
    case errors.Is(err, service.ErrSquadNameRequired),
        errors.Is(err, service.ErrSquadNameTaken):
        status, msg = http.StatusBadRequest, err.Error()
    case errors.Is(err, repository.ErrRoleMismatch):
        status, msg = http.StatusBadRequest, err.Error()
    case errors.Is(err, repository.ErrConflict):
        status, msg = http.StatusBadRequest, "already exists"
    case errors.Is(err, repository.ErrForbidden):
        status, msg = http.StatusForbidden, "forbidden"
    case errors.Is(err, context.DeadlineExceeded):
        status, msg = http.StatusGatewayTimeout, "request timed out"
    }
    if status >= http.StatusInternalServerError {
        uid, _ := middleware.UserID(c)
        log.WithFields(logrus.Fields{
            "route":   c.Request().Method + " " + c.Path(),
            "user_id": uid,
        }).WithError(err).Error("request failed")
    }
    return c.JSON(status, echo.Map{"error": msg})
}
