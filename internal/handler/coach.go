package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/repository"
	"github.com/iliyamo/talent-hub/internal/service"
)

// CoachHandler serves coach profiles, squads, favorites and private notes.
// Every squad mutation answers with the coach's fresh roster.
type CoachHandler struct {
	Coaches   *repository.CoachRepo
	Squads    *service.SquadService
	Favorites *repository.FavoriteRepo
	Notes     *repository.NoteRepo
	Log       logrus.FieldLogger
}

func (h *CoachHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid coach id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	coach, err := h.Coaches.GetByID(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, coach)
}

type coachReq struct {
	FullName        *string `json:"full_name"`
	Gender          *string `json:"gender"`
	Specialization  *string `json:"specialization"`
	ExperienceYears *int    `json:"experience_years"`
	Qualifications  *string `json:"qualifications"`
	Club            *string `json:"club"`
	District        *string `json:"district"`
	PhotoURL        *string `json:"photo_url"`
	Bio             *string `json:"bio"`
}

// Save upserts the whole profile.  Status is never taken from the body.
func (h *CoachHandler) Save(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid coach id")
	}
	var req coachReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
		return badRequest(c, "experience_years must not be negative")
	}
	coach := &model.Coach{
		UserID:          id,
		FullName:        cleanStr(req.FullName),
		Gender:          cleanStr(req.Gender),
		Specialization:  cleanStr(req.Specialization),
		ExperienceYears: req.ExperienceYears,
		Qualifications:  cleanStr(req.Qualifications),
		Club:            cleanStr(req.Club),
		District:        cleanStr(req.District),
		PhotoURL:        cleanStr(req.PhotoURL),
		Bio:             cleanStr(req.Bio),
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Coaches.Save(ctx, coach); err != nil {
		return fail(c, h.Log, err)
	}
	saved, err := h.Coaches.GetByID(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *CoachHandler) ListSquads(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid coach id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Squads.Squads(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CoachHandler) Roster(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid coach id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	r, err := h.Squads.Roster(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, r)
}

type squadReq struct {
	Name        string  `json:"name"`
	WorkoutPlan *string `json:"workout_plan"`
}

func (h *CoachHandler) CreateSquad(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid coach id")
	}
	var req squadReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	sq, err := h.Squads.CreateSquad(ctx, id, req.Name, cleanStr(req.WorkoutPlan))
	if err != nil {
		return fail(c, h.Log, err)
	}
	r, err := h.Squads.Roster(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"squad": sq, "roster": r})
}

// UpdateSquad applies a partial update; absent fields are kept.
func (h *CoachHandler) UpdateSquad(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	squadID, ok2 := parseID(c, "squadId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	var p model.SquadPatch
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.mutate(c, id, func(ctx context.Context) error {
		return h.Squads.UpdateSquad(ctx, id, squadID, p)
	})
}

func (h *CoachHandler) DeleteSquad(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	squadID, ok2 := parseID(c, "squadId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	return h.mutate(c, id, func(ctx context.Context) error {
		return h.Squads.DeleteSquad(ctx, id, squadID)
	})
}

type assignReq struct {
	AthleteID uint64 `json:"athlete_id"`
}

// Assign moves the athlete into the squad, out of any other squad of the
// same coach.
func (h *CoachHandler) Assign(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	squadID, ok2 := parseID(c, "squadId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	var req assignReq
	if err := c.Bind(&req); err != nil || req.AthleteID == 0 {
		return badRequest(c, "athlete_id is required")
	}
	return h.mutate(c, id, func(ctx context.Context) error {
		return h.Squads.AssignAthlete(ctx, id, squadID, req.AthleteID)
	})
}

func (h *CoachHandler) Unassign(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	squadID, ok2 := parseID(c, "squadId")
	athleteID, ok3 := parseID(c, "athleteId")
	if !ok1 || !ok2 || !ok3 {
		return badRequest(c, "invalid id")
	}
	return h.mutate(c, id, func(ctx context.Context) error {
		return h.Squads.UnassignAthlete(ctx, id, squadID, athleteID)
	})
}

// mutate runs op and answers with {roster}.
func (h *CoachHandler) mutate(c echo.Context, coachID uint64, op func(context.Context) error) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := op(ctx); err != nil {
		return fail(c, h.Log, err)
	}
	r, err := h.Squads.Roster(ctx, coachID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"roster": r})
}

func (h *CoachHandler) ListFavorites(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid coach id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Favorites.List(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// AddFavorite is idempotent.
func (h *CoachHandler) AddFavorite(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid coach id")
	}
	var req assignReq
	if err := c.Bind(&req); err != nil || req.AthleteID == 0 {
		return badRequest(c, "athlete_id is required")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Favorites.Add(ctx, id, req.AthleteID); err != nil {
		return fail(c, h.Log, err)
	}
	list, err := h.Favorites.List(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CoachHandler) RemoveFavorite(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	athleteID, ok2 := parseID(c, "athleteId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Favorites.Remove(ctx, id, athleteID); err != nil {
		return fail(c, h.Log, err)
	}
	list, err := h.Favorites.List(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CoachHandler) Note(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	athleteID, ok2 := parseID(c, "athleteId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	return getNote(c, h.Notes, h.Log, id, athleteID)
}

func (h *CoachHandler) PutNote(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	athleteID, ok2 := parseID(c, "athleteId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	return putNote(c, h.Notes, h.Log, id, athleteID)
}

type noteReq struct {
	Note string `json:"note"`
}

func getNote(c echo.Context, notes *repository.NoteRepo, log logrus.FieldLogger, author, subject uint64) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	n, err := notes.Get(ctx, author, subject)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, n)
}

// putNote overwrites the note; an empty body stores an empty note.
func putNote(c echo.Context, notes *repository.NoteRepo, log logrus.FieldLogger, author, subject uint64) error {
	var req noteReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := notes.Put(ctx, author, subject, strings.TrimSpace(req.Note)); err != nil {
		return fail(c, log, err)
	}
	n, err := notes.Get(ctx, author, subject)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, n)
}
