package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/repository"
)

// AthleteHandler serves athlete profiles, achievements, performances and
// the athlete-side squad view.
type AthleteHandler struct {
	Athletes     *repository.AthleteRepo
	Achievements *repository.AchievementRepo
	Performances *repository.PerformanceRepo
	Squads       *repository.SquadRepo
	Log          logrus.FieldLogger
}

type athleteView struct {
	*model.Athlete
	Achievements []model.Achievement `json:"achievements"`
}

// Get returns the profile with its events and achievements.
func (h *AthleteHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid athlete id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	a, err := h.Athletes.GetByID(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	achs, err := h.Achievements.ListByAthlete(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, athleteView{Athlete: a, Achievements: achs})
}

type athleteReq struct {
	FullName          *string              `json:"full_name"`
	DateOfBirth       *string              `json:"date_of_birth"`
	Gender            *string              `json:"gender"`
	Category          *string              `json:"category"`
	Club              *string              `json:"club"`
	District          *string              `json:"district"`
	HeightCM          *float64             `json:"height_cm"`
	WeightKG          *float64             `json:"weight_kg"`
	BloodGroup        *string              `json:"blood_group"`
	MedicalConditions *string              `json:"medical_conditions"`
	EmergencyContact  *string              `json:"emergency_contact"`
	PhotoURL          *string              `json:"photo_url"`
	Bio               *string              `json:"bio"`
	Events            []model.AthleteEvent `json:"events"`
}

// Save creates or fully replaces the profile and its event list.  Fields
// left out of the body are cleared; status is kept.
func (h *AthleteHandler) Save(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid athlete id")
	}
	var req athleteReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	a := &model.Athlete{
		UserID:            id,
		FullName:          cleanStr(req.FullName),
		DateOfBirth:       cleanStr(req.DateOfBirth),
		Gender:            cleanStr(req.Gender),
		Category:          cleanStr(req.Category),
		Club:              cleanStr(req.Club),
		District:          cleanStr(req.District),
		HeightCM:          req.HeightCM,
		WeightKG:          req.WeightKG,
		BloodGroup:        cleanStr(req.BloodGroup),
		MedicalConditions: cleanStr(req.MedicalConditions),
		EmergencyContact:  cleanStr(req.EmergencyContact),
		PhotoURL:          cleanStr(req.PhotoURL),
		Bio:               cleanStr(req.Bio),
	}
	if !validDate(a.DateOfBirth) {
		return badRequest(c, "date_of_birth must be YYYY-MM-DD")
	}
	for _, e := range req.Events {
		if strings.TrimSpace(e.EventName) == "" {
			continue
		}
		e.PersonalBest, e.PBDate, e.Notes = cleanStr(e.PersonalBest), cleanStr(e.PBDate), cleanStr(e.Notes)
		if !validDate(e.PBDate) {
			return badRequest(c, "pb_date must be YYYY-MM-DD")
		}
		a.Events = append(a.Events, e)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Athletes.Save(ctx, a); err != nil {
		return fail(c, h.Log, err)
	}
	saved, err := h.Athletes.GetByID(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// Search lists athletes for coaches and the federation.
func (h *AthleteHandler) Search(c echo.Context) error {
	f := repository.AthleteFilter{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Event:    strings.TrimSpace(c.QueryParam("event")),
		Status:   strings.TrimSpace(c.QueryParam("status")),
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Athletes.List(ctx, f)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// MySquads lists the squads the athlete is in, with coach names.
func (h *AthleteHandler) MySquads(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid athlete id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Squads.ForAthlete(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

type achievementReq struct {
	EventName  string  `json:"event_name"`
	MeetName   *string `json:"meet_name"`
	Place      *string `json:"place"`
	ProofURL   *string `json:"proof_url"`
	AchievedOn *string `json:"achieved_on"`
}

func (h *AthleteHandler) AddAchievement(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid athlete id")
	}
	var req achievementReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	a := &model.Achievement{
		AthleteID:  id,
		EventName:  strings.TrimSpace(req.EventName),
		MeetName:   cleanStr(req.MeetName),
		Place:      cleanStr(req.Place),
		ProofURL:   cleanStr(req.ProofURL),
		AchievedOn: cleanStr(req.AchievedOn),
	}
	if a.EventName == "" {
		return badRequest(c, "event_name is required")
	}
	if !validDate(a.AchievedOn) {
		return badRequest(c, "achieved_on must be YYYY-MM-DD")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Achievements.Create(ctx, a); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AthleteHandler) DeleteAchievement(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	achID, ok2 := parseID(c, "achId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Achievements.Delete(ctx, id, achID); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": achID})
}

type verifyReq struct {
	Notes *string `json:"notes"`
}

// VerifyAchievement records the caller as verifier.  Repeating it replaces
// the verifier metadata.
func (h *AthleteHandler) VerifyAchievement(c echo.Context) error {
	id, ok1 := parseID(c, "id")
	achID, ok2 := parseID(c, "achId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	verifier, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req verifyReq
	_ = c.Bind(&req)

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Achievements.Verify(ctx, id, achID, verifier, cleanStr(req.Notes)); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": achID, "verified": true, "verified_by": verifier})
}

type performanceReq struct {
	EventName  string     `json:"event_name"`
	Result     string     `json:"result"`
	RecordedAt *time.Time `json:"recorded_at"`
}

func (h *AthleteHandler) AddPerformance(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid athlete id")
	}
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	p := &model.Performance{
		AthleteID: id,
		EventName: strings.TrimSpace(req.EventName),
		Result:    strings.TrimSpace(req.Result),
	}
	if p.EventName == "" || p.Result == "" {
		return badRequest(c, "event_name and result are required")
	}
	if req.RecordedAt != nil {
		p.RecordedAt = req.RecordedAt.UTC()
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Performances.Add(ctx, p); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPerformances returns the samples newest first.
func (h *AthleteHandler) ListPerformances(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid athlete id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Performances.List(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}
