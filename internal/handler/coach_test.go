package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talent-hub/internal/logger"
	"github.com/iliyamo/talent-hub/internal/repository"
	"github.com/iliyamo/talent-hub/internal/service"
)

var (
	summaryCols = []string{"user_id", "full_name", "category", "club", "photo_url", "status"}
	squadCols   = []string{"id", "coach_id", "name", "workout_plan", "created_at", "updated_at"}
	memberCols  = []string{"coach_id", "squad_id", "athlete_id"}
)

func newCoachAPI(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMock(t)
	squads := repository.NewSquadRepo(db)
	h := &CoachHandler{
		Coaches:   repository.NewCoachRepo(db),
		Squads:    service.NewSquadService(squads, repository.NewAthleteRepo(db), false),
		Favorites: repository.NewFavoriteRepo(db),
		Notes:     repository.NewCoachNoteRepo(db),
		Log:       logger.Discard(),
	}
	e := echo.New()
	e.POST("/api/coach/:id", h.Save)
	e.POST("/api/coach/:id/squad", h.CreateSquad)
	e.POST("/api/coach/:id/squad/:squadId/assign", h.Assign)
	e.DELETE("/api/coach/:id/squad/:squadId", h.DeleteSquad)
	e.GET("/api/coach/:id/note/:athleteId", h.Note)
	return e, mock
}

func expectRoster(mock sqlmock.Sqlmock, members *sqlmock.Rows) {
	now := time.Now()
	mock.ExpectQuery("FROM athletes a WHERE 1=1").
		WillReturnRows(sqlmock.NewRows(summaryCols).
			AddRow(21, "Bimal", "U20", nil, nil, "approved").
			AddRow(22, "Amaya", "U20", nil, nil, "approved"))
	mock.ExpectQuery("FROM squads WHERE coach_id = \\?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(squadCols).
			AddRow(3, 7, "Sprint", nil, now, now).
			AddRow(4, 7, "Relay", nil, now, now))
	mock.ExpectQuery("FROM squad_members WHERE coach_id = \\?").
		WithArgs(7).
		WillReturnRows(members)
}

func TestAssignReturnsRoster(t *testing.T) {
	e, mock := newCoachAPI(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM squads WHERE id = \\? AND coach_id = \\? FOR UPDATE").
		WithArgs(4, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("INSERT INTO squad_members").
		WithArgs(7, 4, 21).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	expectRoster(mock, sqlmock.NewRows(memberCols).AddRow(7, 4, 21))

	rec := doJSON(e, http.MethodPost, "/api/coach/7/squad/4/assign", `{"athlete_id":21}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Roster service.Roster `json:"roster"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Roster.Squads, 2)
	assert.Equal(t, "Relay", out.Roster.Squads[0].Name)
	require.Len(t, out.Roster.Squads[0].Athletes, 1)
	assert.Equal(t, uint64(21), out.Roster.Squads[0].Athletes[0].UserID)
	assert.Empty(t, out.Roster.Squads[1].Athletes)
	require.Len(t, out.Roster.Unassigned, 1)
	assert.Equal(t, uint64(22), out.Roster.Unassigned[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignToForeignSquadIsNotFound(t *testing.T) {
	e, mock := newCoachAPI(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(9, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	rec := doJSON(e, http.MethodPost, "/api/coach/7/squad/9/assign", `{"athlete_id":21}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"squad not found"}`, rec.Body.String())
}

func TestAssignRequiresAthlete(t *testing.T) {
	e, _ := newCoachAPI(t)
	rec := doJSON(e, http.MethodPost, "/api/coach/7/squad/4/assign", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSquadUnassignsMembers(t *testing.T) {
	e, mock := newCoachAPI(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM squad_members").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM squads").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectRoster(mock, sqlmock.NewRows(memberCols))

	rec := doJSON(e, http.MethodDelete, "/api/coach/7/squad/4", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Roster service.Roster `json:"roster"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Roster.Unassigned, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSquadWithoutProfile(t *testing.T) {
	e, mock := newCoachAPI(t)
	mock.ExpectExec("INSERT INTO squads").WillReturnError(fkError("fk_squads_coach"))

	rec := doJSON(e, http.MethodPost, "/api/coach/7/squad", `{"name":"Sprint"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSquadNeedsName(t *testing.T) {
	e, _ := newCoachAPI(t)
	rec := doJSON(e, http.MethodPost, "/api/coach/7/squad", `{"name":"  "}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingNoteIsNotFound(t *testing.T) {
	e, mock := newCoachAPI(t)
	mock.ExpectQuery("FROM coach_notes").
		WithArgs(7, 21).
		WillReturnRows(sqlmock.NewRows([]string{"note", "updated_at"}))

	rec := doJSON(e, http.MethodGet, "/api/coach/7/note/21", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveCoachProfileOnAthleteAccount(t *testing.T) {
	e, mock := newCoachAPI(t)
	mock.ExpectQuery("SELECT role FROM users WHERE id = \\?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("athlete"))

	rec := doJSON(e, http.MethodPost, "/api/coach/5", `{"full_name":"Nimal"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"user role does not match profile type"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
