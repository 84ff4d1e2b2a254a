package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talent-hub/internal/config"
	"github.com/iliyamo/talent-hub/internal/logger"
	"github.com/iliyamo/talent-hub/internal/middleware"
	"github.com/iliyamo/talent-hub/internal/repository"
	"github.com/iliyamo/talent-hub/internal/utils"
)

const testSecret = "test-secret"

var userCols = []string{"id", "email", "phone", "username", "password_hash", "role", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func dupError(key string) error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key '" + key + "'"}
}

func fkError(constraint string) error {
	return &mysql.MySQLError{
		Number:  1452,
		Message: "Cannot add or update a child row: a foreign key constraint fails (CONSTRAINT `" + constraint + "` FOREIGN KEY ...)",
	}
}

func doJSON(e *echo.Echo, method, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, id uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, id, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func newAuthAPI(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMock(t)
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: 4}
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db), logger.Discard())

	e := echo.New()
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)
	e.POST("/api/auth/logout", h.Logout)
	e.GET("/api/auth/me", h.Me, middleware.JWTAuth(testSecret))
	return e, mock
}

func TestAliceRegistersAndLogsIn(t *testing.T) {
	e, mock := newAuthAPI(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(nil, "771234567", "alice", sqlmock.AnyArg(), "athlete").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(11, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"secret1","phone":"0771234567","role":"athlete"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.Equal(t, "771234567", reg.User.Phone)
	assert.NotEmpty(t, reg.Token)
	assert.NotEmpty(t, reg.RefreshToken)

	hash, err := utils.HashPassword("secret1", 4)
	require.NoError(t, err)
	aliceRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(userCols).AddRow(11, nil, "771234567", "alice", hash, "athlete", time.Now())
	}

	for _, ident := range []string{"alice", "771234567"} {
		mock.ExpectQuery("FROM users WHERE email = \\? OR username = \\? OR phone = \\?").
			WithArgs(ident, ident, ident, ident, ident).
			WillReturnRows(aliceRow())
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(11, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		rec := doJSON(e, http.MethodPost, "/api/auth/login",
			`{"identifier":"`+ident+`","password":"secret1"}`, "")
		assert.Equal(t, http.StatusOK, rec.Code, ident)
	}

	mock.ExpectQuery("FROM users").
		WithArgs("alice", "alice", "alice", "alice", "alice").
		WillReturnRows(aliceRow())
	rec = doJSON(e, http.MethodPost, "/api/auth/login", `{"identifier":"alice","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRoleMismatchIsInvalidCredentials(t *testing.T) {
	e, mock := newAuthAPI(t)
	hash, err := utils.HashPassword("secret1", 4)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(11, nil, "771234567", "alice", hash, "athlete", time.Now()))

	rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"identifier":"alice","password":"secret1","role":"coach"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
}

func TestLoginUnknownUser(t *testing.T) {
	e, mock := newAuthAPI(t)
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(userCols))

	rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"ghost","password":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e, _ := newAuthAPI(t)
	cases := map[string]string{
		"missing phone":   `{"username":"alice","password":"pw","role":"athlete"}`,
		"phone no digits": `{"username":"alice","password":"pw","phone":"abc","role":"athlete"}`,
		"phone too short": `{"username":"alice","password":"pw","phone":"1","role":"athlete"}`,
		"bad role":        `{"username":"alice","password":"pw","phone":"0771234567","role":"admin"}`,
		"federation":      `{"username":"alice","password":"pw","phone":"0771234567","role":"federation"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, doJSON(e, http.MethodPost, "/api/auth/register", body, "").Code)
		})
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	e, mock := newAuthAPI(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(dupError("users.uq_users_phone"))

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"username":"alice2","password":"pw","phone":"0771234567","role":"coach"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"phone already registered"}`, rec.Body.String())
}

func TestLogoutWithBearerRevokesAll(t *testing.T) {
	e, mock := newAuthAPI(t)
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at = NOW\\(\\) WHERE user_id = \\?").
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 2))

	rec := doJSON(e, http.MethodPost, "/api/auth/logout", `{}`, bearer(t, 11, "athlete"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMe(t *testing.T) {
	e, _ := newAuthAPI(t)
	rec := doJSON(e, http.MethodGet, "/api/auth/me", "", bearer(t, 11, "coach"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":11,"role":"coach"}`, rec.Body.String())
}
