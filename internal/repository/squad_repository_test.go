package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talent-hub/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func fkError(constraint string) error {
	return &mysql.MySQLError{
		Number:  1452,
		Message: "Cannot add or update a child row: a foreign key constraint fails (`hub`.`x`, CONSTRAINT `" + constraint + "` FOREIGN KEY ...)",
	}
}

func dupError(key string) error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key '" + key + "'"}
}

func TestSquadCreateWithoutCoachProfile(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO squads").
		WithArgs(7, "Sprinters", nil).
		WillReturnError(fkError("fk_squads_coach"))

	_, err := NewSquadRepo(db).Create(context.Background(), 7, "Sprinters", nil)
	assert.ErrorIs(t, err, ErrCoachProfileMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadCreate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO squads").
		WithArgs(7, "Sprinters", "3x200m").
		WillReturnResult(sqlmock.NewResult(12, 1))

	plan := "3x200m"
	s, err := NewSquadRepo(db).Create(context.Background(), 7, "Sprinters", &plan)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), s.ID)
	assert.Equal(t, uint64(7), s.CoachID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadAssignUpsertsMembership(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM squads WHERE id = ? AND coach_id = ? FOR UPDATE")).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE squad_id = VALUES(squad_id)")).
		WithArgs(7, 3, 42).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, NewSquadRepo(db).Assign(context.Background(), 7, 3, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadAssignForeignSquad(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM squads").
		WithArgs(3, 8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := NewSquadRepo(db).Assign(context.Background(), 8, 3, 42)
	assert.ErrorIs(t, err, ErrSquadNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadAssignUnknownAthlete(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM squads").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("INSERT INTO squad_members").
		WillReturnError(fkError("fk_squad_members_athlete"))
	mock.ExpectRollback()

	err := NewSquadRepo(db).Assign(context.Background(), 7, 3, 999)
	assert.ErrorIs(t, err, ErrAthleteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadDeleteRemovesMembershipsFirst(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM squad_members").WithArgs(3, 7).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM squads").WithArgs(3, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSquadRepo(db).Delete(context.Background(), 7, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadDeleteRollsBack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM squad_members").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM squads").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	assert.Error(t, NewSquadRepo(db).Delete(context.Background(), 7, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadUpdatePartial(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE squads SET workout_plan = ? WHERE id = ? AND coach_id = ?")).
		WithArgs("rest day", 3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	plan := "rest day"
	err := NewSquadRepo(db).Update(context.Background(), 7, 3, model.SquadPatch{WorkoutPlan: &plan})
	require.NoError(t, err)

	// empty patch issues no statement
	require.NoError(t, NewSquadRepo(db).Update(context.Background(), 7, 3, model.SquadPatch{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadNameTakenNormalizes(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(7, "sprinters", 0).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	taken, err := NewSquadRepo(db).NameTaken(context.Background(), 7, "  Sprinters ", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}
