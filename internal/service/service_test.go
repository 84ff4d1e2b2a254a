package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talent-hub/internal/logger"
	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/queue"
	"github.com/iliyamo/talent-hub/internal/repository"
)

// memStore mimics SquadRepo over maps, including the (coach, athlete)
// uniqueness of memberships.
type memStore struct {
	nextID  uint64
	squads  map[uint64]model.Squad
	members map[[2]uint64]uint64 // (coach, athlete) -> squad
}

func newMemStore() *memStore {
	return &memStore{squads: map[uint64]model.Squad{}, members: map[[2]uint64]uint64{}}
}

func (m *memStore) Create(_ context.Context, coachID uint64, name string, plan *string) (*model.Squad, error) {
	m.nextID++
	s := model.Squad{ID: m.nextID, CoachID: coachID, Name: name, WorkoutPlan: plan}
	m.squads[s.ID] = s
	return &s, nil
}

func (m *memStore) NameTaken(_ context.Context, coachID uint64, name string, excludeID uint64) (bool, error) {
	for _, s := range m.squads {
		if s.CoachID == coachID && s.ID != excludeID && strings.EqualFold(s.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListByCoach(_ context.Context, coachID uint64) ([]model.Squad, error) {
	var out []model.Squad
	for _, s := range m.squads {
		if s.CoachID == coachID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) Memberships(_ context.Context, coachID uint64) ([]model.Membership, error) {
	var out []model.Membership
	for k, sid := range m.members {
		if k[0] == coachID {
			out = append(out, model.Membership{CoachID: k[0], AthleteID: k[1], SquadID: sid})
		}
	}
	return out, nil
}

func (m *memStore) Assign(_ context.Context, coachID, squadID, athleteID uint64) error {
	s, ok := m.squads[squadID]
	if !ok || s.CoachID != coachID {
		return repository.ErrSquadNotFound
	}
	m.members[[2]uint64{coachID, athleteID}] = squadID
	return nil
}

func (m *memStore) Unassign(_ context.Context, coachID, squadID, athleteID uint64) error {
	k := [2]uint64{coachID, athleteID}
	if m.members[k] == squadID {
		delete(m.members, k)
	}
	return nil
}

func (m *memStore) Update(_ context.Context, coachID, squadID uint64, p model.SquadPatch) error {
	s, ok := m.squads[squadID]
	if !ok || s.CoachID != coachID {
		return nil
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.WorkoutPlan != nil {
		s.WorkoutPlan = p.WorkoutPlan
	}
	m.squads[squadID] = s
	return nil
}

func (m *memStore) Delete(_ context.Context, coachID, squadID uint64) error {
	s, ok := m.squads[squadID]
	if !ok || s.CoachID != coachID {
		return nil
	}
	for k, sid := range m.members {
		if sid == squadID {
			delete(m.members, k)
		}
	}
	delete(m.squads, squadID)
	return nil
}

type staticPool []model.AthleteSummary

func (p staticPool) List(context.Context, repository.AthleteFilter) ([]model.AthleteSummary, error) {
	return p, nil
}

func athlete(id uint64, name string) model.AthleteSummary {
	return model.AthleteSummary{UserID: id, FullName: &name, Status: model.StatusApproved}
}

func ids(list []model.AthleteSummary) []uint64 {
	out := []uint64{}
	for _, a := range list {
		out = append(out, a.UserID)
	}
	return out
}

func TestReassignLeavesAthleteInOneSquad(t *testing.T) {
	ctx := context.Background()
	pool := staticPool{athlete(1, "Alice"), athlete(2, "Bea")}
	svc := NewSquadService(newMemStore(), pool, false)

	a, err := svc.CreateSquad(ctx, 7, "Sprint", nil)
	require.NoError(t, err)
	b, err := svc.CreateSquad(ctx, 7, "Distance", nil)
	require.NoError(t, err)

	require.NoError(t, svc.AssignAthlete(ctx, 7, a.ID, 1))
	require.NoError(t, svc.AssignAthlete(ctx, 7, b.ID, 1))

	r, err := svc.Roster(ctx, 7)
	require.NoError(t, err)
	require.Len(t, r.Squads, 2)
	assert.Equal(t, "Distance", r.Squads[0].Name)
	assert.Equal(t, []uint64{1}, ids(r.Squads[0].Athletes))
	assert.Empty(t, r.Squads[1].Athletes)
	assert.Equal(t, []uint64{2}, ids(r.Unassigned))
}

func TestDeleteSquadReturnsAthletesToUnassigned(t *testing.T) {
	ctx := context.Background()
	pool := staticPool{athlete(1, "Alice"), athlete(2, "Bea"), athlete(3, "Cleo")}
	svc := NewSquadService(newMemStore(), pool, false)

	sq, _ := svc.CreateSquad(ctx, 7, "Sprint", nil)
	require.NoError(t, svc.AssignAthlete(ctx, 7, sq.ID, 1))
	require.NoError(t, svc.AssignAthlete(ctx, 7, sq.ID, 3))
	require.NoError(t, svc.DeleteSquad(ctx, 7, sq.ID))

	r, err := svc.Roster(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, r.Squads)
	assert.Equal(t, []uint64{1, 2, 3}, ids(r.Unassigned))
}

func TestAssignToOtherCoachSquad(t *testing.T) {
	ctx := context.Background()
	svc := NewSquadService(newMemStore(), staticPool{}, false)
	sq, _ := svc.CreateSquad(ctx, 7, "Sprint", nil)

	err := svc.AssignAthlete(ctx, 8, sq.ID, 1)
	assert.ErrorIs(t, err, repository.ErrSquadNotFound)
}

func TestSquadNameRules(t *testing.T) {
	ctx := context.Background()

	svc := NewSquadService(newMemStore(), staticPool{}, false)
	_, err := svc.CreateSquad(ctx, 7, "   ", nil)
	assert.ErrorIs(t, err, ErrSquadNameRequired)
	_, err = svc.CreateSquad(ctx, 7, "Sprint", nil)
	require.NoError(t, err)
	_, err = svc.CreateSquad(ctx, 7, "sprint", nil)
	assert.NoError(t, err, "duplicates allowed when the rule is off")

	strict := NewSquadService(newMemStore(), staticPool{}, true)
	first, err := strict.CreateSquad(ctx, 7, "Sprint", nil)
	require.NoError(t, err)
	_, err = strict.CreateSquad(ctx, 7, " SPRINT ", nil)
	assert.ErrorIs(t, err, ErrSquadNameTaken)
	_, err = strict.CreateSquad(ctx, 8, "Sprint", nil)
	assert.NoError(t, err, "other coaches may reuse the name")

	second, err := strict.CreateSquad(ctx, 7, "Relay", nil)
	require.NoError(t, err)
	name := "sprint"
	assert.ErrorIs(t, strict.UpdateSquad(ctx, 7, second.ID, model.SquadPatch{Name: &name}), ErrSquadNameTaken)
	assert.NoError(t, strict.UpdateSquad(ctx, 7, first.ID, model.SquadPatch{Name: &name}), "renaming to itself")
}

func TestUpdateSquadEmptyPatchIsNoop(t *testing.T) {
	svc := NewSquadService(newMemStore(), staticPool{}, true)
	assert.NoError(t, svc.UpdateSquad(context.Background(), 7, 99, model.SquadPatch{}))
}

func TestBuildRosterOrdering(t *testing.T) {
	plan := "tempo"
	squads := []model.Squad{
		{ID: 4, Name: "beta"},
		{ID: 2, Name: "Alpha", WorkoutPlan: &plan},
		{ID: 3, Name: "alpha"},
	}
	pool := []model.AthleteSummary{athlete(9, "zed"), athlete(5, "Amy"), athlete(6, "amy"), {UserID: 1}}
	members := []model.Membership{
		{SquadID: 2, AthleteID: 9},
		{SquadID: 2, AthleteID: 5},
		{SquadID: 77, AthleteID: 6}, // unknown squad
		{SquadID: 4, AthleteID: 404},
	}

	r := BuildRoster(pool, squads, members)
	require.Len(t, r.Squads, 3)
	assert.Equal(t, []uint64{2, 3, 4}, []uint64{r.Squads[0].ID, r.Squads[1].ID, r.Squads[2].ID})
	assert.Equal(t, []uint64{5, 9}, ids(r.Squads[0].Athletes))
	assert.Equal(t, &plan, r.Squads[0].WorkoutPlan)
	assert.Empty(t, r.Squads[2].Athletes)
	assert.Equal(t, []uint64{1, 6}, ids(r.Unassigned))
}

type fakeCandidates map[string][]repository.EventCandidate

func (f fakeCandidates) CandidatesByCategory(_ context.Context, category string) ([]repository.EventCandidate, error) {
	return f[category], nil
}

type recordingWriter struct {
	calls [][]uint64
	title string
	err   error
}

func (w *recordingWriter) CreateMany(_ context.Context, userIDs []uint64, title, _ string) error {
	w.calls = append(w.calls, userIDs)
	w.title = title
	return w.err
}

func TestMatchAthletesOncePerAthlete(t *testing.T) {
	candidates := []repository.EventCandidate{
		{AthleteID: 1, EventName: "100m"},
		{AthleteID: 1, EventName: "Sprint"},
		{AthleteID: 2, EventName: "Long Jump"},
		{AthleteID: 3, EventName: "  "},
	}
	got := MatchAthletes("U20 100m Sprint Trials", "", candidates)
	assert.Equal(t, []uint64{1}, got)

	got = MatchAthletes("Open meet", "includes long jump finals", candidates)
	assert.Equal(t, []uint64{2}, got)
}

func TestDirectNotifierSingleNotification(t *testing.T) {
	w := &recordingWriter{}
	n := &DirectNotifier{
		Candidates: fakeCandidates{"U20": {{AthleteID: 5, EventName: "100m"}, {AthleteID: 5, EventName: "100M"}}},
		Writer:     w,
		Log:        logger.Discard(),
	}
	cat := "U20"
	n.EventCreated(context.Background(), model.Event{ID: 1, Title: "National 100m Final", Category: &cat, EventDate: "2025-06-01"})

	require.Len(t, w.calls, 1)
	assert.Equal(t, []uint64{5}, w.calls[0])
	assert.Equal(t, "New event: National 100m Final", w.title)
}

func TestDirectNotifierCategoryMismatch(t *testing.T) {
	w := &recordingWriter{}
	n := &DirectNotifier{
		Candidates: fakeCandidates{"U20": {{AthleteID: 5, EventName: "100m"}}},
		Writer:     w,
		Log:        logger.Discard(),
	}
	cat := "Senior"
	n.EventCreated(context.Background(), model.Event{ID: 1, Title: "100m", Category: &cat})
	assert.Empty(t, w.calls)

	n.EventCreated(context.Background(), model.Event{ID: 2, Title: "100m"})
	assert.Empty(t, w.calls)
}

func TestDirectNotifierSwallowsErrors(t *testing.T) {
	w := &recordingWriter{err: errors.New("db down")}
	n := &DirectNotifier{Candidates: fakeCandidates{"U20": {{AthleteID: 5, EventName: "100m"}}}, Writer: w, Log: logger.Discard()}
	cat := "U20"
	assert.NotPanics(t, func() {
		n.EventCreated(context.Background(), model.Event{ID: 1, Title: "100m", Category: &cat})
	})
	assert.Error(t, n.Notify(context.Background(), queue.EventCreated{EventID: 1, Title: "100m", Category: "U20"}))
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, queue.EventCreated) error {
	p.calls++
	return errors.New("broker unreachable")
}

func TestBrokerNotifierFallsBack(t *testing.T) {
	w := &recordingWriter{}
	pub := &failingPublisher{}
	n := &BrokerNotifier{
		Publisher: pub,
		Direct:    &DirectNotifier{Candidates: fakeCandidates{"U20": {{AthleteID: 5, EventName: "100m"}}}, Writer: w, Log: logger.Discard()},
		Log:       logger.Discard(),
	}
	cat := "U20"
	n.EventCreated(context.Background(), model.Event{ID: 1, Title: "100m dash", Category: &cat})

	assert.Equal(t, 1, pub.calls)
	require.Len(t, w.calls, 1)
	assert.Equal(t, []uint64{5}, w.calls[0])
}
