package service

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/repository"
)

var (
	ErrSquadNameRequired = errors.New("squad name is required")
	ErrSquadNameTaken    = errors.New("squad name already used")
)

var squadMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "talenthub_squad_mutations_total",
	Help: "Squad mutations by operation and outcome.",
}, []string{"op", "outcome"})

// SquadStore is the persistence the squad service needs.
// *repository.SquadRepo satisfies it.
type SquadStore interface {
	Create(ctx context.Context, coachID uint64, name string, plan *string) (*model.Squad, error)
	NameTaken(ctx context.Context, coachID uint64, name string, excludeID uint64) (bool, error)
	ListByCoach(ctx context.Context, coachID uint64) ([]model.Squad, error)
	Memberships(ctx context.Context, coachID uint64) ([]model.Membership, error)
	Assign(ctx context.Context, coachID, squadID, athleteID uint64) error
	Unassign(ctx context.Context, coachID, squadID, athleteID uint64) error
	Update(ctx context.Context, coachID, squadID uint64, p model.SquadPatch) error
	Delete(ctx context.Context, coachID, squadID uint64) error
}

// AthletePool lists the athletes a roster is built from.
type AthletePool interface {
	List(ctx context.Context, f repository.AthleteFilter) ([]model.AthleteSummary, error)
}

// SquadService keeps a coach's roster partitioned: each athlete is either
// unassigned or in exactly one of the coach's squads.
type SquadService struct {
	store       SquadStore
	athletes    AthletePool
	uniqueNames bool
}

// NewSquadService wires the service.  When uniqueNames is set a coach cannot
// hold two squads whose trimmed names match case-insensitively.
func NewSquadService(store SquadStore, athletes AthletePool, uniqueNames bool) *SquadService {
	return &SquadService{store: store, athletes: athletes, uniqueNames: uniqueNames}
}

func (s *SquadService) CreateSquad(ctx context.Context, coachID uint64, name string, plan *string) (*model.Squad, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSquadNameRequired
	}
	if err := s.checkName(ctx, coachID, name, 0); err != nil {
		return nil, err
	}
	sq, err := s.store.Create(ctx, coachID, name, plan)
	count("create", err)
	return sq, err
}

func (s *SquadService) AssignAthlete(ctx context.Context, coachID, squadID, athleteID uint64) error {
	err := s.store.Assign(ctx, coachID, squadID, athleteID)
	count("assign", err)
	return err
}

func (s *SquadService) UnassignAthlete(ctx context.Context, coachID, squadID, athleteID uint64) error {
	err := s.store.Unassign(ctx, coachID, squadID, athleteID)
	count("unassign", err)
	return err
}

// UpdateSquad applies a partial update.  An empty patch succeeds without
// touching the store.
func (s *SquadService) UpdateSquad(ctx context.Context, coachID, squadID uint64, p model.SquadPatch) error {
	if p.Empty() {
		return nil
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrSquadNameRequired
		}
		if err := s.checkName(ctx, coachID, name, squadID); err != nil {
			return err
		}
		p.Name = &name
	}
	err := s.store.Update(ctx, coachID, squadID, p)
	count("update", err)
	return err
}

func (s *SquadService) DeleteSquad(ctx context.Context, coachID, squadID uint64) error {
	err := s.store.Delete(ctx, coachID, squadID)
	count("delete", err)
	return err
}

// Squads lists the coach's squads without members.
func (s *SquadService) Squads(ctx context.Context, coachID uint64) ([]model.Squad, error) {
	return s.store.ListByCoach(ctx, coachID)
}

// Roster rebuilds the coach's roster from the database.  The pool is every
// athlete profile.
func (s *SquadService) Roster(ctx context.Context, coachID uint64) (Roster, error) {
	pool, err := s.athletes.List(ctx, repository.AthleteFilter{})
	if err != nil {
		return Roster{}, err
	}
	squads, err := s.store.ListByCoach(ctx, coachID)
	if err != nil {
		return Roster{}, err
	}
	members, err := s.store.Memberships(ctx, coachID)
	if err != nil {
		return Roster{}, err
	}
	return BuildRoster(pool, squads, members), nil
}

func (s *SquadService) checkName(ctx context.Context, coachID uint64, name string, excludeID uint64) error {
	if !s.uniqueNames {
		return nil
	}
	taken, err := s.store.NameTaken(ctx, coachID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSquadNameTaken
	}
	return nil
}

func count(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	squadMutations.WithLabelValues(op, outcome).Inc()
}
