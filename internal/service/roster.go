// Package service holds the domain logic that sits between handlers and
// repositories: squad assignment, the roster projection and event
// notifications.
package service

import (
	"sort"
	"strings"

	"github.com/iliyamo/talent-hub/internal/model"
)

// RosterSquad is one squad pool of a roster.
type RosterSquad struct {
	ID          uint64                 `json:"id"`
	Name        string                 `json:"name"`
	WorkoutPlan *string                `json:"workout_plan"`
	Athletes    []model.AthleteSummary `json:"athletes"`
}

// Roster partitions the athlete pool for one coach.  Every athlete appears
// exactly once: either in Unassigned or in the single squad holding them.
type Roster struct {
	Unassigned []model.AthleteSummary `json:"unassigned"`
	Squads     []RosterSquad          `json:"squads"`
}

// BuildRoster derives the roster from server state.  Memberships pointing at
// squads outside the list, or at athletes outside the pool, are ignored;
// such athletes stay unassigned.  Squads sort by name then ID and athletes
// by full name then ID.
func BuildRoster(pool []model.AthleteSummary, squads []model.Squad, members []model.Membership) Roster {
	index := make(map[uint64]int, len(squads))
	out := Roster{
		Unassigned: []model.AthleteSummary{},
		Squads:     make([]RosterSquad, len(squads)),
	}
	for i, s := range squads {
		index[s.ID] = i
		out.Squads[i] = RosterSquad{ID: s.ID, Name: s.Name, WorkoutPlan: s.WorkoutPlan, Athletes: []model.AthleteSummary{}}
	}

	squadOf := make(map[uint64]uint64, len(members))
	for _, m := range members {
		if _, ok := index[m.SquadID]; ok {
			squadOf[m.AthleteID] = m.SquadID
		}
	}

	for _, a := range pool {
		sid, ok := squadOf[a.UserID]
		if !ok {
			out.Unassigned = append(out.Unassigned, a)
			continue
		}
		i := index[sid]
		out.Squads[i].Athletes = append(out.Squads[i].Athletes, a)
	}

	sortAthletes(out.Unassigned)
	for i := range out.Squads {
		sortAthletes(out.Squads[i].Athletes)
	}
	sort.SliceStable(out.Squads, func(i, j int) bool {
		a, b := out.Squads[i], out.Squads[j]
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return out
}

func sortAthletes(list []model.AthleteSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].DisplayName()), strings.ToLower(list[j].DisplayName())
		if a != b {
			return a < b
		}
		return list[i].UserID < list[j].UserID
	})
}
