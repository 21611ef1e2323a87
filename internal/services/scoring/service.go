package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/racetime"
)

// Service ranks runners and scores teams at a checkpoint
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Standings ranks every runner with a valid time at checkpoint and scores the teams
func (s *Service) Standings(session model.Session, checkpoint string) (model.Standings, error) {
	if !session.Unit.IsCheckpoint(checkpoint) {
		return model.Standings{}, fmt.Errorf("%w: %q", model.ErrInvalidCheckpoint, checkpoint)
	}

	placings := s.rankRunners(session, checkpoint)
	teams := s.scoreTeams(session, placings)

	return model.Standings{
		Checkpoint: checkpoint,
		Runners:    placings,
		Teams:      teams,
	}, nil
}

// rankRunners orders the checkpoint's times fastest first. Equal times keep
// capture order.
func (s *Service) rankRunners(session model.Session, checkpoint string) []model.Placing {
	type timed struct {
		entry   model.TimeEntry
		runner  *model.Runner
		seconds int
	}

	var entries []timed
	for _, entry := range session.Times {
		if entry.Checkpoint != checkpoint {
			continue
		}
		runner := session.GetRunner(entry.RunnerID)
		if runner == nil {
			continue
		}
		seconds, err := racetime.ParseElapsed(entry.Time)
		if err != nil {
			continue
		}
		entries = append(entries, timed{entry: entry, runner: runner, seconds: seconds})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].seconds != entries[j].seconds {
			return entries[i].seconds < entries[j].seconds
		}
		return entries[i].entry.Timestamp < entries[j].entry.Timestamp
	})

	placings := make([]model.Placing, 0, len(entries))
	for i, e := range entries {
		placings = append(placings, model.Placing{
			Place:      i + 1,
			RunnerID:   e.runner.ID,
			RunnerName: e.runner.Name,
			TeamID:     e.runner.TeamID,
			Time:       e.entry.Time,
			Seconds:    e.seconds,
		})
	}
	return placings
}

// scoreTeams assigns team places (in place) and returns the team results,
// scored teams first
func (s *Service) scoreTeams(session model.Session, placings []model.Placing) []model.TeamScore {
	counts := lo.CountValuesBy(placings, func(p model.Placing) string { return p.TeamID })
	complete := func(teamID string) bool {
		return teamID != "" && session.GetTeam(teamID) != nil && counts[teamID] >= model.ScoringRunners
	}

	scores := make(map[string]*model.TeamScore, len(session.Teams))
	for _, team := range session.Teams {
		scores[team.ID] = &model.TeamScore{
			TeamID:     team.ID,
			TeamName:   team.Name,
			Complete:   complete(team.ID),
			Scorers:    []int{},
			Displacers: []int{},
		}
	}

	// Only runners of complete teams take team places, and only a team's
	// first ScoringRunners+DisplacingRunners count
	teamPlace := 0
	for i := range placings {
		score, ok := scores[placings[i].TeamID]
		if !ok || !score.Complete {
			continue
		}
		if len(score.Scorers)+len(score.Displacers) >= model.ScoringRunners+model.DisplacingRunners {
			continue
		}
		teamPlace++
		placings[i].TeamPlace = teamPlace
		if len(score.Scorers) < model.ScoringRunners {
			score.Scorers = append(score.Scorers, teamPlace)
			score.Score += teamPlace
		} else {
			score.Displacers = append(score.Displacers, teamPlace)
		}
	}

	result := make([]model.TeamScore, 0, len(scores))
	for _, team := range session.Teams {
		result = append(result, *scores[team.ID])
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Complete != b.Complete {
			return a.Complete
		}
		if !a.Complete {
			return false
		}
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return sixthRunner(a) < sixthRunner(b)
	})
	return result
}

// sixthRunner breaks ties between equal team scores
func sixthRunner(t model.TeamScore) int {
	if len(t.Displacers) == 0 {
		return math.MaxInt
	}
	return t.Displacers[0]
}

// ServiceInterface is implemented by Service
type ServiceInterface interface {
	Standings(session model.Session, checkpoint string) (model.Standings, error)
}

var _ ServiceInterface = (*Service)(nil)
