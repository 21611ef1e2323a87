package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/xctimer/internal/dependencies/clock"
	"github.com/mcoot/xctimer/internal/dependencies/random"
	"github.com/mcoot/xctimer/internal/model"
)

// Persister loads and saves the active session.
// Load returns nil when nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
}

// Metrics receives store activity counts
type Metrics interface {
	ObserveMutation(op string)
	ObservePersistFailure()
	ObserveLoadFailure()
}

// Observer is notified with a copy of the session after every change
type Observer func(model.Session)

type subscription struct {
	id int
	fn Observer
}

// Store owns the single active timing session.
//
// Every operation computes a new session from the current one, installs it,
// writes it through the Persister and then notifies observers in subscription
// order, all before returning. Operations are serialized; observers run while
// the store is locked and must not call back into it.
type Store struct {
	mu        sync.Mutex
	current   model.Session
	persister Persister
	clock     clock.Clock
	random    random.Random
	metrics   Metrics
	logger    *slog.Logger

	subscribers []subscription
	nextSubID   int
}

// Open loads the persisted session (or starts a default one) and persists the
// result. A session that cannot be loaded is logged and replaced by a default
// session for this run; the stored document is left untouched until the next change.
func Open(
	ctx context.Context,
	persister Persister,
	clock clock.Clock,
	random random.Random,
	metrics Metrics,
	logger *slog.Logger,
) *Store {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	s := &Store{
		persister: persister,
		clock:     clock,
		random:    random,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "session-store")),
	}

	loaded, err := persister.Load(ctx)
	switch {
	case err != nil:
		s.logger.Error("failed to load session from storage", slog.Any("error", err))
		s.metrics.ObserveLoadFailure()
		s.current = s.newSession()
		return s
	case loaded == nil:
		s.current = s.newSession()
	default:
		s.current = loaded.Clone()
	}

	_ = s.persist(ctx, "load")
	s.logger.Info("session loaded",
		slog.String("session_id", string(s.current.ID)),
		slog.Int("runners", len(s.current.Runners)),
		slog.Int("times", len(s.current.Times)))
	return s
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Checkpoints returns the checkpoint labels for the current unit
func (s *Store) Checkpoints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Checkpoints()
}

// Subscribe registers fn for change notifications and returns a function that removes it
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers = lo.Reject(s.subscribers, func(sub subscription, _ int) bool {
			return sub.id == id
		})
	}
}

// AddTeam appends a new team
func (s *Store) AddTeam(ctx context.Context, name, color string) (model.Team, error) {
	team := model.Team{
		ID:    s.random.NewID(),
		Name:  name,
		Color: color,
	}
	err := s.update(ctx, "add_team", func(next *model.Session) error {
		next.Teams = append(next.Teams, team)
		return nil
	})
	return team, err
}

// RemoveTeam removes a team and unassigns its runners. Unknown IDs are ignored.
func (s *Store) RemoveTeam(ctx context.Context, teamID string) error {
	return s.update(ctx, "remove_team", func(next *model.Session) error {
		next.Teams = lo.Reject(next.Teams, func(t model.Team, _ int) bool {
			return t.ID == teamID
		})
		next.Runners = lo.Map(next.Runners, func(r model.Runner, _ int) model.Runner {
			if r.TeamID == teamID {
				r.TeamID = ""
			}
			return r
		})
		return nil
	})
}

// AddRunner appends a new runner
func (s *Store) AddRunner(ctx context.Context, name string, grade model.Grade, teamID string) (model.Runner, error) {
	if !grade.Valid() {
		return model.Runner{}, fmt.Errorf("%w: %q", model.ErrInvalidGrade, grade)
	}
	runner := model.Runner{
		ID:     s.random.NewID(),
		Name:   name,
		Grade:  grade,
		TeamID: teamID,
	}
	err := s.update(ctx, "add_runner", func(next *model.Session) error {
		next.Runners = append(next.Runners, runner)
		return nil
	})
	return runner, err
}

// RemoveRunner removes a runner together with all of its times. Unknown IDs are ignored.
func (s *Store) RemoveRunner(ctx context.Context, runnerID string) error {
	return s.update(ctx, "remove_runner", func(next *model.Session) error {
		next.Runners = lo.Reject(next.Runners, func(r model.Runner, _ int) bool {
			return r.ID == runnerID
		})
		next.Times = lo.Reject(next.Times, func(t model.TimeEntry, _ int) bool {
			return t.RunnerID == runnerID
		})
		return nil
	})
}

// AddTime records a runner's time at a checkpoint, replacing any earlier
// entry for the same runner and checkpoint. Neither the runner nor the
// checkpoint is checked; see RecordTime.
func (s *Store) AddTime(ctx context.Context, runnerID, checkpoint, time, raceName string) (model.TimeEntry, error) {
	var entry model.TimeEntry
	err := s.update(ctx, "add_time", func(next *model.Session) error {
		entry = s.upsertTime(next, runnerID, checkpoint, time, raceName)
		return nil
	})
	return entry, err
}

// RecordTime is AddTime for untrusted input: the runner must exist and the
// checkpoint must belong to the unit, both checked against the session the
// entry is written into.
func (s *Store) RecordTime(ctx context.Context, runnerID, checkpoint, time, raceName string) (model.TimeEntry, error) {
	var entry model.TimeEntry
	err := s.update(ctx, "add_time", func(next *model.Session) error {
		if next.GetRunner(runnerID) == nil {
			return fmt.Errorf("%w: %q", model.ErrRunnerNotFound, runnerID)
		}
		if !next.Unit.IsCheckpoint(checkpoint) {
			return fmt.Errorf("%w: %q", model.ErrInvalidCheckpoint, checkpoint)
		}
		entry = s.upsertTime(next, runnerID, checkpoint, time, raceName)
		return nil
	})
	return entry, err
}

func (s *Store) upsertTime(next *model.Session, runnerID, checkpoint, time, raceName string) model.TimeEntry {
	entry := model.TimeEntry{
		RunnerID:   runnerID,
		Checkpoint: checkpoint,
		Time:       time,
		Timestamp:  clock.NowMillis(s.clock),
		RaceName:   raceName,
	}
	next.Times = append(lo.Reject(next.Times, func(t model.TimeEntry, _ int) bool {
		return t.RunnerID == runnerID && t.Checkpoint == checkpoint
	}), entry)
	return entry
}

// SetUnit changes the distance unit. Switching units is refused once times
// exist, since their checkpoint labels belong to the old unit.
func (s *Store) SetUnit(ctx context.Context, unit model.Unit) error {
	if !unit.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidUnit, unit)
	}
	return s.update(ctx, "set_unit", func(next *model.Session) error {
		if next.Unit != unit && len(next.Times) > 0 {
			return model.ErrUnitChangeWithTimes
		}
		next.Unit = unit
		return nil
	})
}

// ImportData overwrites every field present in patch. A patch that switches
// the unit must bring its own times when the session already has some, the
// same lock SetUnit enforces.
func (s *Store) ImportData(ctx context.Context, patch model.SessionPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.update(ctx, "import", func(next *model.Session) error {
		unit, changesUnit := patch.Unit.Get()
		if changesUnit && unit != next.Unit && !patch.Times.IsValue() && len(next.Times) > 0 {
			return model.ErrUnitChangeWithTimes
		}
		*next = patch.Apply(*next)
		return nil
	})
}

// Reset replaces the session with a fresh default one
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.install(ctx, "reset", s.newSession())
}

// Set installs session as-is, without touching its timestamps
func (s *Store) Set(ctx context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.install(ctx, "set", session.Clone())
}

// update applies fn to a copy of the current session, bumps the updated
// timestamp and installs the result
func (s *Store) update(ctx context.Context, op string, fn func(next *model.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.Updated = max(clock.NowMillis(s.clock), s.current.Updated)
	return s.install(ctx, op, next)
}

// install must be called with the lock held
func (s *Store) install(ctx context.Context, op string, next model.Session) error {
	s.current = next
	s.metrics.ObserveMutation(op)
	s.logger.Debug("session updated",
		slog.String("op", op),
		slog.String("session_id", string(next.ID)))

	err := s.persist(ctx, op)
	for _, sub := range s.subscribers {
		sub.fn(s.current.Clone())
	}
	return err
}

func (s *Store) persist(ctx context.Context, op string) error {
	if err := s.persister.Save(ctx, &s.current); err != nil {
		s.metrics.ObservePersistFailure()
		s.logger.Error("failed to persist session",
			slog.String("op", op),
			slog.Any("error", err))
		return fmt.Errorf("%w: %w", model.ErrPersistFailed, err)
	}
	return nil
}

func (s *Store) newSession() model.Session {
	return model.NewSession(model.SessionID(s.random.NewID()), clock.NowMillis(s.clock))
}

type nopMetrics struct{}

func (nopMetrics) ObserveMutation(string) {}
func (nopMetrics) ObservePersistFailure() {}
func (nopMetrics) ObserveLoadFailure() {}
