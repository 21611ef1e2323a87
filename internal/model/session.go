package model

// SessionID uniquely identifies a timing session
type SessionID string

// DefaultSessionName is the name given to freshly created sessions
const DefaultSessionName = "New Session"

// Unit is the distance system governing which checkpoints are valid
type Unit string

const (
	UnitKilometers Unit = "km"
	UnitMiles      Unit = "miles"
)

// Valid reports whether u is a known distance unit
func (u Unit) Valid() bool {
	return u == UnitKilometers || u == UnitMiles
}

// Checkpoints returns the checkpoint labels for the unit, in race order
func (u Unit) Checkpoints() []string {
	if u == UnitKilometers {
		return []string{"1K", "2K", "3K", "4K", "5K"}
	}
	return []string{"1M", "2M", "3M", "3.1M"}
}

// IsCheckpoint reports whether label is one of the unit's checkpoints
func (u Unit) IsCheckpoint(label string) bool {
	for _, c := range u.Checkpoints() {
		if c == label {
			return true
		}
	}
	return false
}

// Team groups runners under a display name and color
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Runner is a single athlete. TeamID is empty when unassigned.
type Runner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Grade  Grade  `json:"grade"`
	TeamID string `json:"teamId"`
}

// TimeEntry is the recorded time of a runner at a checkpoint.
// Timestamp is the capture time in Unix milliseconds.
type TimeEntry struct {
	RunnerID   string `json:"runnerId"`
	Checkpoint string `json:"checkpoint"`
	Time       string `json:"time"`
	Timestamp  int64  `json:"timestamp"`
	RaceName   string `json:"raceName,omitempty"`
}

// Session is the aggregate root holding everything recorded for one timing event.
// Created and Updated are Unix milliseconds.
type Session struct {
	ID          SessionID   `json:"id"`
	Name        string      `json:"name"`
	Teams       []Team      `json:"teams"`
	Runners     []Runner    `json:"runners"`
	Times       []TimeEntry `json:"times"`
	Unit        Unit        `json:"unit"`
	Created     int64       `json:"created"`
	Updated     int64       `json:"updated"`
	CurrentRace string      `json:"currentRace,omitempty"`
}

// NewSession returns a default session created at nowMillis
func NewSession(id SessionID, nowMillis int64) Session {
	return Session{
		ID:      id,
		Name:    DefaultSessionName,
		Teams:   []Team{},
		Runners: []Runner{},
		Times:   []TimeEntry{},
		Unit:    UnitKilometers,
		Created: nowMillis,
		Updated: nowMillis,
	}
}

// Checkpoints returns the checkpoint labels for the session's unit
func (s *Session) Checkpoints() []string {
	return s.Unit.Checkpoints()
}

// Clone returns a deep copy of the session
func (s Session) Clone() Session {
	c := s
	c.Teams = append(make([]Team, 0, len(s.Teams)), s.Teams...)
	c.Runners = append(make([]Runner, 0, len(s.Runners)), s.Runners...)
	c.Times = append(make([]TimeEntry, 0, len(s.Times)), s.Times...)
	return c
}

// GetTeam returns the team with the given ID, or nil if not found
func (s *Session) GetTeam(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// GetRunner returns the runner with the given ID, or nil if not found
func (s *Session) GetRunner(id string) *Runner {
	for i := range s.Runners {
		if s.Runners[i].ID == id {
			return &s.Runners[i]
		}
	}
	return nil
}

// TimeAt returns the entry for a runner at a checkpoint, or nil if none was recorded
func (s *Session) TimeAt(runnerID, checkpoint string) *TimeEntry {
	for i := range s.Times {
		if s.Times[i].RunnerID == runnerID && s.Times[i].Checkpoint == checkpoint {
			return &s.Times[i]
		}
	}
	return nil
}

// Validate checks the unit and every runner's grade
func (s Session) Validate() error {
	if !s.Unit.Valid() {
		return ErrInvalidUnit
	}
	for _, r := range s.Runners {
		if !r.Grade.Valid() {
			return ErrInvalidGrade
		}
	}
	return nil
}
