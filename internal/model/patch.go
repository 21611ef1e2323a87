package model

import "github.com/aarondl/opt/omit"

// SessionPatch is a partial session. Every set field replaces the
// corresponding session field in full; unset fields are left untouched.
type SessionPatch struct {
	ID          omit.Val[SessionID]   `json:"id"`
	Name        omit.Val[string]      `json:"name"`
	Teams       omit.Val[[]Team]      `json:"teams"`
	Runners     omit.Val[[]Runner]    `json:"runners"`
	Times       omit.Val[[]TimeEntry] `json:"times"`
	Unit        omit.Val[Unit]        `json:"unit"`
	Created     omit.Val[int64]       `json:"created"`
	Updated     omit.Val[int64]       `json:"updated"`
	CurrentRace omit.Val[string]      `json:"currentRace"`
}

// Apply returns a copy of s with every set patch field overwritten
func (p SessionPatch) Apply(s Session) Session {
	out := s.Clone()
	if v, ok := p.ID.Get(); ok {
		out.ID = v
	}
	if v, ok := p.Name.Get(); ok {
		out.Name = v
	}
	if v, ok := p.Teams.Get(); ok {
		out.Teams = append([]Team{}, v...)
	}
	if v, ok := p.Runners.Get(); ok {
		out.Runners = append([]Runner{}, v...)
	}
	if v, ok := p.Times.Get(); ok {
		out.Times = append([]TimeEntry{}, v...)
	}
	if v, ok := p.Unit.Get(); ok {
		out.Unit = v
	}
	if v, ok := p.Created.Get(); ok {
		out.Created = v
	}
	if v, ok := p.Updated.Get(); ok {
		out.Updated = v
	}
	if v, ok := p.CurrentRace.Get(); ok {
		out.CurrentRace = v
	}
	return out
}

// Validate checks the fields a patch would install
func (p SessionPatch) Validate() error {
	if v, ok := p.Unit.Get(); ok && !v.Valid() {
		return ErrInvalidUnit
	}
	if v, ok := p.Runners.Get(); ok {
		for _, r := range v {
			if !r.Grade.Valid() {
				return ErrInvalidGrade
			}
		}
	}
	return nil
}
