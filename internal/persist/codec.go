// Package persist encodes sessions as versioned JSON documents and upgrades
// documents written by older releases.
package persist

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mcoot/xctimer/internal/model"
)

// CurrentVersion is the document version written by Encode
const CurrentVersion = 2

// upgrade moves a document from version i to i+1. Every step must be
// idempotent so that re-running it on an upgraded document changes nothing.
type upgrade func(doc map[string]any)

// upgrades[i] upgrades a version i document to version i+1
var upgrades = []upgrade{
	addTeams,         // 0 -> 1
	normalizeRunners, // 1 -> 2
}

// document is the persisted shape: the session with a version tag
type document struct {
	Version int `json:"version"`
	model.Session
}

// Encode serializes a session as a current-version document
func Encode(s model.Session) ([]byte, error) {
	return json.Marshal(document{Version: CurrentVersion, Session: s})
}

// Decode parses a document of any known version into a session
func Decode(data []byte) (model.Session, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
	}
	if doc == nil {
		return model.Session{}, fmt.Errorf("%w: not an object", model.ErrInvalidDocument)
	}

	if _, err := Migrate(doc); err != nil {
		return model.Session{}, err
	}

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
	}
	var out document
	if err := json.Unmarshal(upgraded, &out); err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
	}
	return normalize(out.Session), nil
}

// Migrate upgrades doc in place to CurrentVersion and returns the version it started at.
// Documents without a version tag predate versioning and count as version 0.
func Migrate(doc map[string]any) (int, error) {
	from, err := documentVersion(doc)
	if err != nil {
		return 0, err
	}
	if from > CurrentVersion {
		return from, fmt.Errorf("%w: unsupported version %d", model.ErrInvalidDocument, from)
	}
	for v := from; v < CurrentVersion; v++ {
		upgrades[v](doc)
	}
	doc["version"] = CurrentVersion
	return from, nil
}

func documentVersion(doc map[string]any) (int, error) {
	raw, ok := doc["version"]
	if !ok || raw == nil {
		return 0, nil
	}
	v, ok := raw.(float64)
	if !ok || v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: bad version %v", model.ErrInvalidDocument, raw)
	}
	return int(v), nil
}

// addTeams gives sessions saved before teams existed an empty team list
func addTeams(doc map[string]any) {
	if _, ok := doc["teams"].([]any); !ok {
		doc["teams"] = []any{}
	}
}

// normalizeRunners derives grades from the legacy age field and makes
// sure every runner carries a team reference
func normalizeRunners(doc map[string]any) {
	runners, ok := doc["runners"].([]any)
	if !ok {
		return
	}
	for _, item := range runners {
		runner, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if grade, _ := runner["grade"].(string); grade == "" {
			age, hasAge := ageValue(runner["age"])
			if hasAge {
				runner["grade"] = string(model.GradeForAge(age))
				delete(runner, "age")
			} else {
				runner["grade"] = string(model.GradeFreshman)
			}
		}
		if teamID, _ := runner["teamId"].(string); teamID == "" {
			runner["teamId"] = ""
		}
	}
}

func ageValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(math.Floor(v)), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// normalize fills collections and the unit that a decoded document may lack
func normalize(s model.Session) model.Session {
	if s.Teams == nil {
		s.Teams = []model.Team{}
	}
	if s.Runners == nil {
		s.Runners = []model.Runner{}
	}
	if s.Times == nil {
		s.Times = []model.TimeEntry{}
	}
	if s.Unit == "" {
		s.Unit = model.UnitKilometers
	}
	return s
}
