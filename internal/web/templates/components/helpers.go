package components

import "github.com/mcoot/xctimer/internal/model"

func teamName(session model.Session, teamID string) string {
	if team := session.GetTeam(teamID); team != nil {
		return team.Name
	}
	return ""
}

func timeAt(session model.Session, runnerID, checkpoint string) string {
	if entry := session.TimeAt(runnerID, checkpoint); entry != nil {
		return entry.Time
	}
	return ""
}
