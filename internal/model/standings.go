package model

// Team scoring follows the usual cross country rule: the first ScoringRunners
// of a team score, the next DisplacingRunners only push other teams back.
const (
	ScoringRunners    = 5
	DisplacingRunners = 2
)

// Placing is one runner's position at a checkpoint.
// TeamPlace is zero when the runner does not take part in team scoring.
type Placing struct {
	Place      int    `json:"place"`
	TeamPlace  int    `json:"teamPlace,omitempty"`
	RunnerID   string `json:"runnerId"`
	RunnerName string `json:"runnerName"`
	TeamID     string `json:"teamId"`
	Time       string `json:"time"`
	Seconds    int    `json:"seconds"`
}

// TeamScore is a team's result at a checkpoint. Incomplete teams have fewer
// than ScoringRunners placings and carry no score.
type TeamScore struct {
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	Score      int    `json:"score"`
	Complete   bool   `json:"complete"`
	Scorers    []int  `json:"scorers"`
	Displacers []int  `json:"displacers"`
}

// Standings ranks runners and teams at a single checkpoint
type Standings struct {
	Checkpoint string      `json:"checkpoint"`
	Runners    []Placing   `json:"runners"`
	Teams      []TeamScore `json:"teams"`
}
