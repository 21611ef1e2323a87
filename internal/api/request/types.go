package request

// AddTeamRequest is the request body for adding a team
type AddTeamRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AddRunnerRequest is the request body for adding a runner
type AddRunnerRequest struct {
	Name   string `json:"name"`
	Grade  string `json:"grade"`
	TeamID string `json:"teamId,omitempty"`
}

// AddTimeRequest is the request body for recording a checkpoint time.
// Either Time ("M:SS") or Seconds must be given.
type AddTimeRequest struct {
	RunnerID   string `json:"runnerId"`
	Checkpoint string `json:"checkpoint"`
	Time       string `json:"time,omitempty"`
	Seconds    *int   `json:"seconds,omitempty"`
	RaceName   string `json:"raceName,omitempty"`
}

// SetUnitRequest is the request body for changing the distance unit
type SetUnitRequest struct {
	Unit string `json:"unit"`
}

// SetScreenRequest is the request body for switching screens
type SetScreenRequest struct {
	Screen string `json:"screen"`
}
