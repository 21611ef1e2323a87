package response

import (
	"time"

	"github.com/mcoot/xctimer/internal/model"
)

// Health statuses
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// Health is the response for the health endpoint
type Health struct {
	Status    string     `json:"status"`
	Storage   string     `json:"storage,omitempty"`
	LastSaved *time.Time `json:"lastSaved,omitempty"`
}

// Checkpoints lists the checkpoints of the session's unit
type Checkpoints struct {
	Unit        string   `json:"unit"`
	Checkpoints []string `json:"checkpoints"`
}

// CheckpointsFromSession builds a Checkpoints response
func CheckpointsFromSession(s model.Session) Checkpoints {
	return Checkpoints{
		Unit:        string(s.Unit),
		Checkpoints: s.Checkpoints(),
	}
}

// Screen is the active screen
type Screen struct {
	Screen string `json:"screen"`
}

// QRCode carries a PNG data URI
type QRCode struct {
	DataURI string `json:"dataUri"`
}
