package model

// Screen identifies the active UI screen
type Screen string

const (
	ScreenSetup  Screen = "setup"
	ScreenTiming Screen = "timing"
	ScreenShare  Screen = "share"
	ScreenImport Screen = "import"
)

// DefaultScreen is the screen shown on startup
const DefaultScreen = ScreenSetup

// Valid reports whether s is a known screen
func (s Screen) Valid() bool {
	switch s {
	case ScreenSetup, ScreenTiming, ScreenShare, ScreenImport:
		return true
	default:
		return false
	}
}
