// Package vision analyzes captured game frames into structured state.
//
// The engine runs independent per-region analyses (health bar, ammunition,
// kills, match timer, enemy signatures, hazard zone) over one frame and
// composes the results into a State snapshot. A sub-analysis that fails
// leaves its field empty; nothing in here aborts the pipeline.
package vision

import "time"

// Urgency classifies remaining health.
type Urgency string

const (
	UrgencyUnknown  Urgency = "unknown"
	UrgencyCritical Urgency = "critical"
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
)

// UrgencyFor maps a health percentage to its urgency tier.
func UrgencyFor(hpPercent float64) Urgency {
	switch {
	case hpPercent <= 20:
		return UrgencyCritical
	case hpPercent <= 50:
		return UrgencyLow
	case hpPercent <= 80:
		return UrgencyMedium
	default:
		return UrgencyHigh
	}
}

// Distance is a coarse range bucket for a detected enemy.
type Distance string

const (
	DistanceClose  Distance = "close"
	DistanceMedium Distance = "medium"
	DistanceFar    Distance = "far"
)

// Enemy is a single detected enemy signature.
type Enemy struct {
	// X, Y is the detection position in full-frame pixel coordinates.
	X int `json:"x"`
	Y int `json:"y"`

	Direction  Bearing  `json:"direction"`
	Distance   Distance `json:"distance"`
	Confidence float64  `json:"confidence"`
}

// Zone describes the hazard boundary as seen on the minimap.
// Direction is meaningful only when Active.
type Zone struct {
	Active    bool    `json:"active"`
	Direction Bearing `json:"direction,omitempty"`
	Closing   bool    `json:"closing"`
}

// State is the snapshot produced from one analyzed frame.
// Pointer fields are nil when the corresponding analysis produced nothing.
type State struct {
	HPPercent     *float64  `json:"hp_percent,omitempty"`
	HPUrgency     Urgency   `json:"hp_urgency"`
	AmmoCount     *int      `json:"ammo_count,omitempty"`
	Kills         *int      `json:"kills,omitempty"`
	TimeRemaining string    `json:"time_remaining,omitempty"`
	Enemies       []Enemy   `json:"enemies"`
	Zone          Zone      `json:"zone"`
	Timestamp     time.Time `json:"timestamp"`
}

// Unknown returns a snapshot with every field absent, used when frame-level
// analysis cannot proceed at all.
func Unknown(ts time.Time) State {
	return State{
		HPUrgency: UrgencyUnknown,
		Timestamp: ts,
	}
}
