package fantasy

import (
	"time"
)

// ScoringMode selects how lineup starters are ranked.
type ScoringMode string

const (
	// ModeWeekly ranks starters by this week's actual points.
	ModeWeekly ScoringMode = "weekly"
	// ModeManager ranks starters by the rolling average entering the week.
	ModeManager ScoringMode = "avg"
)

// DefenseMode selects how team defense is credited to a college.
type DefenseMode string

const (
	DefenseNone   DefenseMode = "none"
	DefenseApprox DefenseMode = "approx"
)

// UnknownCollege is the bucket for stat rows that resolve to no master record.
const UnknownCollege = "Unknown"

// WeeklyPlayerLine is one player's scored week, attributed to one or more
// canonical colleges. Colleges holds the already-canonicalized set; rows with
// no resolvable college carry only UnknownCollege.
type WeeklyPlayerLine struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Team     string   `json:"team"`
	Colleges []string `json:"colleges"`
	Season   int      `json:"season"`
	Week     int      `json:"week"`
	Points   float64  `json:"points"`
	// Average is the player's rolling per-week average entering this week.
	// Used only as a selector score in manager mode.
	Average float64 `json:"average,omitempty"`
}

// Performer is one selected lineup entry inside a SchoolAggregate.
type Performer struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Slot     string  `json:"slot"` // QB, RB, WR, TE, K, FLEX, DEF
	Team     string  `json:"team"`
	Points   float64 `json:"points"`
	// Contributors is populated only for the synthetic defense row.
	Contributors []DefenseContributor `json:"contributors,omitempty"`
}

// DefenseContributor is one defensive player's prorated share of his team's
// DST points, attached to the synthetic defense performer for display.
type DefenseContributor struct {
	PlayerID string  `json:"player_id"`
	Label    string  `json:"label"` // "Name (TEAM)"
	Credit   float64 `json:"credit"`
}

// SchoolAggregate is one college's scored week: selected lineup plus total.
type SchoolAggregate struct {
	College     string      `json:"college"`
	Season      int         `json:"season"`
	Week        int         `json:"week"`
	Mode        ScoringMode `json:"mode"`
	TotalPoints float64     `json:"total_points"`
	Performers  []Performer `json:"performers"`
}

// CacheProvider interface for cache operations
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}
