package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// MasterPlayerRecord is one roster/master entry for a season. Loaded once per
// season into the identity index and treated as immutable afterward.
type MasterPlayerRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Season    int    `gorm:"not null;index:idx_season_primary" json:"season"`
	PrimaryID string `gorm:"not null;index:idx_season_primary" json:"primary_id"`
	// AltIDs maps id family -> value (gsis_id, pfr_id, espn_id, ...).
	AltIDs     datatypes.JSON `gorm:"type:jsonb" json:"alt_ids"`
	Name       string         `gorm:"not null" json:"name"`
	Team       string         `gorm:"index" json:"team"`
	Position   string         `json:"position"`
	RawCollege string         `json:"raw_college"`
	College    string         `gorm:"index" json:"college"` // canonical
	Week       int            `json:"week"`                 // roster snapshot week, 0 = season-level
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (MasterPlayerRecord) TableName() string {
	return "master_players"
}

// AltIDMap decodes the AltIDs column. A nil or malformed column decodes to an
// empty map rather than failing the caller.
func (m *MasterPlayerRecord) AltIDMap() map[string]string {
	out := make(map[string]string)
	if len(m.AltIDs) == 0 {
		return out
	}
	_ = json.Unmarshal(m.AltIDs, &out)
	return out
}

// SetAltIDs encodes the alt-id map into the JSONB column.
func (m *MasterPlayerRecord) SetAltIDs(ids map[string]string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	m.AltIDs = datatypes.JSON(data)
	return nil
}

// WeeklyLine is a persisted, already-resolved weekly scoring line. Stored so
// season-to-date averages can be rebuilt without refetching upstream assets.
type WeeklyLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Season    int       `gorm:"not null;index:idx_line_season_week" json:"season"`
	Week      int       `gorm:"not null;index:idx_line_season_week" json:"week"`
	PlayerID  string    `gorm:"not null;index" json:"player_id"`
	Name      string    `gorm:"not null" json:"name"`
	Position  string    `json:"position"`
	Team      string    `json:"team"`
	College   string    `gorm:"index" json:"college"` // semicolon-joined when dual-affiliated
	Points    float64   `gorm:"not null" json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WeeklyLine) TableName() string {
	return "weekly_lines"
}
