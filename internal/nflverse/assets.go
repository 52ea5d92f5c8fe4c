package nflverse

import (
	"context"
	"fmt"
	"time"

	"github.com/almafantasy/engine/internal/scoring"
)

// WeeklyStatRow is one player's box-score line for one week.
type WeeklyStatRow struct {
	PlayerID string
	Name     string
	Team     string
	Position string
	Season   int
	Week     int
	Stats    scoring.PlayerStats
}

// RosterRow is one player's weekly roster entry, the identity backbone: it
// carries every ID family the stat assets may key on plus the college field.
type RosterRow struct {
	GsisID    string
	PfrID     string
	EspnID    string
	SleeperID string
	Name      string
	Team      string
	Position  string
	College   string
	Season    int
	Week      int
}

// SnapCountRow is one player's defensive snap participation for one game.
type SnapCountRow struct {
	PlayerID     string
	Name         string
	Team         string
	Position     string
	Season       int
	Week         int
	DefenseSnaps float64
}

// TeamDefenseRow is one team's defensive box score for one week.
type TeamDefenseRow struct {
	Team   string
	Season int
	Week   int
	Stats  scoring.TeamDefenseStats
}

// ScheduleGame is one scheduled NFL game.
type ScheduleGame struct {
	Season   int
	Week     int
	GameType string
	Kickoff  time.Time
}

var weeklyStatAliases = map[string][]string{
	"player_id":             {"player_id", "gsis_id", "pfr_id"},
	"name":                  {"player_display_name", "player_name", "full_name"},
	"team":                  {"recent_team", "team", "posteam"},
	"position":              {"position", "pos"},
	"season":                {"season"},
	"week":                  {"week"},
	"passing_yards":         {"passing_yards", "pass_yds"},
	"passing_tds":           {"passing_tds", "pass_td"},
	"interceptions":         {"interceptions", "passing_interceptions", "pass_int"},
	"rushing_yards":         {"rushing_yards", "rush_yds"},
	"rushing_tds":           {"rushing_tds", "rush_td"},
	"receiving_yards":       {"receiving_yards", "rec_yds"},
	"receiving_tds":         {"receiving_tds", "rec_td"},
	"two_point_conversions": {"two_point_conversions", "passing_2pt_conversions"},
	"fumbles_lost":          {"fumbles_lost", "sack_fumbles_lost"},
	"field_goals_made":      {"fg_made", "field_goals_made"},
	"extra_points_made":     {"pat_made", "xp_made", "extra_points_made"},
}

var rosterAliases = map[string][]string{
	"gsis_id":    {"gsis_id", "player_id"},
	"pfr_id":     {"pfr_id"},
	"espn_id":    {"espn_id"},
	"sleeper_id": {"sleeper_id"},
	"name":       {"full_name", "player_name", "player_display_name"},
	"team":       {"team", "recent_team"},
	"position":   {"position", "depth_chart_position"},
	"college":    {"college", "college_name"},
	"season":     {"season"},
	"week":       {"week"},
}

var snapCountAliases = map[string][]string{
	"player_id":     {"pfr_player_id", "player_id", "gsis_id"},
	"name":          {"player", "player_name", "full_name"},
	"team":          {"team"},
	"position":      {"position", "pos"},
	"season":        {"season"},
	"week":          {"week"},
	"defense_snaps": {"defense_snaps", "def_snaps"},
}

var teamDefenseAliases = map[string][]string{
	"team":              {"team", "recent_team"},
	"season":            {"season"},
	"week":              {"week"},
	"sacks":             {"def_sacks", "sacks"},
	"interceptions":     {"def_interceptions", "interceptions"},
	"fumble_recoveries": {"fumble_recovery_opp", "def_fumble_recoveries", "fumbles_recovered"},
	"safeties":          {"def_safeties", "safeties"},
	"defensive_tds":     {"def_tds", "defensive_tds"},
	"return_tds":        {"special_teams_tds", "return_tds"},
	"points_allowed":    {"points_allowed", "points_against"},
}

var scheduleAliases = map[string][]string{
	"season":    {"season"},
	"week":      {"week"},
	"game_type": {"game_type", "season_type"},
	"gameday":   {"gameday", "game_date"},
	"gametime":  {"gametime", "game_time"},
}

// FetchWeeklyStats downloads the per-player weekly stat asset for a season.
func (c *Client) FetchWeeklyStats(ctx context.Context, season int) ([]WeeklyStatRow, error) {
	body, err := c.fetchAsset(ctx, fmt.Sprintf("player_stats/player_stats_%d.csv.gz", season), "player_stats", season)
	if err != nil {
		return nil, err
	}

	var rows []WeeklyStatRow
	required := []string{"player_id", "name", "week"}
	err = parseCSV(body, weeklyStatAliases, required, func(s columnSchema, rec []string) {
		rows = append(rows, WeeklyStatRow{
			PlayerID: s.str(rec, "player_id"),
			Name:     s.str(rec, "name"),
			Team:     s.str(rec, "team"),
			Position: s.str(rec, "position"),
			Season:   s.int(rec, "season"),
			Week:     s.int(rec, "week"),
			Stats: scoring.PlayerStats{
				PassingYards:    s.float(rec, "passing_yards"),
				PassingTDs:      s.float(rec, "passing_tds"),
				Interceptions:   s.float(rec, "interceptions"),
				RushingYards:    s.float(rec, "rushing_yards"),
				RushingTDs:      s.float(rec, "rushing_tds"),
				ReceivingYards:  s.float(rec, "receiving_yards"),
				ReceivingTDs:    s.float(rec, "receiving_tds"),
				TwoPointConv:    s.float(rec, "two_point_conversions"),
				FumblesLost:     s.float(rec, "fumbles_lost"),
				FieldGoalsMade:  s.float(rec, "field_goals_made"),
				ExtraPointsMade: s.float(rec, "extra_points_made"),
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parsing player_stats %d: %w", season, err)
	}
	return rows, nil
}

// FetchRosters downloads the weekly roster asset for a season.
func (c *Client) FetchRosters(ctx context.Context, season int) ([]RosterRow, error) {
	body, err := c.fetchAsset(ctx, fmt.Sprintf("weekly_rosters/roster_weekly_%d.csv.gz", season), "weekly_rosters", season)
	if err != nil {
		return nil, err
	}

	var rows []RosterRow
	required := []string{"gsis_id", "name"}
	err = parseCSV(body, rosterAliases, required, func(s columnSchema, rec []string) {
		rows = append(rows, RosterRow{
			GsisID:    s.str(rec, "gsis_id"),
			PfrID:     s.str(rec, "pfr_id"),
			EspnID:    s.str(rec, "espn_id"),
			SleeperID: s.str(rec, "sleeper_id"),
			Name:      s.str(rec, "name"),
			Team:      s.str(rec, "team"),
			Position:  s.str(rec, "position"),
			College:   s.str(rec, "college"),
			Season:    s.int(rec, "season"),
			Week:      s.int(rec, "week"),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parsing weekly_rosters %d: %w", season, err)
	}
	return rows, nil
}

// FetchSnapCounts downloads the snap-count asset for a season.
func (c *Client) FetchSnapCounts(ctx context.Context, season int) ([]SnapCountRow, error) {
	body, err := c.fetchAsset(ctx, fmt.Sprintf("snap_counts/snap_counts_%d.csv.gz", season), "snap_counts", season)
	if err != nil {
		return nil, err
	}

	var rows []SnapCountRow
	required := []string{"player_id", "week"}
	err = parseCSV(body, snapCountAliases, required, func(s columnSchema, rec []string) {
		rows = append(rows, SnapCountRow{
			PlayerID:     s.str(rec, "player_id"),
			Name:         s.str(rec, "name"),
			Team:         s.str(rec, "team"),
			Position:     s.str(rec, "position"),
			Season:       s.int(rec, "season"),
			Week:         s.int(rec, "week"),
			DefenseSnaps: s.float(rec, "defense_snaps"),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parsing snap_counts %d: %w", season, err)
	}
	return rows, nil
}

// FetchTeamDefense downloads the per-team weekly defensive stat asset.
func (c *Client) FetchTeamDefense(ctx context.Context, season int) ([]TeamDefenseRow, error) {
	body, err := c.fetchAsset(ctx, fmt.Sprintf("stats_team/stats_team_week_%d.csv.gz", season), "stats_team", season)
	if err != nil {
		return nil, err
	}

	var rows []TeamDefenseRow
	required := []string{"team", "week"}
	err = parseCSV(body, teamDefenseAliases, required, func(s columnSchema, rec []string) {
		rows = append(rows, TeamDefenseRow{
			Team:   s.str(rec, "team"),
			Season: s.int(rec, "season"),
			Week:   s.int(rec, "week"),
			Stats: scoring.TeamDefenseStats{
				Sacks:            s.float(rec, "sacks"),
				Interceptions:    s.float(rec, "interceptions"),
				FumbleRecoveries: s.float(rec, "fumble_recoveries"),
				Safeties:         s.float(rec, "safeties"),
				DefensiveTDs:     s.float(rec, "defensive_tds"),
				ReturnTDs:        s.float(rec, "return_tds"),
				PointsAllowed:    s.float(rec, "points_allowed"),
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parsing stats_team %d: %w", season, err)
	}
	return rows, nil
}

// FetchSchedule downloads the full games asset and keeps the given season.
// The schedule is one cross-season file, unlike the per-season assets.
func (c *Client) FetchSchedule(ctx context.Context, season int) ([]ScheduleGame, error) {
	body, err := c.fetchAsset(ctx, "schedules/games.csv", "schedules", season)
	if err != nil {
		return nil, err
	}

	var games []ScheduleGame
	required := []string{"season", "week", "gameday"}
	err = parseCSV(body, scheduleAliases, required, func(s columnSchema, rec []string) {
		if s.int(rec, "season") != season {
			return
		}
		games = append(games, ScheduleGame{
			Season:   season,
			Week:     s.int(rec, "week"),
			GameType: s.str(rec, "game_type"),
			Kickoff:  parseKickoff(s.str(rec, "gameday"), s.str(rec, "gametime")),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parsing schedules %d: %w", season, err)
	}
	if len(games) == 0 {
		return nil, &ErrNotAvailable{Asset: "schedules", Season: season}
	}
	return games, nil
}

// parseKickoff combines the schedule's date and Eastern wall-clock time
// columns. A missing or malformed time falls back to 13:00 Eastern, the
// typical Sunday slot, so the week window still forms.
func parseKickoff(gameday, gametime string) time.Time {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		eastern = time.FixedZone("ET", -5*3600)
	}
	day, err := time.ParseInLocation("2006-01-02", gameday, eastern)
	if err != nil {
		return time.Time{}
	}
	clock, err := time.Parse("15:04", gametime)
	if err != nil {
		return day.Add(13 * time.Hour)
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}
