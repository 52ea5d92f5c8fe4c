package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almafantasy/engine/internal/fantasy"
)

func line(id, name, pos, team string, colleges []string, points, average float64) fantasy.WeeklyPlayerLine {
	return fantasy.WeeklyPlayerLine{
		PlayerID: id,
		Name:     name,
		Position: pos,
		Team:     team,
		Colleges: colleges,
		Season:   2024,
		Week:     6,
		Points:   points,
		Average:  average,
	}
}

// TestAggregateDualCollege tests that a dual-affiliation line counts fully
// toward every college in its set.
func TestAggregateDualCollege(t *testing.T) {
	lines := []fantasy.WeeklyPlayerLine{
		line("p1", "Dual Guy", "QB", "KC", []string{"School A", "School B"}, 25, 0),
		line("p2", "Solo Guy", "RB", "SF", []string{"School A"}, 10, 0),
	}

	aggs := AggregateByCollege(lines, 2024, 6, fantasy.ModeWeekly, Options{Defense: fantasy.DefenseNone})
	require.Len(t, aggs, 2)

	byCollege := make(map[string]fantasy.SchoolAggregate)
	for _, a := range aggs {
		byCollege[a.College] = a
	}
	assert.InDelta(t, 35.0, byCollege["School A"].TotalPoints, 0.001)
	assert.InDelta(t, 25.0, byCollege["School B"].TotalPoints, 0.001)

	// Sorted descending by total.
	assert.Equal(t, "School A", aggs[0].College)
}

// TestLineupSlotCounts tests that a college with sufficient depth fields
// exactly 1 QB, 1 TE, 2 WR, 2 RB and 1 FLEX.
func TestLineupSlotCounts(t *testing.T) {
	college := []string{"Deep U"}
	var lines []fantasy.WeeklyPlayerLine
	for i := 0; i < 3; i++ {
		lines = append(lines,
			line(fmt.Sprintf("qb%d", i), fmt.Sprintf("QB %d", i), "QB", "DAL", college, float64(20-i), 0),
			line(fmt.Sprintf("rb%d", i), fmt.Sprintf("RB %d", i), "RB", "DAL", college, float64(15-i), 0),
			line(fmt.Sprintf("wr%d", i), fmt.Sprintf("WR %d", i), "WR", "DAL", college, float64(12-i), 0),
			line(fmt.Sprintf("te%d", i), fmt.Sprintf("TE %d", i), "TE", "DAL", college, float64(9-i), 0),
			line(fmt.Sprintf("k%d", i), fmt.Sprintf("K %d", i), "K", "DAL", college, float64(7-i), 0),
		)
	}

	for _, includeK := range []bool{false, true} {
		t.Run(fmt.Sprintf("includeK=%v", includeK), func(t *testing.T) {
			aggs := AggregateByCollege(lines, 2024, 6, fantasy.ModeWeekly, Options{IncludeKicker: includeK})
			require.Len(t, aggs, 1)

			slots := make(map[string]int)
			for _, p := range aggs[0].Performers {
				slots[p.Slot]++
			}
			assert.Equal(t, 1, slots["QB"])
			assert.Equal(t, 1, slots["TE"])
			assert.Equal(t, 2, slots["WR"])
			assert.Equal(t, 2, slots["RB"])
			assert.Equal(t, 1, slots["FLEX"])
			if includeK {
				assert.Equal(t, 1, slots["K"])
			} else {
				assert.Zero(t, slots["K"])
			}
		})
	}
}

// TestAggregateTotalsMatchPerformers tests that every aggregate's total is
// the sum of its performers' reported points, defense row included.
func TestAggregateTotalsMatchPerformers(t *testing.T) {
	college := []string{"Consistency State"}
	lines := []fantasy.WeeklyPlayerLine{
		line("qb1", "A QB", "QB", "NE", college, 18.34, 0),
		line("rb1", "A RB", "RB", "NE", college, 7.12, 0),
		line("wr1", "A WR", "WR", "NE", college, 11.01, 0),
		line("lb1", "A LB", "LB", "NE", college, 0, 0),
		line("cb1", "A CB", "CB", "NYJ", college, 0, 0),
	}
	data := &DefenseData{
		PlayerSnaps: map[string]float64{"lb1": 60, "cb1": 44},
		TeamSnaps:   map[string]float64{"NE": 72, "NYJ": 66},
		TeamPoints:  map[string]float64{"NE": 12, "NYJ": 9},
	}

	aggs := AggregateByCollege(lines, 2024, 6, fantasy.ModeWeekly, Options{
		Defense:     fantasy.DefenseApprox,
		DefenseData: data,
	})
	require.Len(t, aggs, 1)

	sum := 0.0
	for _, p := range aggs[0].Performers {
		sum += p.Points
	}
	assert.InDelta(t, aggs[0].TotalPoints, sum, 0.005)

	// The defense row carries its contributor breakdown.
	def := aggs[0].Performers[len(aggs[0].Performers)-1]
	require.Equal(t, "DEF", def.Slot)
	require.Len(t, def.Contributors, 2)
	assert.InDelta(t, 10.0, def.Contributors[0].Credit, 0.001) // 12 * 60/72
	assert.InDelta(t, 6.0, def.Contributors[1].Credit, 0.001)  // 9 * 44/66
}

// TestManagerModeSelectsByAverage tests that the rolling average picks the
// starter while reported points stay the week's actuals.
func TestManagerModeSelectsByAverage(t *testing.T) {
	college := []string{"Manager Tech"}
	lines := []fantasy.WeeklyPlayerLine{
		line("boom", "Boom Week", "QB", "CIN", college, 30, 8),
		line("steady", "Steady Star", "QB", "LAC", college, 6, 22),
	}

	weekly := AggregateByCollege(lines, 2024, 6, fantasy.ModeWeekly, Options{})
	require.Len(t, weekly, 1)
	require.Len(t, weekly[0].Performers, 1)
	assert.Equal(t, "Boom Week", weekly[0].Performers[0].Name)
	assert.InDelta(t, 30.0, weekly[0].TotalPoints, 0.001)

	manager := AggregateByCollege(lines, 2024, 6, fantasy.ModeManager, Options{})
	require.Len(t, manager, 1)
	require.Len(t, manager[0].Performers, 1)
	assert.Equal(t, "Steady Star", manager[0].Performers[0].Name)
	// Reported points are actuals, never the selector score.
	assert.InDelta(t, 6.0, manager[0].TotalPoints, 0.001)
}

// TestDefenseContributorCapAndTieBreak tests the top-11 cut with the
// deterministic id tie-break on equal credits.
func TestDefenseContributorCapAndTieBreak(t *testing.T) {
	college := []string{"Snap County"}
	var lines []fantasy.WeeklyPlayerLine
	snaps := map[string]float64{}
	for i := 0; i < 13; i++ {
		id := fmt.Sprintf("d%02d", i)
		lines = append(lines, line(id, fmt.Sprintf("Defender %02d", i), "LB", "PIT", college, 0, 0))
		snaps[id] = 10 // identical shares -> identical credits
	}
	data := &DefenseData{
		PlayerSnaps: snaps,
		TeamSnaps:   map[string]float64{"PIT": 130},
		TeamPoints:  map[string]float64{"PIT": 13},
	}

	def, ok := defensePerformer(lines, data)
	require.True(t, ok)
	require.Len(t, def.Contributors, maxDefenseContributors)
	// Equal credit: lowest ids survive the cut.
	assert.Equal(t, "d00", def.Contributors[0].PlayerID)
	assert.Equal(t, "d10", def.Contributors[len(def.Contributors)-1].PlayerID)
}

func TestUnknownBucket(t *testing.T) {
	lines := []fantasy.WeeklyPlayerLine{
		line("u1", "Lost Soul", "RB", "JAX", []string{fantasy.UnknownCollege}, 9.5, 0),
		line("u2", "No Colleges", "WR", "JAX", nil, 4.25, 0),
	}
	aggs := AggregateByCollege(lines, 2024, 6, fantasy.ModeWeekly, Options{})
	require.Len(t, aggs, 1)
	assert.Equal(t, fantasy.UnknownCollege, aggs[0].College)
	assert.InDelta(t, 13.75, aggs[0].TotalPoints, 0.001)
}

func TestPlayerPoints(t *testing.T) {
	tests := []struct {
		name     string
		stats    PlayerStats
		expected float64
	}{
		{
			name: "Passing line",
			stats: PlayerStats{
				PassingYards:  250,
				PassingTDs:    2,
				Interceptions: 1,
			},
			expected: 16.0,
		},
		{
			name: "Rushing and receiving",
			stats: PlayerStats{
				RushingYards:   87,
				RushingTDs:     1,
				ReceivingYards: 23,
				FumblesLost:    1,
			},
			expected: 15.0,
		},
		{
			name: "Kicker",
			stats: PlayerStats{
				FieldGoalsMade:  3,
				ExtraPointsMade: 2,
			},
			expected: 11.0,
		},
		{"Empty row scores zero", PlayerStats{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PlayerPoints(tt.stats), 0.001)
		})
	}
}

func TestTeamDefensePoints(t *testing.T) {
	tests := []struct {
		name     string
		stats    TeamDefenseStats
		expected float64
	}{
		{"Shutout", TeamDefenseStats{Sacks: 4, Interceptions: 2, PointsAllowed: 0}, 18.0},
		{"Average day", TeamDefenseStats{Sacks: 2, FumbleRecoveries: 1, PointsAllowed: 24}, 4.0},
		{"Blowout loss", TeamDefenseStats{PointsAllowed: 41}, -4.0},
		{"Scores on defense", TeamDefenseStats{DefensiveTDs: 1, ReturnTDs: 1, PointsAllowed: 17}, 13.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TeamDefensePoints(tt.stats), 0.001)
		})
	}
}
