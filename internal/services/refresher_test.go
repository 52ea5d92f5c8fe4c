package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almafantasy/engine/internal/fantasy"
	"github.com/almafantasy/engine/internal/nflverse"
)

func scheduleWeeks(season, weeks int, start time.Time) []nflverse.ScheduleGame {
	games := make([]nflverse.ScheduleGame, 0, weeks)
	for w := 1; w <= weeks; w++ {
		games = append(games, nflverse.ScheduleGame{
			Season: season, Week: w, GameType: "REG", Kickoff: start.AddDate(0, 0, 7*(w-1)),
		})
	}
	return games
}

func TestRefresherCurrentWeek(t *testing.T) {
	assets := testAssets()
	assets.schedule = scheduleWeeks(2024, 4, time.Date(2024, time.September, 8, 17, 0, 0, 0, time.UTC))

	agg := NewWeekAggregator(assets, nil, newFakeCache(), quietLogger(), AggregatorOptions{})
	r := NewRefresher(agg, 2024, "@every 1h", quietLogger())

	week, ok, err := r.currentWeek(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, week, "every 2024 cutoff has long passed")
}

func TestRefresherRunOnceWarmsCache(t *testing.T) {
	assets := testAssets()
	// Week 3 is the latest scheduled week, matching the canned stat rows.
	assets.schedule = scheduleWeeks(2024, 3, time.Date(2024, time.September, 8, 17, 0, 0, 0, time.UTC))

	cache := newFakeCache()
	agg := NewWeekAggregator(assets, nil, cache, quietLogger(), AggregatorOptions{})
	r := NewRefresher(agg, 2024, "@every 1h", quietLogger())

	r.runOnce()

	var cached []fantasy.SchoolAggregate
	for _, mode := range []fantasy.ScoringMode{fantasy.ModeWeekly, fantasy.ModeManager} {
		key := AggregateCacheKey(2024, 3, mode, false, fantasy.DefenseNone)
		require.NoError(t, cache.GetSimple(key, &cached), "mode %s should be cached", mode)
		assert.NotEmpty(t, cached)
	}
}

func TestRefresherSkipsWithoutSchedule(t *testing.T) {
	agg := NewWeekAggregator(testAssets(), nil, newFakeCache(), quietLogger(), AggregatorOptions{})
	r := NewRefresher(agg, 2024, "@every 1h", quietLogger())

	// No schedule asset published: the job logs and returns, no panic.
	r.runOnce()
}
