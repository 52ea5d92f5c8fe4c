package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almafantasy/engine/internal/fantasy"
	"github.com/almafantasy/engine/internal/nflverse"
	"github.com/almafantasy/engine/internal/scoring"
)

type fakeAssets struct {
	stats    []nflverse.WeeklyStatRow
	rosters  []nflverse.RosterRow
	snaps    []nflverse.SnapCountRow
	defense  []nflverse.TeamDefenseRow
	schedule []nflverse.ScheduleGame
	statsErr error
}

func (f *fakeAssets) FetchWeeklyStats(ctx context.Context, season int) ([]nflverse.WeeklyStatRow, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeAssets) FetchRosters(ctx context.Context, season int) ([]nflverse.RosterRow, error) {
	return f.rosters, nil
}

func (f *fakeAssets) FetchSnapCounts(ctx context.Context, season int) ([]nflverse.SnapCountRow, error) {
	return f.snaps, nil
}

func (f *fakeAssets) FetchTeamDefense(ctx context.Context, season int) ([]nflverse.TeamDefenseRow, error) {
	return f.defense, nil
}

func (f *fakeAssets) FetchSchedule(ctx context.Context, season int) ([]nflverse.ScheduleGame, error) {
	if len(f.schedule) == 0 {
		return nil, &nflverse.ErrNotAvailable{Asset: "schedules", Season: season}
	}
	return f.schedule, nil
}

// fakeCache is an in-memory stand-in for the Redis-backed cache.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) SetSimple(key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) GetSimple(key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testAssets() *fakeAssets {
	return &fakeAssets{
		rosters: []nflverse.RosterRow{
			{GsisID: "00-0000001", Name: "Joe Passer", Team: "KC", Position: "QB", College: "Alabama", Season: 2024, Week: 3},
			{GsisID: "00-0000002", Name: "Ray Runner", Team: "KC", Position: "RB", College: "Georgia", Season: 2024, Week: 3},
			{GsisID: "00-0000003", PfrID: "TackMi00", Name: "Mike Tackler", Team: "SF", Position: "LB", College: "Alabama", Season: 2024, Week: 3},
		},
		stats: []nflverse.WeeklyStatRow{
			{PlayerID: "00-0000001", Name: "Joe Passer", Team: "KC", Position: "QB", Season: 2024, Week: 3,
				Stats: scoring.PlayerStats{PassingYards: 300, PassingTDs: 2}}, // 20.00
			{PlayerID: "00-0000002", Name: "Ray Runner", Team: "KC", Position: "RB", Season: 2024, Week: 3,
				Stats: scoring.PlayerStats{RushingYards: 100, RushingTDs: 1}}, // 16.00
		},
		snaps: []nflverse.SnapCountRow{
			{PlayerID: "TackMi00", Name: "Mike Tackler", Team: "SF", Position: "LB", Season: 2024, Week: 3, DefenseSnaps: 60},
		},
		defense: []nflverse.TeamDefenseRow{
			{Team: "SF", Season: 2024, Week: 3,
				Stats: scoring.TeamDefenseStats{Sacks: 3, Interceptions: 2, PointsAllowed: 20}}, // 3+4+1 = 8.00
		},
	}
}

func TestAggregateWeekEndToEnd(t *testing.T) {
	assets := testAssets()
	cache := newFakeCache()
	agg := NewWeekAggregator(assets, nil, cache, quietLogger(), AggregatorOptions{
		Defense: fantasy.DefenseApprox,
	})

	results, err := agg.AggregateWeek(context.Background(), 2024, 3, fantasy.ModeWeekly)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Alabama: QB 20.00 plus the full SF defense credit (sole snap player).
	assert.Equal(t, "Alabama", results[0].College)
	assert.Equal(t, 28.0, results[0].TotalPoints)
	require.Len(t, results[0].Performers, 2)
	def := results[0].Performers[1]
	assert.Equal(t, "DEF", def.Slot)
	require.Len(t, def.Contributors, 1)
	assert.Equal(t, "00-0000003", def.Contributors[0].PlayerID, "snap row resolves to the primary id")
	assert.Equal(t, 8.0, def.Contributors[0].Credit)

	assert.Equal(t, "Georgia", results[1].College)
	assert.Equal(t, 16.0, results[1].TotalPoints)

	// Second call is served from cache even if upstream breaks.
	assets.statsErr = fmt.Errorf("upstream down")
	cached, err := agg.AggregateWeek(context.Background(), 2024, 3, fantasy.ModeWeekly)
	require.NoError(t, err)
	assert.Equal(t, results, cached)
}

func TestAggregateWeekPendingStats(t *testing.T) {
	assets := testAssets()
	assets.statsErr = &nflverse.ErrNotAvailable{Asset: "player_stats", Season: 2024, Week: 12}

	agg := NewWeekAggregator(assets, nil, newFakeCache(), quietLogger(), AggregatorOptions{})

	_, err := agg.AggregateWeek(context.Background(), 2024, 12, fantasy.ModeWeekly)
	require.Error(t, err)
	assert.True(t, nflverse.IsNotAvailable(err))
}

func TestAggregateCacheKeyVariesByDefenseMode(t *testing.T) {
	// Deployments differing only in defense crediting must not read each
	// other's cached aggregates.
	none := AggregateCacheKey(2024, 3, fantasy.ModeWeekly, false, fantasy.DefenseNone)
	approx := AggregateCacheKey(2024, 3, fantasy.ModeWeekly, false, fantasy.DefenseApprox)
	assert.NotEqual(t, none, approx)
}

func TestAggregateWeekUnknownBucket(t *testing.T) {
	assets := testAssets()
	assets.stats = append(assets.stats, nflverse.WeeklyStatRow{
		PlayerID: "99-9999999", Name: "Total Stranger", Team: "XX", Position: "WR", Season: 2024, Week: 3,
		Stats: scoring.PlayerStats{ReceivingYards: 50},
	})

	agg := NewWeekAggregator(assets, nil, newFakeCache(), quietLogger(), AggregatorOptions{})

	results, err := agg.AggregateWeek(context.Background(), 2024, 3, fantasy.ModeWeekly)
	require.NoError(t, err)

	var unknown *fantasy.SchoolAggregate
	for i := range results {
		if results[i].College == fantasy.UnknownCollege {
			unknown = &results[i]
		}
	}
	require.NotNil(t, unknown)
	assert.Equal(t, 5.0, unknown.TotalPoints)
}

func TestAggregateWeekPersistsLines(t *testing.T) {
	store := testStore(t)
	agg := NewWeekAggregator(testAssets(), store, newFakeCache(), quietLogger(), AggregatorOptions{})

	_, err := agg.AggregateWeek(context.Background(), 2024, 3, fantasy.ModeWeekly)
	require.NoError(t, err)

	lines, err := store.WeeklyLines(2024, 3)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Alabama", lines[0].College)

	records, err := store.RosterRecords(2024)
	require.NoError(t, err)
	assert.Len(t, records, 3, "roster fetched once and persisted")
}

func TestRosterRecordsCanonicalize(t *testing.T) {
	rows := []nflverse.RosterRow{
		{GsisID: "00-0000001", Name: "Joe Passer", Team: "KC", College: "Ohio St.", Season: 2024},
		{GsisID: "00-0000002", Name: "Two School", Team: "SF", College: "Miami (FL); Southern California", Season: 2024},
		{Name: "", Season: 2024}, // no keys at all, dropped
	}

	records := RosterRecords(rows, 2024)
	require.Len(t, records, 2)
	assert.Equal(t, "Ohio State", records[0].College)
	assert.Equal(t, "Miami (FL);USC", records[1].College)
	assert.Equal(t, "00-0000001", records[0].AltIDMap()["gsis_id"])
}

func TestResolveWeekFromSchedule(t *testing.T) {
	assets := testAssets()
	kickoff := time.Date(2024, time.September, 8, 17, 0, 0, 0, time.UTC)
	for w := 1; w <= 4; w++ {
		assets.schedule = append(assets.schedule, nflverse.ScheduleGame{
			Season: 2024, Week: w, GameType: "REG", Kickoff: kickoff.AddDate(0, 0, 7*(w-1)),
		})
	}

	agg := NewWeekAggregator(assets, nil, newFakeCache(), quietLogger(), AggregatorOptions{})

	ref, err := agg.ResolveWeek(context.Background(), 2024, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 2024, ref.Season)
	assert.Equal(t, 2, ref.Week)
}

func TestResolveWeekFallsBackWithoutSchedule(t *testing.T) {
	agg := NewWeekAggregator(testAssets(), nil, newFakeCache(), quietLogger(), AggregatorOptions{})

	ref, err := agg.ResolveWeek(context.Background(), 2024, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 2023, ref.Season)
	assert.Equal(t, 18, ref.Week)
}

func TestGsisVariants(t *testing.T) {
	assert.Contains(t, gsisVariants("00-0012345"), "00-12345")
	assert.Contains(t, gsisVariants("00-12345"), "00-0012345")
	assert.Nil(t, gsisVariants("TackMi00"))
}
