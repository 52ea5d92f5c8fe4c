package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/almafantasy/engine/internal/fantasy"
	"github.com/almafantasy/engine/internal/identity"
	"github.com/almafantasy/engine/internal/models"
	"github.com/almafantasy/engine/internal/nflverse"
	"github.com/almafantasy/engine/internal/schedule"
	"github.com/almafantasy/engine/internal/schools"
	"github.com/almafantasy/engine/internal/scoring"
)

// AssetSource is the slice of the nflverse client the aggregator needs.
// Narrowed to an interface so tests can feed canned rows.
type AssetSource interface {
	FetchWeeklyStats(ctx context.Context, season int) ([]nflverse.WeeklyStatRow, error)
	FetchRosters(ctx context.Context, season int) ([]nflverse.RosterRow, error)
	FetchSnapCounts(ctx context.Context, season int) ([]nflverse.SnapCountRow, error)
	FetchTeamDefense(ctx context.Context, season int) ([]nflverse.TeamDefenseRow, error)
	FetchSchedule(ctx context.Context, season int) ([]nflverse.ScheduleGame, error)
}

// AggregatorOptions fix the lineup and caching behavior for one aggregator.
type AggregatorOptions struct {
	IncludeKicker bool
	Defense       fantasy.DefenseMode
	CacheTTL      time.Duration
}

// WeekAggregator turns one NFL week's raw assets into per-college
// aggregates: resolve identities, canonicalize colleges, score, select
// lineups, cache.
type WeekAggregator struct {
	assets AssetSource
	store  *SeasonStore
	cache  fantasy.CacheProvider
	logger *logrus.Logger
	opts   AggregatorOptions

	mu        sync.Mutex
	resolvers map[int]*identity.Resolver
}

func NewWeekAggregator(assets AssetSource, store *SeasonStore, cache fantasy.CacheProvider, logger *logrus.Logger, opts AggregatorOptions) *WeekAggregator {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	if opts.Defense == "" {
		opts.Defense = fantasy.DefenseNone
	}
	return &WeekAggregator{
		assets:    assets,
		store:     store,
		cache:     cache,
		logger:    logger,
		opts:      opts,
		resolvers: make(map[int]*identity.Resolver),
	}
}

// weekAssets is what the parallel fetch of one week's inputs produces.
type weekAssets struct {
	stats   []nflverse.WeeklyStatRow
	snaps   []nflverse.SnapCountRow
	defense []nflverse.TeamDefenseRow
}

// AggregateWeek produces the per-college aggregates for one NFL week.
// Returns ErrNotAvailable (wrapped) when the week's stats have not been
// published yet; callers surface that as "pending", not as a failure.
func (a *WeekAggregator) AggregateWeek(ctx context.Context, season, week int, mode fantasy.ScoringMode) ([]fantasy.SchoolAggregate, error) {
	cacheKey := AggregateCacheKey(season, week, mode, a.opts.IncludeKicker, a.opts.Defense)
	if a.cache != nil {
		var cached []fantasy.SchoolAggregate
		if err := a.cache.GetSimple(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	resolver, err := a.resolverForSeason(ctx, season)
	if err != nil {
		return nil, err
	}

	assets, err := a.fetchWeekAssets(ctx, season)
	if err != nil {
		return nil, err
	}

	lines := a.buildLines(resolver, assets.stats, season, week)
	if len(lines) == 0 {
		return nil, &nflverse.ErrNotAvailable{Asset: "player_stats", Season: season, Week: week}
	}

	a.persistLines(season, week, lines)

	scoringOpts := scoring.Options{
		IncludeKicker: a.opts.IncludeKicker,
		Defense:       a.opts.Defense,
	}
	if a.opts.Defense == fantasy.DefenseApprox {
		lines = appendDefensiveLines(resolver, lines, assets.snaps, season, week)
		scoringOpts.DefenseData = buildDefenseData(resolver, assets.snaps, assets.defense, week)
	}

	aggregates := scoring.AggregateByCollege(lines, season, week, mode, scoringOpts)

	if a.cache != nil && len(aggregates) > 0 {
		if err := a.cache.SetSimple(cacheKey, aggregates, a.opts.CacheTTL); err != nil {
			a.logger.WithError(err).Warn("Failed to cache aggregates")
		}
	}

	a.logger.WithFields(logrus.Fields{
		"component": "aggregator",
		"season":    season,
		"week":      week,
		"mode":      mode,
		"colleges":  len(aggregates),
		"lines":     len(lines),
	}).Info("Week aggregated")

	return aggregates, nil
}

// ResolveWeek maps a CFB week onto the NFL (season, week) whose stats it
// should use, from the published NFL schedule.
func (a *WeekAggregator) ResolveWeek(ctx context.Context, nflSeason, cfbWeek int, cfbKickoffs []time.Time) (schedule.CfbWeekReference, error) {
	games, err := a.assets.FetchSchedule(ctx, nflSeason)
	if err != nil && !nflverse.IsNotAvailable(err) {
		return schedule.CfbWeekReference{}, err
	}

	scheduleGames := make([]schedule.Game, 0, len(games))
	for _, g := range games {
		scheduleGames = append(scheduleGames, schedule.Game{
			Season:   g.Season,
			Week:     g.Week,
			GameType: g.GameType,
			Kickoff:  g.Kickoff,
		})
	}

	windows := schedule.BuildWeekWindows(scheduleGames)
	return schedule.MapCfbWeekToNflWeek(cfbKickoffs, windows, cfbWeek, nflSeason-1), nil
}

// resolverForSeason returns the season's identity resolver, building it from
// the stored roster or, when the store is empty, from a fresh roster fetch.
// Built once per season per process.
func (a *WeekAggregator) resolverForSeason(ctx context.Context, season int) (*identity.Resolver, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.resolvers[season]; ok {
		return r, nil
	}

	records, err := a.loadOrFetchRoster(ctx, season)
	if err != nil {
		return nil, err
	}

	index := identity.BuildSeasonIndex(season, records)
	a.logger.WithFields(logrus.Fields{
		"component": "aggregator",
		"season":    season,
		"players":   index.Len(),
	}).Info("Identity index built")

	r := identity.NewResolver(index)
	a.resolvers[season] = r
	return r, nil
}

func (a *WeekAggregator) loadOrFetchRoster(ctx context.Context, season int) ([]models.MasterPlayerRecord, error) {
	if a.store != nil {
		records, err := a.store.RosterRecords(season)
		if err == nil && len(records) > 0 {
			return records, nil
		}
		if err != nil {
			a.logger.WithError(err).Warn("Roster load failed, refetching")
		}
	}

	rows, err := a.assets.FetchRosters(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}

	records := RosterRecords(rows, season)
	if a.store != nil {
		if err := a.store.ReplaceRoster(season, records); err != nil {
			a.logger.WithError(err).Warn("Roster persist failed")
		}
	}
	return records, nil
}

// RosterRecords converts roster rows into master records, canonicalizing the
// college field once so every later lookup reuses the stored form.
func RosterRecords(rows []nflverse.RosterRow, season int) []models.MasterPlayerRecord {
	records := make([]models.MasterPlayerRecord, 0, len(rows))
	for _, row := range rows {
		if row.Season != 0 && row.Season != season {
			continue
		}
		primary := row.GsisID
		if primary == "" {
			primary = row.PfrID
		}
		if primary == "" && row.Name == "" {
			continue
		}

		rec := models.MasterPlayerRecord{
			Season:     season,
			PrimaryID:  primary,
			Name:       row.Name,
			Team:       row.Team,
			Position:   row.Position,
			RawCollege: row.College,
			College:    canonicalCollegeList(row.College),
			Week:       row.Week,
		}
		alts := map[string]string{}
		if row.GsisID != "" {
			alts["gsis_id"] = row.GsisID
		}
		if row.PfrID != "" {
			alts["pfr_id"] = row.PfrID
		}
		if row.EspnID != "" {
			alts["espn_id"] = row.EspnID
		}
		if row.SleeperID != "" {
			alts["sleeper_id"] = row.SleeperID
		}
		if err := rec.SetAltIDs(alts); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// canonicalCollegeList canonicalizes a possibly semicolon-delimited college
// field, preserving the delimiter for dual-affiliation records.
func canonicalCollegeList(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool)
	for _, p := range parts {
		name := schools.Canonicalize(p)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return strings.Join(out, ";")
}

// fetchWeekAssets pulls the week's three stat assets in parallel. Stats are
// mandatory; snaps and team defense degrade to empty with a warning, since
// they only feed the approximate defense credit.
func (a *WeekAggregator) fetchWeekAssets(ctx context.Context, season int) (weekAssets, error) {
	type fetchResult struct {
		asset string
		value interface{}
		err   error
	}

	wantDefense := a.opts.Defense == fantasy.DefenseApprox
	n := 1
	if wantDefense {
		n = 3
	}

	var wg sync.WaitGroup
	results := make(chan fetchResult, n)

	wg.Add(1)
	go func() {
		defer wg.Done()
		rows, err := a.assets.FetchWeeklyStats(ctx, season)
		results <- fetchResult{asset: "player_stats", value: rows, err: err}
	}()

	if wantDefense {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := a.assets.FetchSnapCounts(ctx, season)
			results <- fetchResult{asset: "snap_counts", value: rows, err: err}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := a.assets.FetchTeamDefense(ctx, season)
			results <- fetchResult{asset: "stats_team", value: rows, err: err}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var out weekAssets
	for result := range results {
		if result.err != nil {
			if result.asset == "player_stats" {
				return weekAssets{}, result.err
			}
			a.logger.WithError(result.err).WithField("asset", result.asset).
				Warn("Optional asset unavailable, defense credit degraded")
			continue
		}
		switch rows := result.value.(type) {
		case []nflverse.WeeklyStatRow:
			out.stats = rows
		case []nflverse.SnapCountRow:
			out.snaps = rows
		case []nflverse.TeamDefenseRow:
			out.defense = rows
		}
	}
	return out, nil
}

// buildLines resolves every stat row for the week into a scored, college-
// attributed line. Rows that miss the index entirely land in the Unknown
// bucket rather than being dropped.
func (a *WeekAggregator) buildLines(resolver *identity.Resolver, stats []nflverse.WeeklyStatRow, season, week int) []fantasy.WeeklyPlayerLine {
	averages := a.seasonAverages(season, week)

	lines := make([]fantasy.WeeklyPlayerLine, 0, len(stats))
	for _, row := range stats {
		if row.Week != week {
			continue
		}

		cand := identity.Candidate{
			PrimaryID: row.PlayerID,
			GsisIDs:   gsisVariants(row.PlayerID),
			Name:      row.Name,
			Team:      row.Team,
		}

		line := fantasy.WeeklyPlayerLine{
			PlayerID: row.PlayerID,
			Name:     row.Name,
			Position: row.Position,
			Team:     row.Team,
			Colleges: resolver.ResolveColleges(cand, week),
			Season:   season,
			Week:     week,
			Points:   scoring.PlayerPoints(row.Stats),
		}
		if rec := resolver.Resolve(cand, week); rec != nil {
			line.PlayerID = rec.PrimaryID
			if line.Position == "" {
				line.Position = rec.Position
			}
		}
		line.Average = averages[line.PlayerID]
		lines = append(lines, line)
	}
	return lines
}

// seasonAverages loads per-player averages over weeks before the given one.
// Week 1 and a missing store both mean no history: averages stay zero and
// manager mode degrades to weekly selection.
func (a *WeekAggregator) seasonAverages(season, week int) map[string]float64 {
	if a.store == nil || week <= 1 {
		return map[string]float64{}
	}
	avgs, err := a.store.SeasonAverages(season, week-1)
	if err != nil {
		a.logger.WithError(err).Warn("Season averages unavailable")
		return map[string]float64{}
	}
	return avgs
}

func (a *WeekAggregator) persistLines(season, week int, lines []fantasy.WeeklyPlayerLine) {
	if a.store == nil {
		return
	}
	stored := make([]models.WeeklyLine, 0, len(lines))
	for _, line := range lines {
		stored = append(stored, models.WeeklyLine{
			Season:   season,
			Week:     week,
			PlayerID: line.PlayerID,
			Name:     line.Name,
			Position: line.Position,
			Team:     line.Team,
			College:  strings.Join(line.Colleges, ";"),
			Points:   line.Points,
		})
	}
	if err := a.store.ReplaceWeeklyLines(season, week, stored); err != nil {
		a.logger.WithError(err).Warn("Weekly line persist failed")
	}
}

// appendDefensiveLines adds a zero-point line for every defensive snap
// player missing from the stat rows. The weekly stat asset is offense-only,
// but defense credit buckets by college through the same lines, so defensive
// players need a presence there too.
func appendDefensiveLines(resolver *identity.Resolver, lines []fantasy.WeeklyPlayerLine, snaps []nflverse.SnapCountRow, season, week int) []fantasy.WeeklyPlayerLine {
	present := make(map[string]bool, len(lines))
	for _, line := range lines {
		present[line.PlayerID] = true
	}

	for _, row := range snaps {
		if row.Week != week || row.DefenseSnaps <= 0 {
			continue
		}
		cand := identity.Candidate{PrimaryID: row.PlayerID, Name: row.Name, Team: row.Team}
		rec := resolver.Resolve(cand, week)

		playerID := row.PlayerID
		position := row.Position
		if rec != nil {
			playerID = rec.PrimaryID
			if position == "" {
				position = rec.Position
			}
		}
		if playerID == "" || present[playerID] {
			continue
		}
		present[playerID] = true

		lines = append(lines, fantasy.WeeklyPlayerLine{
			PlayerID: playerID,
			Name:     row.Name,
			Position: position,
			Team:     row.Team,
			Colleges: resolver.ResolveColleges(cand, week),
			Season:   season,
			Week:     week,
		})
	}
	return lines
}

// buildDefenseData shapes the week's snap counts and team defense stats into
// the scoring engine's defense context. Snap rows key on the pfr id family,
// so each is resolved back to its primary id to line up with the scored
// lines; unresolved rows keep the raw id and still count toward team totals.
func buildDefenseData(resolver *identity.Resolver, snaps []nflverse.SnapCountRow, defense []nflverse.TeamDefenseRow, week int) *scoring.DefenseData {
	data := &scoring.DefenseData{
		PlayerSnaps: make(map[string]float64),
		TeamSnaps:   make(map[string]float64),
		TeamPoints:  make(map[string]float64),
	}
	for _, row := range snaps {
		if row.Week != week || row.DefenseSnaps <= 0 {
			continue
		}
		key := row.PlayerID
		cand := identity.Candidate{PrimaryID: row.PlayerID, Name: row.Name, Team: row.Team}
		if rec := resolver.Resolve(cand, week); rec != nil {
			key = rec.PrimaryID
		}
		data.PlayerSnaps[key] += row.DefenseSnaps
		data.TeamSnaps[row.Team] += row.DefenseSnaps
	}
	for _, row := range defense {
		if row.Week != week {
			continue
		}
		data.TeamPoints[row.Team] = scoring.TeamDefensePoints(row.Stats)
	}
	return data
}

// gsisVariants generates the zero-padding variants the gsis family shows up
// with across assets ("00-0012345" vs "00-12345").
func gsisVariants(id string) []string {
	if !strings.HasPrefix(id, "00-") {
		return nil
	}
	tail := strings.TrimPrefix(id, "00-")
	variants := []string{id}
	if trimmed := strings.TrimLeft(tail, "0"); trimmed != tail && trimmed != "" {
		variants = append(variants, "00-"+trimmed)
	}
	if len(tail) < 7 {
		variants = append(variants, "00-"+strings.Repeat("0", 7-len(tail))+tail)
	}
	return variants
}
