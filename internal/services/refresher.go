package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/almafantasy/engine/internal/fantasy"
	"github.com/almafantasy/engine/internal/nflverse"
	"github.com/almafantasy/engine/internal/schedule"
)

// Refresher re-aggregates the most recently finalized NFL week on a cron
// schedule, keeping the cache warm in both scoring modes.
type Refresher struct {
	aggregator *WeekAggregator
	logger     *logrus.Logger
	season     int
	spec       string
	cron       *cron.Cron
}

// NewRefresher builds a refresher for one season. spec is a standard cron
// expression, e.g. "*/30 * * * *".
func NewRefresher(aggregator *WeekAggregator, season int, spec string, logger *logrus.Logger) *Refresher {
	return &Refresher{
		aggregator: aggregator,
		logger:     logger,
		season:     season,
		spec:       spec,
	}
}

// Start schedules the refresh job and runs it once immediately so a fresh
// process does not wait a full interval for its first pass.
func (r *Refresher) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(r.spec, r.runOnce); err != nil {
		return err
	}
	c.Start()
	r.cron = c

	go r.runOnce()

	r.logger.WithFields(logrus.Fields{
		"component": "refresher",
		"season":    r.season,
		"schedule":  r.spec,
	}).Info("Refresher started")
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.logger.WithField("component", "refresher").Info("Refresher stopped")
}

func (r *Refresher) runOnce() {
	jobID := uuid.New().String()
	log := r.logger.WithFields(logrus.Fields{
		"component": "refresher",
		"job_id":    jobID,
		"season":    r.season,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	week, ok, err := r.currentWeek(ctx)
	if err != nil {
		log.WithError(err).Warn("Refresh skipped, schedule unavailable")
		return
	}
	if !ok {
		log.Info("Refresh skipped, no finalized week yet")
		return
	}

	for _, mode := range []fantasy.ScoringMode{fantasy.ModeWeekly, fantasy.ModeManager} {
		start := time.Now()
		aggregates, err := r.aggregator.AggregateWeek(ctx, r.season, week, mode)
		if err != nil {
			if nflverse.IsNotAvailable(err) {
				log.WithField("week", week).Info("Week stats pending upstream")
				return
			}
			log.WithError(err).WithField("week", week).Error("Refresh failed")
			return
		}
		log.WithFields(logrus.Fields{
			"week":     week,
			"mode":     mode,
			"colleges": len(aggregates),
			"elapsed":  time.Since(start).String(),
		}).Info("Week refreshed")
	}
}

// currentWeek finds the latest regular-season week whose stat cutoff has
// passed.
func (r *Refresher) currentWeek(ctx context.Context) (int, bool, error) {
	games, err := r.aggregator.assets.FetchSchedule(ctx, r.season)
	if err != nil {
		return 0, false, err
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

	window, ok := schedule.LatestFinalWeek(schedule.BuildWeekWindows(scheduleGames), time.Now().UTC())
	if !ok {
		return 0, false, nil
	}
	return window.Week, true, nil
}
