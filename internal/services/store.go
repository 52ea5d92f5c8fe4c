package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/almafantasy/engine/internal/models"
)

// SeasonStore persists the reconciled roster records and per-week scoring
// lines so averages can be rebuilt without refetching upstream assets.
type SeasonStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewSeasonStore(db *gorm.DB, logger *logrus.Logger) *SeasonStore {
	return &SeasonStore{db: db, logger: logger}
}

// Migrate creates or updates the backing tables.
func (s *SeasonStore) Migrate() error {
	return s.db.AutoMigrate(&models.MasterPlayerRecord{}, &models.WeeklyLine{})
}

// ReplaceRoster swaps the stored roster for a season in one transaction.
// Rosters are re-derived wholesale from upstream on every refresh, so a
// replace is simpler and safer than diffing.
func (s *SeasonStore) ReplaceRoster(season int, records []models.MasterPlayerRecord) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season = ?", season).Delete(&models.MasterPlayerRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 500).Error
	})
	if err != nil {
		return fmt.Errorf("replacing roster for season %d: %w", season, err)
	}

	s.logger.WithFields(logrus.Fields{
		"component": "season_store",
		"season":    season,
		"records":   len(records),
	}).Info("Roster replaced")
	return nil
}

// RosterRecords loads every roster record for the season, ordered for a
// deterministic identity index build.
func (s *SeasonStore) RosterRecords(season int) ([]models.MasterPlayerRecord, error) {
	var records []models.MasterPlayerRecord
	err := s.db.
		Where("season = ?", season).
		Order("week, primary_id, id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading roster for season %d: %w", season, err)
	}
	return records, nil
}

// ReplaceWeeklyLines swaps the stored scoring lines for one week.
func (s *SeasonStore) ReplaceWeeklyLines(season, week int, lines []models.WeeklyLine) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season = ? AND week = ?", season, week).Delete(&models.WeeklyLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.CreateInBatches(lines, 500).Error
	})
	if err != nil {
		return fmt.Errorf("replacing lines for season %d week %d: %w", season, week, err)
	}
	return nil
}

// WeeklyLines loads the stored lines for one week.
func (s *SeasonStore) WeeklyLines(season, week int) ([]models.WeeklyLine, error) {
	var lines []models.WeeklyLine
	err := s.db.
		Where("season = ? AND week = ?", season, week).
		Order("player_id").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("loading lines for season %d week %d: %w", season, week, err)
	}
	return lines, nil
}

// SeasonAverages computes each player's season-to-date average points over
// weeks 1..throughWeek from the stored lines.
func (s *SeasonStore) SeasonAverages(season, throughWeek int) (map[string]float64, error) {
	type row struct {
		PlayerID string
		Avg      float64
	}
	var rows []row
	err := s.db.
		Model(&models.WeeklyLine{}).
		Select("player_id, AVG(points) AS avg").
		Where("season = ? AND week <= ?", season, throughWeek).
		Group("player_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("computing averages for season %d: %w", season, err)
	}

	avgs := make(map[string]float64, len(rows))
	for _, r := range rows {
		avgs[r.PlayerID] = r.Avg
	}
	return avgs, nil
}
