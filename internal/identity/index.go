// Package identity joins heterogeneous weekly stat rows to roster/master
// player records. Upstream providers disagree about which id a player is
// keyed by (and some rows carry no stable id at all), so resolution walks a
// prioritized chain of fallback keys against a prebuilt season index.
package identity

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/almafantasy/engine/internal/models"
)

// Candidate is the bag of fallback keys extracted from one raw stat row.
// Built per row and discarded after resolution.
type Candidate struct {
	PrimaryID string
	// AltIDs maps id family -> value (gsis_id, pfr_id, espn_id, sleeper_id...).
	AltIDs map[string]string
	// GsisIDs are the gsis-family variants, tried as a separate fallback
	// when both the primary and the alternate ids miss.
	GsisIDs []string
	Name    string
	Team    string
}

// scopeIndex holds the four lookup maps for one scope (a weekly roster
// snapshot, or the full season).
type scopeIndex struct {
	byID       map[string]*models.MasterPlayerRecord
	byAltID    map[string]*models.MasterPlayerRecord
	byNameTeam map[string]*models.MasterPlayerRecord
	byName     map[string]*models.MasterPlayerRecord
}

func newScopeIndex() *scopeIndex {
	return &scopeIndex{
		byID:       make(map[string]*models.MasterPlayerRecord),
		byAltID:    make(map[string]*models.MasterPlayerRecord),
		byNameTeam: make(map[string]*models.MasterPlayerRecord),
		byName:     make(map[string]*models.MasterPlayerRecord),
	}
}

func (s *scopeIndex) add(rec *models.MasterPlayerRecord) {
	if rec.PrimaryID != "" {
		if _, taken := s.byID[rec.PrimaryID]; !taken {
			s.byID[rec.PrimaryID] = rec
		}
	}
	for _, id := range sortedAltIDs(rec) {
		if _, taken := s.byAltID[id]; !taken {
			s.byAltID[id] = rec
		}
	}
	name := NormalizeName(rec.Name)
	if name == "" {
		return
	}
	if rec.Team != "" {
		key := nameTeamKey(name, rec.Team)
		if _, taken := s.byNameTeam[key]; !taken {
			s.byNameTeam[key] = rec
		}
	}
	if _, taken := s.byName[name]; !taken {
		s.byName[name] = rec
	}
}

// sortedAltIDs returns the record's alternate id values in family order, so
// index construction is deterministic when two families share a value.
func sortedAltIDs(rec *models.MasterPlayerRecord) []string {
	alts := rec.AltIDMap()
	if len(alts) == 0 {
		return nil
	}
	families := make([]string, 0, len(alts))
	for f := range alts {
		families = append(families, f)
	}
	sort.Strings(families)
	out := make([]string, 0, len(alts))
	for _, f := range families {
		if v := strings.TrimSpace(alts[f]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SeasonIndex is the season-scoped lookup structure. Built once from all
// loaded master rows, then published as read-only: no mutation after Build,
// unlimited concurrent readers.
type SeasonIndex struct {
	Season int
	weeks  map[int]*scopeIndex
	season *scopeIndex
}

// BuildSeasonIndex scans the master rows once and populates the lookup maps.
// Records with Week > 0 are roster snapshots and index into both their week
// scope and the season scope; Week == 0 records are season-level only.
func BuildSeasonIndex(season int, records []models.MasterPlayerRecord) *SeasonIndex {
	idx := &SeasonIndex{
		Season: season,
		weeks:  make(map[int]*scopeIndex),
		season: newScopeIndex(),
	}
	for i := range records {
		rec := &records[i]
		if rec.Season != season {
			continue
		}
		if rec.Week > 0 {
			week, ok := idx.weeks[rec.Week]
			if !ok {
				week = newScopeIndex()
				idx.weeks[rec.Week] = week
			}
			week.add(rec)
		}
		idx.season.add(rec)
	}
	return idx
}

// Len reports how many distinct primary ids the season scope holds.
func (idx *SeasonIndex) Len() int {
	return len(idx.season.byID)
}

// NormalizeName prepares a player name for matching: case-fold, collapse
// internal whitespace, strip diacritics. This is match-key normalization for
// player names, not the school canonicalizer.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, name); err == nil {
		name = out
	}
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func nameTeamKey(normalizedName, team string) string {
	return normalizedName + "|" + strings.ToUpper(strings.TrimSpace(team))
}
