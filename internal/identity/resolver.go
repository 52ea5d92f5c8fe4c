package identity

import (
	"sort"
	"strings"

	"github.com/almafantasy/engine/internal/fantasy"
	"github.com/almafantasy/engine/internal/models"
	"github.com/almafantasy/engine/internal/schools"
)

// Resolver answers "which master record is this stat row about". Resolution
// is read-only against the prebuilt index; it has no side effects.
type Resolver struct {
	index *SeasonIndex
}

func NewResolver(index *SeasonIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve walks the fallback chain, scoped first to the given week's roster
// snapshot and then to the full season. Returns nil when every key misses.
func (r *Resolver) Resolve(cand Candidate, week int) *models.MasterPlayerRecord {
	if scope, ok := r.index.weeks[week]; ok {
		if rec := resolveInScope(scope, cand); rec != nil {
			return rec
		}
	}
	return resolveInScope(r.index.season, cand)
}

// resolveInScope tries each fallback key in priority order; the first
// non-empty hit wins. An id match always beats a name match.
func resolveInScope(scope *scopeIndex, cand Candidate) *models.MasterPlayerRecord {
	// 1. Primary id.
	if cand.PrimaryID != "" {
		if rec, ok := scope.byID[cand.PrimaryID]; ok {
			return rec
		}
	}

	// 2. Any declared alternate id, in deterministic family order.
	for _, id := range sortedCandidateAltIDs(cand) {
		if rec, ok := scope.byAltID[id]; ok {
			return rec
		}
		if rec, ok := scope.byID[id]; ok {
			return rec
		}
	}

	// 3. gsis variants, when (1)-(2) miss.
	for _, id := range cand.GsisIDs {
		if id == "" {
			continue
		}
		if rec, ok := scope.byAltID[id]; ok {
			return rec
		}
		if rec, ok := scope.byID[id]; ok {
			return rec
		}
	}

	name := NormalizeName(cand.Name)
	if name == "" {
		return nil
	}

	// 4. Normalized name + team.
	if cand.Team != "" {
		if rec, ok := scope.byNameTeam[nameTeamKey(name, cand.Team)]; ok {
			return rec
		}
	}

	// 5. Name alone. Accepts cross-team ambiguity as a last resort.
	if rec, ok := scope.byName[name]; ok {
		return rec
	}
	return nil
}

func sortedCandidateAltIDs(cand Candidate) []string {
	if len(cand.AltIDs) == 0 {
		return nil
	}
	families := make([]string, 0, len(cand.AltIDs))
	for f := range cand.AltIDs {
		families = append(families, f)
	}
	sort.Strings(families)
	out := make([]string, 0, len(cand.AltIDs))
	for _, f := range families {
		if v := strings.TrimSpace(cand.AltIDs[f]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ResolveColleges resolves the row and returns the set of canonical colleges
// it should be credited to. Transfer/dual-affiliation records carry a
// semicolon-delimited college list upstream; each entry canonicalizes
// separately. A total miss (or an empty college) yields the Unknown bucket.
func (r *Resolver) ResolveColleges(cand Candidate, week int) []string {
	rec := r.Resolve(cand, week)
	if rec == nil {
		return []string{fantasy.UnknownCollege}
	}
	return CollegeSet(rec)
}

// CollegeSet splits a master record's raw college field into its canonical
// set, preferring the precomputed College column when one is present.
func CollegeSet(rec *models.MasterPlayerRecord) []string {
	raw := rec.College
	if raw == "" {
		raw = rec.RawCollege
	}
	seen := make(map[string]bool)
	out := make([]string, 0, 1)
	for _, part := range strings.Split(raw, ";") {
		name := schools.Canonicalize(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return []string{fantasy.UnknownCollege}
	}
	return out
}
