package scoring

import (
	"sort"

	"github.com/almafantasy/engine/internal/fantasy"
)

// maxDefenseContributors caps how many defensive players share a college's
// defense credit. Ties on equal credit break by player id ascending so the
// cut is deterministic.
const maxDefenseContributors = 11

// DefenseData is the week's snap-count and team-defense context, keyed by
// player id and team code.
type DefenseData struct {
	// PlayerSnaps: player id -> defensive snaps played this week.
	PlayerSnaps map[string]float64
	// TeamSnaps: team -> total defensive snaps this week.
	TeamSnaps map[string]float64
	// TeamPoints: team -> DST fantasy points this week.
	TeamPoints map[string]float64
}

// defensePerformer computes the approximate defense credit for one college
// bucket. There is no official per-player DST scoring, so each defensive
// player earns his team's DST points prorated by snap share, and the top
// contributors roll up into one synthetic "Defense" row whose metadata
// lists every contributor for display.
func defensePerformer(bucket []fantasy.WeeklyPlayerLine, data *DefenseData) (fantasy.Performer, bool) {
	seen := make(map[string]bool)
	contributors := make([]fantasy.DefenseContributor, 0, 4)

	for _, line := range bucket {
		if offensivePositions[line.Position] || line.PlayerID == "" || seen[line.PlayerID] {
			continue
		}
		snaps, ok := data.PlayerSnaps[line.PlayerID]
		if !ok || snaps <= 0 {
			continue
		}
		teamSnaps := data.TeamSnaps[line.Team]
		if teamSnaps <= 0 {
			continue
		}
		seen[line.PlayerID] = true
		share := snaps / teamSnaps
		credit := Round2(data.TeamPoints[line.Team] * share)
		contributors = append(contributors, fantasy.DefenseContributor{
			PlayerID: line.PlayerID,
			Label:    line.Name + " (" + line.Team + ")",
			Credit:   credit,
		})
	}

	if len(contributors) == 0 {
		return fantasy.Performer{}, false
	}

	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].Credit != contributors[j].Credit {
			return contributors[i].Credit > contributors[j].Credit
		}
		return contributors[i].PlayerID < contributors[j].PlayerID
	})
	if len(contributors) > maxDefenseContributors {
		contributors = contributors[:maxDefenseContributors]
	}

	total := 0.0
	for _, c := range contributors {
		total += c.Credit
	}

	return fantasy.Performer{
		Name:         "Defense",
		Position:     "DEF",
		Slot:         "DEF",
		Points:       Round2(total),
		Contributors: contributors,
	}, true
}
