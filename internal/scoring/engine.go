// Package scoring folds resolved weekly player lines into per-college
// aggregates: it groups lines by canonical college, selects the
// highest-value starting lineup per college, and optionally attaches an
// approximate team-defense credit prorated by snap participation.
package scoring

import (
	"sort"

	"github.com/almafantasy/engine/internal/fantasy"
)

// Starting slots per college bucket. FLEX is filled from the best remaining
// WR/RB/TE after the fixed slots; the kicker slot is a toggle.
var slotCounts = map[string]int{
	"QB": 1,
	"TE": 1,
	"WR": 2,
	"RB": 2,
	"K":  1,
}

var flexPositions = map[string]bool{"WR": true, "RB": true, "TE": true}

// offensivePositions are the pools lineup selection draws from; anything
// else is a defensive position and only participates in the defense credit.
var offensivePositions = map[string]bool{
	"QB": true, "RB": true, "WR": true, "TE": true, "K": true,
}

// Options control lineup shape and defense crediting for one aggregation.
type Options struct {
	IncludeKicker bool
	Defense       fantasy.DefenseMode
	// DefenseData must be set when Defense is DefenseApprox.
	DefenseData *DefenseData
}

// AggregateByCollege buckets every line into its college(s), selects a
// lineup per bucket, and returns the aggregates sorted by total descending.
// In manager mode the rolling average decides who starts; reported points
// are always the week's actuals.
func AggregateByCollege(lines []fantasy.WeeklyPlayerLine, season, week int, mode fantasy.ScoringMode, opts Options) []fantasy.SchoolAggregate {
	buckets := make(map[string][]fantasy.WeeklyPlayerLine)
	for _, line := range lines {
		colleges := line.Colleges
		if len(colleges) == 0 {
			colleges = []string{fantasy.UnknownCollege}
		}
		for _, college := range colleges {
			buckets[college] = append(buckets[college], line)
		}
	}

	aggregates := make([]fantasy.SchoolAggregate, 0, len(buckets))
	for college, bucket := range buckets {
		agg := fantasy.SchoolAggregate{
			College: college,
			Season:  season,
			Week:    week,
			Mode:    mode,
		}
		agg.Performers = selectLineup(bucket, mode, opts.IncludeKicker)

		total := 0.0
		for _, p := range agg.Performers {
			total += p.Points
		}

		if opts.Defense == fantasy.DefenseApprox && opts.DefenseData != nil {
			if def, ok := defensePerformer(bucket, opts.DefenseData); ok {
				agg.Performers = append(agg.Performers, def)
				total += def.Points
			}
		}

		agg.TotalPoints = Round2(total)
		aggregates = append(aggregates, agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].TotalPoints != aggregates[j].TotalPoints {
			return aggregates[i].TotalPoints > aggregates[j].TotalPoints
		}
		return aggregates[i].College < aggregates[j].College
	})
	return aggregates
}

// selectLineup fills the fixed slots from each position pool ranked by
// selector score, then the FLEX slot from the best remaining WR/RB/TE.
func selectLineup(bucket []fantasy.WeeklyPlayerLine, mode fantasy.ScoringMode, includeKicker bool) []fantasy.Performer {
	pools := make(map[string][]fantasy.WeeklyPlayerLine)
	for _, line := range bucket {
		if offensivePositions[line.Position] {
			pools[line.Position] = append(pools[line.Position], line)
		}
	}
	for pos := range pools {
		rankBySelector(pools[pos], mode)
	}

	selected := make(map[string]bool)
	performers := make([]fantasy.Performer, 0, 8)

	take := func(pos string, count int) {
		for _, line := range pools[pos] {
			if count == 0 {
				break
			}
			if selected[lineKey(line)] {
				continue
			}
			selected[lineKey(line)] = true
			performers = append(performers, asPerformer(line, pos))
			count--
		}
	}

	take("QB", slotCounts["QB"])
	take("TE", slotCounts["TE"])
	take("WR", slotCounts["WR"])
	take("RB", slotCounts["RB"])
	if includeKicker {
		take("K", slotCounts["K"])
	}

	// FLEX: best remaining WR/RB/TE by selector score.
	var flexPool []fantasy.WeeklyPlayerLine
	for pos := range flexPositions {
		for _, line := range pools[pos] {
			if !selected[lineKey(line)] {
				flexPool = append(flexPool, line)
			}
		}
	}
	rankBySelector(flexPool, mode)
	if len(flexPool) > 0 {
		selected[lineKey(flexPool[0])] = true
		performers = append(performers, asPerformer(flexPool[0], "FLEX"))
	}

	return performers
}

// rankBySelector orders a pool by selector score descending, breaking ties
// by player id so selection is deterministic.
func rankBySelector(pool []fantasy.WeeklyPlayerLine, mode fantasy.ScoringMode) {
	sort.SliceStable(pool, func(i, j int) bool {
		si, sj := selectorScore(pool[i], mode), selectorScore(pool[j], mode)
		if si != sj {
			return si > sj
		}
		return pool[i].PlayerID < pool[j].PlayerID
	})
}

// selectorScore only decides who starts; the reported points of a selected
// player are always the actual week's points.
func selectorScore(line fantasy.WeeklyPlayerLine, mode fantasy.ScoringMode) float64 {
	if mode == fantasy.ModeManager {
		return line.Average
	}
	return line.Points
}

func asPerformer(line fantasy.WeeklyPlayerLine, slot string) fantasy.Performer {
	return fantasy.Performer{
		Name:     line.Name,
		Position: line.Position,
		Slot:     slot,
		Team:     line.Team,
		Points:   Round2(line.Points),
	}
}

// lineKey identifies one player line within a bucket. Falls back to
// name|team when the row carried no stable id.
func lineKey(line fantasy.WeeklyPlayerLine) string {
	if line.PlayerID != "" {
		return line.PlayerID
	}
	return line.Name + "|" + line.Team
}
