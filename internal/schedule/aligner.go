// Package schedule aligns the college-football calendar with the NFL
// calendar: it answers "which NFL week's box scores should a given CFB week
// be credited with". Everything here is a pure function of its inputs.
package schedule

import (
	"sort"
	"strings"
	"time"
)

// Game type tags as they appear in nflverse schedule assets.
const (
	GameTypePreseason  = "PRE"
	GameTypeRegular    = "REG"
	GameTypePostseason = "POST"
)

// weeklyCutoffHourUTC: weekly NFL stats are considered final once Tuesday
// morning arrives.
const weeklyCutoffHourUTC = 10

// Game is one scheduled NFL game.
type Game struct {
	Season   int
	Week     int
	GameType string
	Kickoff  time.Time
}

// WeekWindow is one NFL (season, week) with its computed stat cutoff and the
// set of game types observed in that week. Built once per season from the
// full schedule and read-only afterward.
type WeekWindow struct {
	Season    int
	Week      int
	Cutoff    time.Time
	GameTypes map[string]bool
}

// CfbWeekReference points a CFB week at the NFL week whose stats it uses.
type CfbWeekReference struct {
	Season int
	Week   int
}

// BuildWeekWindows groups schedule games by (season, week), computes each
// group's cutoff from its latest kickoff, and returns the windows sorted by
// cutoff ascending.
func BuildWeekWindows(games []Game) []WeekWindow {
	type key struct {
		season int
		week   int
	}
	groups := make(map[key]*WeekWindow)
	latest := make(map[key]time.Time)

	for _, g := range games {
		if g.Kickoff.IsZero() {
			continue
		}
		k := key{g.Season, g.Week}
		w, ok := groups[k]
		if !ok {
			w = &WeekWindow{Season: g.Season, Week: g.Week, GameTypes: make(map[string]bool)}
			groups[k] = w
		}
		if gt := normalizeGameType(g.GameType); gt != "" {
			w.GameTypes[gt] = true
		}
		if g.Kickoff.After(latest[k]) {
			latest[k] = g.Kickoff
		}
	}

	windows := make([]WeekWindow, 0, len(groups))
	for k, w := range groups {
		w.Cutoff = weekCutoff(latest[k])
		windows = append(windows, *w)
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Cutoff.Before(windows[j].Cutoff)
	})
	return windows
}

// weekCutoff is the Tuesday following the kickoff's week, 10:00 UTC. When a
// game runs so late that the naive Tuesday lands before or at the kickoff,
// the cutoff rolls forward a full week.
func weekCutoff(lastKickoff time.Time) time.Time {
	k := lastKickoff.UTC()
	daysAhead := (int(time.Tuesday) - int(k.Weekday()) + 7) % 7
	tuesday := time.Date(k.Year(), k.Month(), k.Day(), weeklyCutoffHourUTC, 0, 0, 0, time.UTC).
		AddDate(0, 0, daysAhead)
	if !tuesday.After(lastKickoff) {
		tuesday = tuesday.AddDate(0, 0, 7)
	}
	return tuesday
}

// MapCfbWeekToNflWeek picks the NFL (season, week) whose stats correspond to
// the given CFB week.
//
// CFB week 1 precedes the NFL regular season, so it maps to the latest
// preseason window. Later CFB weeks index into the regular-season windows at
// cfbWeek-2 (clamped): a CFB game's matching NFL box scores are attributed
// one week behind. When the windows carry no usable classification, the
// latest CFB kickoff decides via a forward scan; with no data at all the
// mapping falls back to the prior season's final regular week rather than
// failing.
func MapCfbWeekToNflWeek(cfbKickoffs []time.Time, windows []WeekWindow, cfbWeek int, priorSeason int) CfbWeekReference {
	if cfbWeek <= 1 {
		if ref, ok := latestWindowOfType(windows, GameTypePreseason); ok {
			return ref
		}
	} else {
		regular := windowsOfType(windows, GameTypeRegular)
		if len(regular) > 0 {
			idx := cfbWeek - 2
			if idx < 0 {
				idx = 0
			}
			if idx >= len(regular) {
				idx = len(regular) - 1
			}
			return CfbWeekReference{Season: regular[idx].Season, Week: regular[idx].Week}
		}
	}

	if ref, ok := windowForKickoff(windows, latestKickoff(cfbKickoffs)); ok {
		return ref
	}

	return CfbWeekReference{Season: priorSeason, Week: 18}
}

func latestWindowOfType(windows []WeekWindow, gameType string) (CfbWeekReference, bool) {
	of := windowsOfType(windows, gameType)
	if len(of) == 0 {
		return CfbWeekReference{}, false
	}
	last := of[len(of)-1]
	return CfbWeekReference{Season: last.Season, Week: last.Week}, true
}

func windowsOfType(windows []WeekWindow, gameType string) []WeekWindow {
	out := make([]WeekWindow, 0, len(windows))
	for _, w := range windows {
		if w.GameTypes[gameType] {
			out = append(out, w)
		}
	}
	return out
}

// windowForKickoff scans the ascending windows and keeps the last one whose
// cutoff is at or before the kickoff; if every cutoff is later, the first
// window is the closest match.
func windowForKickoff(windows []WeekWindow, kickoff time.Time) (CfbWeekReference, bool) {
	if len(windows) == 0 || kickoff.IsZero() {
		return CfbWeekReference{}, false
	}
	best := windows[0]
	for _, w := range windows {
		if w.Cutoff.After(kickoff) {
			break
		}
		best = w
	}
	return CfbWeekReference{Season: best.Season, Week: best.Week}, true
}

// LatestFinalWeek returns the last regular-season window whose cutoff has
// passed, i.e. the most recent week whose stats are final as of now.
func LatestFinalWeek(windows []WeekWindow, now time.Time) (WeekWindow, bool) {
	var best WeekWindow
	found := false
	for _, w := range windows {
		if !w.GameTypes[GameTypeRegular] || w.Cutoff.After(now) {
			continue
		}
		best = w
		found = true
	}
	return best, found
}

func latestKickoff(kickoffs []time.Time) time.Time {
	var latest time.Time
	for _, k := range kickoffs {
		if k.After(latest) {
			latest = k
		}
	}
	return latest
}

func normalizeGameType(gt string) string {
	gt = strings.ToUpper(strings.TrimSpace(gt))
	switch {
	case strings.HasPrefix(gt, "PRE"):
		return GameTypePreseason
	case strings.HasPrefix(gt, "REG"):
		return GameTypeRegular
	case gt == "":
		return ""
	default:
		return GameTypePostseason
	}
}
