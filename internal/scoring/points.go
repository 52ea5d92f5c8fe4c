package scoring

import "math"

// PlayerStats are the per-statistic numeric columns of one weekly stat row.
// Missing columns decode as zero upstream, so partial schema drift degrades
// a statistic instead of dropping the row.
type PlayerStats struct {
	PassingYards    float64
	PassingTDs      float64
	Interceptions   float64
	RushingYards    float64
	RushingTDs      float64
	ReceivingYards  float64
	ReceivingTDs    float64
	TwoPointConv    float64
	FumblesLost     float64
	FieldGoalsMade  float64
	ExtraPointsMade float64
}

// PlayerPoints computes standard fantasy points for one player week.
func PlayerPoints(s PlayerStats) float64 {
	points := s.PassingYards*0.04 +
		s.PassingTDs*4 -
		s.Interceptions*2 +
		s.RushingYards*0.1 +
		s.RushingTDs*6 +
		s.ReceivingYards*0.1 +
		s.ReceivingTDs*6 +
		s.TwoPointConv*2 -
		s.FumblesLost*2 +
		s.FieldGoalsMade*3 +
		s.ExtraPointsMade*1
	return Round2(points)
}

// TeamDefenseStats are the per-week team defense columns.
type TeamDefenseStats struct {
	Sacks            float64
	Interceptions    float64
	FumbleRecoveries float64
	Safeties         float64
	DefensiveTDs     float64
	ReturnTDs        float64
	PointsAllowed    float64
}

// TeamDefensePoints computes standard DST fantasy points for one team week.
func TeamDefensePoints(s TeamDefenseStats) float64 {
	points := s.Sacks*1 +
		s.Interceptions*2 +
		s.FumbleRecoveries*2 +
		s.Safeties*2 +
		(s.DefensiveTDs+s.ReturnTDs)*6 +
		pointsAllowedBonus(s.PointsAllowed)
	return Round2(points)
}

func pointsAllowedBonus(allowed float64) float64 {
	switch {
	case allowed <= 0:
		return 10
	case allowed <= 6:
		return 7
	case allowed <= 13:
		return 4
	case allowed <= 20:
		return 1
	case allowed <= 27:
		return 0
	case allowed <= 34:
		return -1
	default:
		return -4
	}
}

// Round2 rounds to 2 decimal places. Applied at every computation boundary
// so floating-point drift cannot accumulate across aggregation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
