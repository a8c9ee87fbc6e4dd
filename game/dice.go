package game

import "math/rand"

// Roll types. SUM rolls add the dice up with no pass/fail judgement;
// DELTA_GREEN rolls a percentile die against a target.
const (
	RollTypeSum        = "SUM"
	RollTypeDeltaGreen = "DELTA_GREEN"
)

// Roll grades.
const (
	GradeNeutral         = "NEUTRAL"
	GradeSuccess         = "SUCCESS"
	GradeFailure         = "FAILURE"
	GradeCriticalSuccess = "CRITICAL_SUCCESS"
	GradeFumble          = "FUMBLE"
)

// RollDie rolls one die of the given size. Percentile rolls range 0-99;
// everything else rolls 1-size.
func RollDie(size int32, percentile bool) int32 {
	if percentile {
		return int32(rand.Intn(100))
	}
	return int32(rand.Intn(int(size))) + 1
}

// MessageIndex picks a variation index so clients can vary their result text.
func MessageIndex() int32 {
	return int32(rand.Intn(10000))
}

// GradeRoll judges a roll's total against the target for the given roll type.
func GradeRoll(rollType string, value, target int32) string {
	switch rollType {
	case RollTypeDeltaGreen:
		return gradeDeltaGreen(value, target)
	default:
		return GradeNeutral
	}
}

// 00 and 01 always crit; matching digits crit under the target and fumble
// over it; otherwise a plain success/failure check.
func gradeDeltaGreen(value, target int32) string {
	if value == 0 || value == 1 {
		return GradeCriticalSuccess
	}
	if value >= 11 && value/10 == value%10 {
		if value <= target {
			return GradeCriticalSuccess
		}
		return GradeFumble
	}
	if value <= target {
		return GradeSuccess
	}
	return GradeFailure
}
