package game

import (
	"testing"

	"github.com/tj/assert"
)

func TestGradeRoll(t *testing.T) {
	testCases := map[string]struct {
		rollType string
		value    int32
		target   int32
		want     string
	}{
		"sum rolls are neutral":        {RollTypeSum, 42, 0, GradeNeutral},
		"unknown types are neutral":    {"", 7, 50, GradeNeutral},
		"zero always crits":            {RollTypeDeltaGreen, 0, 5, GradeCriticalSuccess},
		"one always crits":             {RollTypeDeltaGreen, 1, 5, GradeCriticalSuccess},
		"doubles under target crit":    {RollTypeDeltaGreen, 33, 50, GradeCriticalSuccess},
		"doubles over target fumble":   {RollTypeDeltaGreen, 66, 50, GradeFumble},
		"doubles on target crit":       {RollTypeDeltaGreen, 44, 44, GradeCriticalSuccess},
		"under target succeeds":        {RollTypeDeltaGreen, 30, 50, GradeSuccess},
		"on target succeeds":           {RollTypeDeltaGreen, 50, 50, GradeSuccess},
		"over target fails":            {RollTypeDeltaGreen, 51, 50, GradeFailure},
		"ten is not a double":          {RollTypeDeltaGreen, 10, 5, GradeFailure},
	}

	for label, tc := range testCases {
		t.Run(label, func(t *testing.T) {
			assert.Equal(t, tc.want, GradeRoll(tc.rollType, tc.value, tc.target))
		})
	}
}

func TestRollDie(t *testing.T) {
	for i := 0; i < 200; i++ {
		v := RollDie(6, false)
		assert.True(t, v >= 1 && v <= 6, "d6 rolled %d", v)
	}
	for i := 0; i < 200; i++ {
		v := RollDie(100, true)
		assert.True(t, v >= 0 && v <= 99, "percentile rolled %d", v)
	}
}

func TestMessageIndex(t *testing.T) {
	for i := 0; i < 200; i++ {
		v := MessageIndex()
		assert.True(t, v >= 0 && v < 10000)
	}
}
