package attemptengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Score_PassBoundary(t *testing.T) {
	config := DefaultConfig()

	// 7 из 10 — ровно проходной порог
	summary := config.Score(7, 10)
	assert.Equal(t, 70, summary.Percentage)
	assert.True(t, summary.Passed, "70% — проходной результат")
	assert.Equal(t, 35, summary.XPAwarded)

	// 6 из 10 — ниже порога
	summary = config.Score(6, 10)
	assert.Equal(t, 60, summary.Percentage)
	assert.False(t, summary.Passed, "60% — непроходной результат")
	assert.Equal(t, 30, summary.XPAwarded)
}

func TestConfig_Score_PerfectAndZero(t *testing.T) {
	config := DefaultConfig()

	summary := config.Score(5, 5)
	assert.Equal(t, 100, summary.Percentage)
	assert.True(t, summary.Passed)
	assert.Equal(t, 50, summary.XPAwarded, "Максимум XP за идеальную попытку")

	summary = config.Score(0, 5)
	assert.Equal(t, 0, summary.Percentage)
	assert.False(t, summary.Passed)
	assert.Equal(t, 0, summary.XPAwarded)
}

func TestConfig_Score_Rounding(t *testing.T) {
	config := DefaultConfig()

	// 2 из 3 = 66.67% → округляется до 67, XP = 33.5 → 34
	summary := config.Score(2, 3)
	assert.Equal(t, 67, summary.Percentage)
	assert.False(t, summary.Passed)
	assert.Equal(t, 34, summary.XPAwarded)

	// 1 из 3 = 33.33% → 33, XP = 16.5 → 17 (round half away from zero)
	summary = config.Score(1, 3)
	assert.Equal(t, 33, summary.Percentage)
	assert.Equal(t, 17, summary.XPAwarded)
}
