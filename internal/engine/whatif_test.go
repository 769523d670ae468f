package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

func TestCalculateWhatIfEmpty(t *testing.T) {
	result := calculateWhatIf(nil, nil)

	assert.Zero(t, result.CurrentAverage)
	assert.Zero(t, result.NewAverage)
	require.NotNil(t, result.GradesNeededForTarget)
	assert.Empty(t, result.GradesNeededForTarget)
	require.NotNil(t, result.ImpactAnalysis)
	assert.Empty(t, result.ImpactAnalysis)
}

func TestCalculateWhatIf(t *testing.T) {
	records := []models.GradeRecord{grade(6, 1, "math", 1000)}
	hypothetical := []models.GradeRecord{grade(8, 2, "math", 2000)}

	result := calculateWhatIf(records, hypothetical)

	assert.InDelta(t, 6.0, result.CurrentAverage, 1e-9)
	assert.InDelta(t, 22.0/3.0, result.NewAverage, 1e-9)
	assert.InDelta(t, 22.0/3.0-6.0, result.Change, 1e-9)
	assert.InDelta(t, (22.0/3.0-6.0)/6.0*100, result.ChangePercent, 1e-9)

	// One entry per rung of the target ladder, solved from the new standing
	// with the first hypothetical's weight.
	require.Len(t, result.GradesNeededForTarget, 6)
	first := result.GradesNeededForTarget[0]
	assert.InDelta(t, 5.5, first.TargetAverage, 1e-9)
	assert.InDelta(t, 2.0, first.Weight, 1e-9)
	assert.InDelta(t, (5.5*5.0-22.0)/2.0, first.GradeNeeded, 1e-9)
	assert.True(t, first.Achievable)

	require.Len(t, result.ImpactAnalysis, 19)
	sweep := result.ImpactAnalysis[0]
	assert.InDelta(t, 1.0, sweep.HypotheticalGrade, 1e-9)
	assert.InDelta(t, (22.0+1.0*2.0)/5.0, sweep.ResultingAverage, 1e-9)
	assert.InDelta(t, sweep.ResultingAverage-22.0/3.0, sweep.Impact, 1e-9)
}

func TestCalculateWhatIfNoGradesYet(t *testing.T) {
	// A student with no grades on record simulating their first result.
	hypothetical := []models.GradeRecord{grade(8, 1, "math", 1000)}

	result := calculateWhatIf(nil, hypothetical)

	assert.Zero(t, result.CurrentAverage)
	assert.InDelta(t, 8.0, result.NewAverage, 1e-9)
	assert.InDelta(t, 8.0, result.Change, 1e-9)
	assert.Zero(t, result.ChangePercent)

	// Targets are solved from the new weight-1 standing.
	require.Len(t, result.GradesNeededForTarget, 6)
	first := result.GradesNeededForTarget[0]
	assert.InDelta(t, 5.5, first.TargetAverage, 1e-9)
	assert.InDelta(t, 1.0, first.Weight, 1e-9)
	assert.InDelta(t, 5.5*2-8.0, first.GradeNeeded, 1e-9)
	assert.True(t, first.Achievable)
	require.Len(t, result.ImpactAnalysis, 19)
}

func TestCalculateWhatIfZeroCurrentAverage(t *testing.T) {
	// Weightless records contribute nothing to the standing.
	records := []models.GradeRecord{{Value: 8, Weight: 0, Subject: "math"}}
	hypothetical := []models.GradeRecord{grade(7, 1, "math", 2000)}

	result := calculateWhatIf(records, hypothetical)

	assert.Zero(t, result.CurrentAverage)
	assert.InDelta(t, 7.0, result.NewAverage, 1e-9)
	assert.Zero(t, result.ChangePercent)
}

func TestCalculateWhatIfDefaultWeight(t *testing.T) {
	records := []models.GradeRecord{grade(6, 1, "math", 1000)}

	result := calculateWhatIf(records, nil)

	require.NotEmpty(t, result.GradesNeededForTarget)
	assert.InDelta(t, 1.0, result.GradesNeededForTarget[0].Weight, 1e-9)
}

func TestImpactEntriesSweep(t *testing.T) {
	entries := impactEntries(6, 3, 1)

	require.Len(t, entries, 19)
	assert.InDelta(t, 1.0, entries[0].HypotheticalGrade, 1e-9)
	assert.InDelta(t, 10.0, entries[18].HypotheticalGrade, 1e-9)

	// A grade equal to the average leaves it untouched.
	mid := entries[10]
	assert.InDelta(t, 6.0, mid.HypotheticalGrade, 1e-9)
	assert.InDelta(t, 6.0, mid.ResultingAverage, 1e-9)
	assert.InDelta(t, 0.0, mid.Impact, 1e-9)

	assert.Less(t, entries[0].Impact, 0.0)
	assert.Greater(t, entries[18].Impact, 0.0)
}

func TestImpactAnalysisEmptySubject(t *testing.T) {
	entries := impactAnalysis(nil, "math", 1)

	require.Len(t, entries, 19)
	for _, entry := range entries {
		assert.InDelta(t, entry.HypotheticalGrade, entry.ResultingAverage, 1e-9)
		assert.Zero(t, entry.Impact)
	}
}

func TestImpactAnalysisSubjectStanding(t *testing.T) {
	records := []models.GradeRecord{
		grade(8, 2, "math", 1000),
		grade(4, 1, "english", 2000),
	}

	entries := impactAnalysis(records, "math", 2)

	require.Len(t, entries, 19)
	// Only the math standing (8 over weight 2) feeds the sweep.
	assert.InDelta(t, (8*2+1*2)/4.0, entries[0].ResultingAverage, 1e-9)
}
