package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

func TestPredictGradeNeeded(t *testing.T) {
	t.Run("solves the weighted average equation", func(t *testing.T) {
		// Average 6 over weight 4; a weight-1 grade of 11 would lift it to 7.
		needed := predictGradeNeeded(6, 4, 7, 1)
		assert.InDelta(t, 11.0, needed, 1e-9)
	})

	t.Run("no history means the target itself", func(t *testing.T) {
		needed := predictGradeNeeded(0, 0, 7.5, 2)
		assert.InDelta(t, 7.5, needed, 1e-9)
	})

	t.Run("non-positive weight has no solution", func(t *testing.T) {
		assert.True(t, math.IsNaN(predictGradeNeeded(6, 4, 7, 0)))
		assert.True(t, math.IsNaN(predictGradeNeeded(6, 4, 7, -1)))
	})
}

func TestPredictNextGradeEmpty(t *testing.T) {
	result := predictNextGrade(nil)

	assert.Equal(t, models.PredictionMethodNone, result.Method)
	assert.Zero(t, result.PredictedValue)
	assert.Zero(t, result.Confidence)
}

func TestPredictNextGradeConstantHistory(t *testing.T) {
	records := []models.GradeRecord{
		grade(7, 1, "math", 1000),
		grade(7, 1, "math", 2000),
		grade(7, 1, "math", 3000),
	}

	result := predictNextGrade(records)

	assert.InDelta(t, 7.0, result.PredictedValue, 1e-9)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.InDelta(t, 7.0, result.LowerBound, 1e-9)
	assert.InDelta(t, 7.0, result.UpperBound, 1e-9)
	assert.Equal(t, models.PredictionMethodWeightedAverage, result.Method)
}

func TestPredictNextGradeFavorsRecentGrades(t *testing.T) {
	records := []models.GradeRecord{
		grade(9, 1, "math", 2000), // most recent, passed out of order
		grade(5, 1, "math", 1000),
	}

	result := predictNextGrade(records)

	// Weights 1 and 4 by recency: (5*1 + 9*4) / 5.
	assert.InDelta(t, 8.2, result.PredictedValue, 1e-9)
	assert.Greater(t, result.PredictedValue, 7.0)

	stdDev := math.Sqrt(8.0)
	assert.InDelta(t, 1-stdDev/5, result.Confidence, 1e-9)
	assert.InDelta(t, 8.2-2*stdDev, result.LowerBound, 1e-9)
	assert.InDelta(t, 10.0, result.UpperBound, 1e-9)
}

func TestPredictNextGradeConfidenceFloor(t *testing.T) {
	records := []models.GradeRecord{
		grade(1, 1, "math", 1000),
		grade(10, 1, "math", 2000),
		grade(1, 1, "math", 3000),
		grade(10, 1, "math", 4000),
	}

	result := predictNextGrade(records)

	assert.InDelta(t, 0.1, result.Confidence, 1e-9)
	assert.GreaterOrEqual(t, result.LowerBound, 1.0)
	assert.LessOrEqual(t, result.UpperBound, 10.0)
}

func TestGradesForTargets(t *testing.T) {
	records := []models.GradeRecord{
		grade(6, 2, "math", 1000),
		grade(7, 2, "math", 2000),
	}

	results := gradesForTargets(records, "math", 1, []float64{7, 9.5})
	require.Len(t, results, 2)

	// Standing 6.5 over weight 4; target 7 needs (7*5 - 26) / 1 = 9.
	assert.InDelta(t, 9.0, results[0].GradeNeeded, 1e-9)
	assert.True(t, results[0].Achievable)

	// Target 9.5 needs 21.5, beyond the scale.
	assert.InDelta(t, 21.5, results[1].GradeNeeded, 1e-9)
	assert.False(t, results[1].Achievable)
}

func TestGradesForTargetsEmptySubject(t *testing.T) {
	results := gradesForTargets(nil, "math", 1, []float64{6, 12})
	require.Len(t, results, 2)

	assert.InDelta(t, 6.0, results[0].GradeNeeded, 1e-9)
	assert.True(t, results[0].Achievable)
	assert.InDelta(t, 12.0, results[1].GradeNeeded, 1e-9)
	assert.False(t, results[1].Achievable)
}

func TestPredictFinalGrade(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		result := predictFinalGrade(nil, 3, 1)
		assert.Equal(t, models.PredictionMethodNone, result.Method)
	})

	t.Run("nothing remaining keeps the current standing", func(t *testing.T) {
		records := []models.GradeRecord{grade(7, 1, "math", 1000)}

		result := predictFinalGrade(records, 0, 1)

		assert.InDelta(t, 7.0, result.PredictedValue, 1e-9)
		assert.InDelta(t, 0.9, result.Confidence, 1e-9)
		assert.Equal(t, models.PredictionMethodFinalProjection, result.Method)
	})

	t.Run("remaining assessments dampen confidence", func(t *testing.T) {
		records := []models.GradeRecord{
			grade(6, 1, "math", 1000),
			grade(6, 1, "math", 2000),
		}

		result := predictFinalGrade(records, 2, 1)

		assert.InDelta(t, 6.0, result.PredictedValue, 1e-9)
		assert.InDelta(t, 0.9/1.2, result.Confidence, 1e-9)
		assert.InDelta(t, 5.0, result.LowerBound, 1e-9)
		assert.InDelta(t, 7.0, result.UpperBound, 1e-9)
	})
}

func TestPassProbability(t *testing.T) {
	t.Run("no history", func(t *testing.T) {
		assert.InDelta(t, 0.5, passProbability(nil, 2), 1e-9)
	})

	t.Run("nothing remaining, passing average", func(t *testing.T) {
		records := []models.GradeRecord{grade(6, 1, "math", 1000)}
		assert.InDelta(t, 1.0, passProbability(records, 0), 1e-9)
	})

	t.Run("nothing remaining, failing average", func(t *testing.T) {
		records := []models.GradeRecord{grade(4, 1, "math", 1000)}
		assert.Zero(t, passProbability(records, 0))
	})

	t.Run("already secured", func(t *testing.T) {
		records := []models.GradeRecord{grade(10, 5, "math", 1000)}
		assert.InDelta(t, 1.0, passProbability(records, 1), 1e-9)
	})

	t.Run("out of reach", func(t *testing.T) {
		records := []models.GradeRecord{grade(1, 10, "math", 1000)}
		assert.Zero(t, passProbability(records, 1))
	})

	t.Run("balanced standing is a coin flip", func(t *testing.T) {
		records := []models.GradeRecord{grade(5.5, 1, "math", 1000)}
		assert.InDelta(t, 0.5, passProbability(records, 1), 1e-9)
	})
}
