package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

func grade(value, weight float64, subject string, timestamp int64) models.GradeRecord {
	return models.NewGradeRecord(value, weight, subject, "", timestamp)
}

func TestSimpleAverage(t *testing.T) {
	assert.Zero(t, simpleAverage(nil))

	records := []models.GradeRecord{
		grade(6, 1, "math", 1000),
		grade(7, 1, "math", 2000),
		grade(8, 1, "math", 3000),
	}
	assert.InDelta(t, 7.0, simpleAverage(records), 1e-9)
}

func TestWeightedAverage(t *testing.T) {
	records := []models.GradeRecord{
		grade(8, 2, "math", 1000),
		grade(6, 1, "math", 2000),
	}
	assert.InDelta(t, 22.0/3.0, weightedAverage(records), 1e-9)
}

func TestWeightedAverageZeroWeightFallsBackToSimple(t *testing.T) {
	records := []models.GradeRecord{
		{Value: 8, Weight: 0, Subject: "math"},
		{Value: 6, Weight: 0, Subject: "math"},
	}
	assert.InDelta(t, 7.0, weightedAverage(records), 1e-9)
}

func TestGPA(t *testing.T) {
	backend := NewPureBackend()
	ctx := context.Background()
	scale := models.DefaultGradeScale()

	t.Run("empty", func(t *testing.T) {
		gpa, err := backend.GPA(ctx, nil, scale)
		require.NoError(t, err)
		assert.Zero(t, gpa)
	})

	t.Run("top of the scale", func(t *testing.T) {
		gpa, err := backend.GPA(ctx, []models.GradeRecord{grade(10, 1, "math", 0)}, scale)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, gpa, 1e-9)
	})

	t.Run("bottom clamps at zero", func(t *testing.T) {
		gpa, err := backend.GPA(ctx, []models.GradeRecord{grade(1, 1, "math", 0)}, scale)
		require.NoError(t, err)
		assert.Zero(t, gpa)
	})

	t.Run("midpoint", func(t *testing.T) {
		gpa, err := backend.GPA(ctx, []models.GradeRecord{grade(5.5, 1, "math", 0)}, scale)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, gpa, 1e-9)
	})

	t.Run("zero scale falls back to defaults", func(t *testing.T) {
		gpa, err := backend.GPA(ctx, []models.GradeRecord{grade(10, 1, "math", 0)}, models.GradeScale{})
		require.NoError(t, err)
		assert.InDelta(t, 4.0, gpa, 1e-9)
	})
}

func TestFilterBySubjectCaseInsensitive(t *testing.T) {
	records := []models.GradeRecord{
		grade(7, 1, "Math", 1000),
		grade(8, 1, "MATH", 2000),
		grade(5, 1, "english", 3000),
	}

	assert.Len(t, filterBySubject(records, "math"), 2)
	assert.Len(t, filterBySubject(records, "English"), 1)
	assert.Empty(t, filterBySubject(records, "physics"))
}

func TestSubjectSummary(t *testing.T) {
	records := []models.GradeRecord{
		grade(8, 2, "math", 1000),
		grade(4, 1, "math", 2000),
		grade(9, 1, "english", 3000),
	}

	summary := subjectSummary(records, "math")

	assert.Equal(t, "math", summary.Subject)
	assert.Equal(t, 2, summary.GradeCount)
	assert.InDelta(t, 6.0, summary.Average, 1e-9)
	assert.InDelta(t, 20.0/3.0, summary.WeightedAverage, 1e-9)
	assert.InDelta(t, 3.0, summary.TotalWeight, 1e-9)
	assert.InDelta(t, 8.0, summary.Highest, 1e-9)
	assert.InDelta(t, 4.0, summary.Lowest, 1e-9)
	assert.Equal(t, 1, summary.PassingCount)
	assert.Equal(t, 1, summary.FailingCount)
	assert.Less(t, summary.Trend, 0.0)
	assert.Greater(t, summary.PredictedNext, 0.0)
}

func TestSubjectSummaryEmpty(t *testing.T) {
	summary := subjectSummary(nil, "math")

	assert.Equal(t, "math", summary.Subject)
	assert.Zero(t, summary.GradeCount)
	assert.Zero(t, summary.Average)
}

func TestAllSubjectSummaries(t *testing.T) {
	records := []models.GradeRecord{
		grade(7, 1, "Math", 1000),
		grade(8, 1, "english", 2000),
		grade(6, 1, "MATH", 3000),
	}

	summaries := allSubjectSummaries(records)
	require.Len(t, summaries, 2)

	// Subjects are folded to lower case and sorted.
	assert.Equal(t, "english", summaries[0].Subject)
	assert.Equal(t, "math", summaries[1].Subject)
	assert.Equal(t, 2, summaries[1].GradeCount)
}

func TestPassFailStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, models.PassFailStats{}, passFailStats(nil))
	})

	records := []models.GradeRecord{
		grade(6, 1, "math", 1000),
		grade(7, 1, "math", 2000),
		grade(4, 1, "math", 3000),
	}

	stats := passFailStats(records)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Passing)
	assert.Equal(t, 1, stats.Failing)
	assert.InDelta(t, 200.0/3.0, stats.PassRate, 1e-9)
	assert.InDelta(t, 100.0/3.0, stats.FailRate, 1e-9)
	assert.InDelta(t, 6.5, stats.AveragePassing, 1e-9)
	assert.InDelta(t, 4.0, stats.AverageFailing, 1e-9)
}

func TestRunningAverage(t *testing.T) {
	records := []models.GradeRecord{
		grade(4, 1, "math", 3000), // out of order on purpose
		grade(8, 1, "math", 1000),
		grade(6, 2, "math", 2000),
	}

	points := runningAverage(records)
	require.Len(t, points, 3)

	assert.Equal(t, int64(1000), points[0].Timestamp)
	assert.InDelta(t, 8.0, points[0].Average, 1e-9)
	assert.InDelta(t, 20.0/3.0, points[1].Average, 1e-9)
	assert.InDelta(t, 24.0/4.0, points[2].Average, 1e-9)
}

func TestDistribution(t *testing.T) {
	buckets := distribution([]models.GradeRecord{
		grade(5.5, 1, "math", 0),
		grade(5.9, 1, "math", 0),
		grade(10, 1, "math", 0),
		{Value: 0.4, Weight: 1},
	})

	require.Len(t, buckets, 10)
	assert.Equal(t, 2, buckets["5"])
	assert.Equal(t, 1, buckets["10"])
	assert.Equal(t, 1, buckets["1"])
	assert.Zero(t, buckets["7"])
}

func TestDistributionEmptyKeepsAllBuckets(t *testing.T) {
	buckets := distribution(nil)

	require.Len(t, buckets, 10)
	for _, count := range buckets {
		assert.Zero(t, count)
	}
}

func TestImprovement(t *testing.T) {
	assert.Zero(t, improvement(nil))
	assert.Zero(t, improvement([]models.GradeRecord{grade(7, 1, "math", 0)}))

	records := []models.GradeRecord{
		grade(4, 1, "math", 1000),
		grade(5, 1, "math", 2000),
		grade(5, 1, "math", 3000),
		grade(6, 1, "math", 4000),
		grade(6, 1, "math", 5000),
		grade(7, 1, "math", 6000),
		grade(7, 1, "math", 7000),
		grade(8, 1, "math", 8000),
	}

	// Quarter size 2: last-quarter mean 7.5 against first-quarter mean 4.5.
	assert.InDelta(t, 3.0, improvement(records), 1e-9)
}

func TestAnalyzeAllEmpty(t *testing.T) {
	report := analyzeAll(nil)

	assert.Zero(t, report.TotalGrades)
	require.NotNil(t, report.Subjects)
	assert.Empty(t, report.Subjects)
	require.NotNil(t, report.Predictions)
	assert.Empty(t, report.Predictions)
	assert.Len(t, report.Distribution, 10)
	assert.Equal(t, models.TrendStable, report.Trend.Direction)
}

func TestAnalyzeAll(t *testing.T) {
	records := []models.GradeRecord{
		grade(6, 1, "math", 1000),
		grade(8, 1, "math", 2000),
		grade(4, 2, "english", 3000),
	}

	report := analyzeAll(records)

	assert.Equal(t, 3, report.TotalGrades)
	assert.InDelta(t, 6.0, report.OverallAverage, 1e-9)
	assert.InDelta(t, 22.0/4.0, report.WeightedAverage, 1e-9)
	assert.Equal(t, 2, report.PassingGrades)
	assert.Equal(t, 1, report.FailingGrades)
	assert.InDelta(t, 200.0/3.0, report.PassRate, 1e-9)
	assert.Greater(t, report.GPA, 0.0)

	require.Len(t, report.Subjects, 2)
	assert.Len(t, report.Predictions, len(report.Subjects))
	assert.Equal(t, 3, report.Statistics.Count)
	assert.Len(t, report.Distribution, 10)
}
