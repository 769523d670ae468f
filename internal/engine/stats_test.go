package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStatisticsEmpty(t *testing.T) {
	summary := calculateStatistics(nil)

	assert.Equal(t, 0, summary.Count)
	assert.Zero(t, summary.Mean)
	assert.Zero(t, summary.Median)
	require.NotNil(t, summary.Mode)
	assert.Empty(t, summary.Mode)
}

func TestCalculateStatisticsKnownSample(t *testing.T) {
	summary := calculateStatistics([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 8, summary.Count)
	assert.InDelta(t, 40.0, summary.Sum, 1e-9)
	assert.InDelta(t, 5.0, summary.Mean, 1e-9)
	assert.InDelta(t, 4.5, summary.Median, 1e-9)
	assert.Equal(t, []float64{4}, summary.Mode)
	assert.InDelta(t, 2.0, summary.Min, 1e-9)
	assert.InDelta(t, 9.0, summary.Max, 1e-9)
	assert.InDelta(t, 7.0, summary.Range, 1e-9)
	assert.InDelta(t, 32.0/7.0, summary.Variance, 1e-9)
	assert.InDelta(t, summary.Percentile75-summary.Percentile25, summary.IQR, 1e-9)
}

func TestCalculateStatisticsSingleValue(t *testing.T) {
	summary := calculateStatistics([]float64{7.5})

	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 7.5, summary.Mean, 1e-9)
	assert.InDelta(t, 7.5, summary.Median, 1e-9)
	assert.Zero(t, summary.Variance)
	assert.Zero(t, summary.StdDeviation)
	assert.Empty(t, summary.Mode)
}

func TestMedianSorted(t *testing.T) {
	assert.Zero(t, medianSorted(nil))
	assert.InDelta(t, 3.0, medianSorted([]float64{1, 3, 5}), 1e-9)
	assert.InDelta(t, 2.5, medianSorted([]float64{1, 2, 3, 4}), 1e-9)
}

func TestCalculateMode(t *testing.T) {
	t.Run("no repeats", func(t *testing.T) {
		assert.Empty(t, calculateMode([]float64{1, 2, 3}))
	})

	t.Run("tie returns every mode sorted", func(t *testing.T) {
		assert.Equal(t, []float64{1, 2}, calculateMode([]float64{2, 1, 2, 1, 3}))
	})

	t.Run("buckets at two decimals", func(t *testing.T) {
		assert.Equal(t, []float64{5.5}, calculateMode([]float64{5.501, 5.499, 7}))
	})
}

func TestPercentileSorted(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 2.0, percentileSorted(sorted, 25), 1e-9)
	assert.InDelta(t, 3.0, percentileSorted(sorted, 50), 1e-9)
	assert.InDelta(t, 4.0, percentileSorted(sorted, 75), 1e-9)
	assert.InDelta(t, 4.6, percentileSorted(sorted, 90), 1e-9)
	assert.InDelta(t, 1.0, percentileSorted(sorted, 0), 1e-9)
	assert.InDelta(t, 5.0, percentileSorted(sorted, 100), 1e-9)
	assert.Zero(t, percentileSorted(nil, 50))
}

func TestSampleVariance(t *testing.T) {
	assert.Zero(t, sampleVariance([]float64{4}, 4))
	assert.InDelta(t, 2.5, sampleVariance([]float64{1, 2, 3, 4, 5}, 3), 1e-9)
}

func TestSkewness(t *testing.T) {
	symmetric := []float64{1, 2, 3}
	assert.InDelta(t, 0.0, skewness(symmetric, mean(symmetric), sampleStdDeviation(symmetric)), 1e-9)

	rightTailed := []float64{1, 1, 1, 10}
	assert.Greater(t, skewness(rightTailed, mean(rightTailed), sampleStdDeviation(rightTailed)), 0.0)

	assert.Zero(t, skewness([]float64{1, 2}, 1.5, 0.5))
	assert.Zero(t, skewness([]float64{3, 3, 3}, 3, 0))
}

func TestKurtosis(t *testing.T) {
	assert.Zero(t, kurtosis([]float64{1, 2, 3}, 2, 1))

	flat := []float64{1, 2, 3, 4, 5, 6}
	assert.Less(t, kurtosis(flat, mean(flat), sampleStdDeviation(flat)), 0.0)
}

func TestPearsonCorrelation(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		r := pearsonCorrelation([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
		assert.InDelta(t, 1.0, r, 1e-9)
	})

	t.Run("perfect negative", func(t *testing.T) {
		r := pearsonCorrelation([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
		assert.InDelta(t, -1.0, r, 1e-9)
	})

	t.Run("length mismatch", func(t *testing.T) {
		assert.Zero(t, pearsonCorrelation([]float64{1, 2}, []float64{1}))
	})

	t.Run("degenerate sample", func(t *testing.T) {
		assert.Zero(t, pearsonCorrelation([]float64{5, 5, 5}, []float64{1, 2, 3}))
	})
}
