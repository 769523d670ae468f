package engine

import (
	"math"
	"sort"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

// calculateStatistics computes the full descriptive summary for a sample.
// An empty sample yields an all-zero summary.
func calculateStatistics(data []float64) models.StatisticsSummary {
	if len(data) == 0 {
		return models.StatisticsSummary{Mode: []float64{}}
	}

	count := len(data)
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(count)

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	variance := sampleVariance(data, mean)
	stdDev := math.Sqrt(variance)

	p25 := percentileSorted(sorted, 25)
	p50 := percentileSorted(sorted, 50)
	p75 := percentileSorted(sorted, 75)
	p90 := percentileSorted(sorted, 90)

	return models.StatisticsSummary{
		Count:        count,
		Sum:          sum,
		Mean:         mean,
		Median:       medianSorted(sorted),
		Mode:         calculateMode(data),
		Min:          sorted[0],
		Max:          sorted[count-1],
		Range:        sorted[count-1] - sorted[0],
		Variance:     variance,
		StdDeviation: stdDev,
		Percentile25: p25,
		Percentile50: p50,
		Percentile75: p75,
		Percentile90: p90,
		IQR:          p75 - p25,
		Skewness:     skewness(data, mean, stdDev),
		Kurtosis:     kurtosis(data, mean, stdDev),
	}
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// calculateMode returns every value tied for the highest frequency, or an
// empty slice when no value repeats. Values are bucketed at two decimals to
// sidestep float equality.
func calculateMode(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	frequency := make(map[int64]int, len(data))
	for _, v := range data {
		key := int64(math.Round(v * 100))
		frequency[key]++
	}

	maxFreq := 0
	for _, f := range frequency {
		if f > maxFreq {
			maxFreq = f
		}
	}
	if maxFreq <= 1 {
		return []float64{}
	}

	modes := make([]float64, 0, len(frequency))
	for key, f := range frequency {
		if f == maxFreq {
			modes = append(modes, float64(key)/100)
		}
	}
	sort.Float64s(modes)
	return modes
}

// sampleVariance divides by n-1; it is 0 for fewer than two observations.
func sampleVariance(data []float64, mean float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(data)-1)
}

func sampleStdDeviation(data []float64) float64 {
	return math.Sqrt(sampleVariance(data, mean(data)))
}

// percentileSorted interpolates linearly between the floor and ceil ranks at
// index (p/100)*(n-1) of the ascending-sorted sample.
func percentileSorted(sorted []float64, percentile float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	percentile = math.Max(0, math.Min(100, percentile))
	index := (percentile / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	weight := index - float64(lower)

	if lower == upper || upper >= len(sorted) {
		if lower > len(sorted)-1 {
			lower = len(sorted) - 1
		}
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// skewness is the adjusted Fisher-Pearson standardized moment coefficient.
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, v := range data {
		z := (v - mean) / stdDev
		sum += z * z * z
	}
	return (n / ((n - 1) * (n - 2))) * sum
}

// kurtosis is the sample excess kurtosis with the 3(n-1)²/((n-2)(n-3)) adjustment.
func kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, v := range data {
		z := (v - mean) / stdDev
		sum += z * z * z * z
	}
	numerator := n * (n + 1) * sum
	denominator := (n - 1) * (n - 2) * (n - 3)
	adjustment := (3 * (n - 1) * (n - 1)) / ((n - 2) * (n - 3))
	return numerator/denominator - adjustment
}

// pearsonCorrelation returns r for two equally sized samples, 0 when either
// sample is degenerate.
func pearsonCorrelation(first, second []float64) float64 {
	if len(first) != len(second) || len(first) < 2 {
		return 0
	}

	mean1 := mean(first)
	mean2 := mean(second)

	sumProduct := 0.0
	sumSq1 := 0.0
	sumSq2 := 0.0
	for i := range first {
		d1 := first[i] - mean1
		d2 := second[i] - mean2
		sumProduct += d1 * d2
		sumSq1 += d1 * d1
		sumSq2 += d2 * d2
	}

	denominator := math.Sqrt(sumSq1 * sumSq2)
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return sumProduct / denominator
}
