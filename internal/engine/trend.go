package engine

import (
	"math"
	"sort"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

// Slopes below this magnitude are reported as stable.
const slopeStableThreshold = 0.001

// Denominators below this magnitude make the OLS fit degenerate.
const olsDegenerateThreshold = 1e-10

// calculateTrend fits an ordinary-least-squares line over the series. The
// input does not need to be sorted; timestamps are normalized so the earliest
// observation sits at x=0. The caller's slice is never reordered.
func calculateTrend(series []models.TrendPoint) models.TrendResult {
	if len(series) < 2 {
		return models.TrendResult{
			Direction:       models.TrendStable,
			Strength:        models.StrengthNone,
			PredictedValues: []float64{},
		}
	}

	points := append([]models.TrendPoint(nil), series...)
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })

	minTime := points[0].Timestamp
	n := float64(len(points))

	var sumX, sumY, sumXY, sumX2 float64
	for _, p := range points {
		x := float64(p.Timestamp - minTime)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < olsDegenerateThreshold {
		return models.TrendResult{
			Intercept:       sumY / n,
			Direction:       models.TrendStable,
			Strength:        models.StrengthNone,
			PredictedValues: []float64{},
		}
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	// Fitted values follow the caller's order so predicted[i] lines up with
	// series[i] even when the input is unsorted.
	meanY := sumY / n
	var ssTot, ssRes float64
	predicted := make([]float64, len(series))
	for i, p := range series {
		x := float64(p.Timestamp - minTime)
		fit := slope*x + intercept
		predicted[i] = fit
		ssTot += (p.Value - meanY) * (p.Value - meanY)
		ssRes += (p.Value - fit) * (p.Value - fit)
	}

	rSquared := 0.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return models.TrendResult{
		Slope:           slope,
		Intercept:       intercept,
		RSquared:        rSquared,
		Direction:       trendDirection(slope),
		Strength:        trendStrength(rSquared),
		PredictedValues: predicted,
	}
}

func trendDirection(slope float64) models.TrendDirection {
	switch {
	case math.Abs(slope) < slopeStableThreshold:
		return models.TrendStable
	case slope > 0:
		return models.TrendImproving
	default:
		return models.TrendDeclining
	}
}

func trendStrength(rSquared float64) models.TrendStrength {
	switch {
	case rSquared < 0.1:
		return models.StrengthNone
	case rSquared < 0.3:
		return models.StrengthWeak
	case rSquared < 0.6:
		return models.StrengthModerate
	default:
		return models.StrengthStrong
	}
}
