package engine

import (
	"math"
	"sort"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

// predictGradeNeeded solves
//
//	(currentAvg*currentWeight + x*newWeight) / (currentWeight+newWeight) = targetAvg
//
// for x. The answer may fall outside the 1-10 scale; callers classify
// achievability. A non-positive new weight has no solution and yields NaN.
func predictGradeNeeded(currentAvg, currentWeight, targetAvg, newWeight float64) float64 {
	if newWeight <= 0 {
		return math.NaN()
	}
	totalWeight := currentWeight + newWeight
	return (targetAvg*totalWeight - currentAvg*currentWeight) / newWeight
}

// predictNextGrade forecasts the next grade as a quadratically
// recency-weighted mean: the i-th oldest record carries weight (i+1)².
// Confidence shrinks as the historical spread grows.
func predictNextGrade(records []models.GradeRecord) models.PredictionResult {
	if len(records) == 0 {
		return models.PredictionResult{Method: models.PredictionMethodNone}
	}

	sorted := sortedByTimestamp(records)

	var weightedSum, weightTotal float64
	for i, record := range sorted {
		w := float64(i+1) * float64(i+1)
		weightedSum += record.Value * w
		weightTotal += w
	}
	predicted := clampGrade(weightedSum / weightTotal)

	values := valuesOf(sorted)
	stdDev := sampleStdDeviation(values)

	confidence := clamp(1-stdDev/5, 0.1, 0.9)

	return models.PredictionResult{
		PredictedValue: predicted,
		Confidence:     confidence,
		LowerBound:     clampGrade(predicted - 2*stdDev),
		UpperBound:     clampGrade(predicted + 2*stdDev),
		Method:         models.PredictionMethodWeightedAverage,
	}
}

// gradesForTargets evaluates the target solver for a subject across the
// supplied target averages. With no grades on record the target itself is the
// grade needed.
func gradesForTargets(records []models.GradeRecord, subject string, weight float64, targets []float64) []models.GradeNeeded {
	subjectGrades := filterBySubject(records, subject)

	results := make([]models.GradeNeeded, 0, len(targets))
	if len(subjectGrades) == 0 {
		for _, target := range targets {
			results = append(results, models.GradeNeeded{
				TargetAverage: target,
				GradeNeeded:   target,
				Weight:        weight,
				Achievable:    target >= 1 && target <= 10,
			})
		}
		return results
	}

	currentAvg, currentWeight := weightedAverageAndWeight(subjectGrades)
	for _, target := range targets {
		needed := predictGradeNeeded(currentAvg, currentWeight, target, weight)
		results = append(results, models.GradeNeeded{
			TargetAverage: target,
			GradeNeeded:   needed,
			Weight:        weight,
			Achievable:    needed >= 1 && needed <= 10,
		})
	}
	return results
}

// predictFinalGrade projects the period's final grade assuming the remaining
// assessments land on the next-grade forecast. Confidence is damped by the
// number of assessments still outstanding.
func predictFinalGrade(records []models.GradeRecord, remaining int, typicalWeight float64) models.PredictionResult {
	if len(records) == 0 {
		return models.PredictionResult{Method: models.PredictionMethodNone}
	}

	prediction := predictNextGrade(records)

	var currentSum, currentWeight float64
	for _, record := range records {
		currentSum += record.Value * record.Weight
		currentWeight += record.Weight
	}

	futureWeight := float64(remaining) * typicalWeight
	totalWeight := currentWeight + futureWeight
	predictedFinal := (currentSum + prediction.PredictedValue*futureWeight) / totalWeight

	confidenceAdjustment := 1 / (1 + float64(remaining)*0.1)

	return models.PredictionResult{
		PredictedValue: clampGrade(predictedFinal),
		Confidence:     prediction.Confidence * confidenceAdjustment,
		LowerBound:     clampGrade(predictedFinal - 1),
		UpperBound:     clampGrade(predictedFinal + 1),
		Method:         models.PredictionMethodFinalProjection,
	}
}

// passProbability estimates the chance of ending the period at or above the
// passing threshold, given the weight of assessments still to come. It is 0.5
// when there is no history to reason from.
func passProbability(records []models.GradeRecord, remainingWeight float64) float64 {
	if len(records) == 0 {
		return 0.5
	}

	var currentSum, currentWeight float64
	for _, record := range records {
		currentSum += record.Value * record.Weight
		currentWeight += record.Weight
	}
	currentAvg := currentSum / currentWeight

	if remainingWeight <= 0 {
		if currentAvg >= models.PassingThreshold {
			return 1
		}
		return 0
	}

	totalWeight := currentWeight + remainingWeight
	minNeeded := (models.PassingThreshold*totalWeight - currentSum) / remainingWeight

	if minNeeded <= 1 {
		return 1
	}
	if minNeeded > 10 {
		return 0
	}

	difficulty := (minNeeded - currentAvg) / 2
	return 1 / (1 + math.Exp(difficulty))
}

func sortedByTimestamp(records []models.GradeRecord) []models.GradeRecord {
	sorted := append([]models.GradeRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })
	return sorted
}

func valuesOf(records []models.GradeRecord) []float64 {
	values := make([]float64, len(records))
	for i, record := range records {
		values[i] = record.Value
	}
	return values
}

func clampGrade(v float64) float64 {
	return clamp(v, 1, 10)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
