package engine

import "github.com/edulytics/grade-analytics-api/internal/models"

// whatIfTargets is the ladder of common target averages evaluated by the
// what-if simulator.
var whatIfTargets = []float64{5.5, 6.0, 6.5, 7.0, 7.5, 8.0}

// calculateWhatIf simulates the effect of hypothetical grades on the weighted
// average. Target solving and the impact sweep both run against the NEW
// average, so they answer "what would it take from here".
func calculateWhatIf(records, hypothetical []models.GradeRecord) models.WhatIfResult {
	if len(records) == 0 && len(hypothetical) == 0 {
		return models.WhatIfResult{
			GradesNeededForTarget: []models.GradeNeeded{},
			ImpactAnalysis:        []models.ImpactEntry{},
		}
	}

	var currentSum, currentWeight float64
	for _, record := range records {
		currentSum += record.Value * record.Weight
		currentWeight += record.Weight
	}
	currentAverage := 0.0
	if currentWeight > 0 {
		currentAverage = currentSum / currentWeight
	}

	var hypotheticalSum, hypotheticalWeight float64
	for _, record := range hypothetical {
		hypotheticalSum += record.Value * record.Weight
		hypotheticalWeight += record.Weight
	}

	newTotalWeight := currentWeight + hypotheticalWeight
	newAverage := 0.0
	if newTotalWeight > 0 {
		newAverage = (currentSum + hypotheticalSum) / newTotalWeight
	}

	change := newAverage - currentAverage
	changePercent := 0.0
	if currentAverage > 0 {
		changePercent = change / currentAverage * 100
	}

	defaultWeight := 1.0
	if len(hypothetical) > 0 {
		defaultWeight = hypothetical[0].Weight
	}

	needed := make([]models.GradeNeeded, 0, len(whatIfTargets))
	for _, target := range whatIfTargets {
		gradeNeeded := predictGradeNeeded(newAverage, newTotalWeight, target, defaultWeight)
		needed = append(needed, models.GradeNeeded{
			TargetAverage: target,
			GradeNeeded:   gradeNeeded,
			Weight:        defaultWeight,
			Achievable:    gradeNeeded >= 1 && gradeNeeded <= 10,
		})
	}

	return models.WhatIfResult{
		CurrentAverage:        currentAverage,
		NewAverage:            newAverage,
		Change:                change,
		ChangePercent:         changePercent,
		GradesNeededForTarget: needed,
		ImpactAnalysis:        impactEntries(newAverage, newTotalWeight, defaultWeight),
	}
}

// impactEntries sweeps a hypothetical grade from 1 to 10 in half-point steps
// and reports the resulting average and its delta at each step.
func impactEntries(currentAvg, currentWeight, newWeight float64) []models.ImpactEntry {
	entries := make([]models.ImpactEntry, 0, 19)
	for tenths := 10; tenths <= 100; tenths += 5 {
		grade := float64(tenths) / 10
		totalWeight := currentWeight + newWeight
		resulting := (currentAvg*currentWeight + grade*newWeight) / totalWeight
		entries = append(entries, models.ImpactEntry{
			HypotheticalGrade: grade,
			ResultingAverage:  resulting,
			Impact:            resulting - currentAvg,
		})
	}
	return entries
}

// impactAnalysis runs the sweep against a single subject's standing. With no
// grades in the subject the resulting average is the hypothetical grade itself
// and there is nothing to move, so every impact is 0.
func impactAnalysis(records []models.GradeRecord, subject string, weight float64) []models.ImpactEntry {
	subjectGrades := filterBySubject(records, subject)

	if len(subjectGrades) == 0 {
		entries := make([]models.ImpactEntry, 0, 19)
		for tenths := 10; tenths <= 100; tenths += 5 {
			grade := float64(tenths) / 10
			entries = append(entries, models.ImpactEntry{
				HypotheticalGrade: grade,
				ResultingAverage:  grade,
			})
		}
		return entries
	}

	currentAvg, currentWeight := weightedAverageAndWeight(subjectGrades)
	return impactEntries(currentAvg, currentWeight, weight)
}
