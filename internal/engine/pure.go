package engine

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

// PureBackend computes every operation in-process with no external
// dependencies. It is the reference implementation the gateway falls back to
// and the oracle the accelerated path is validated against.
type PureBackend struct{}

// NewPureBackend returns the in-process backend.
func NewPureBackend() *PureBackend {
	return &PureBackend{}
}

func (b *PureBackend) Name() string { return "pure" }

// Average is the unweighted mean of the grade values.
func (b *PureBackend) Average(_ context.Context, records []models.GradeRecord) (float64, error) {
	return simpleAverage(records), nil
}

// WeightedAverage is Σ(value·weight)/Σweight, degrading to the simple average
// when the total weight is zero.
func (b *PureBackend) WeightedAverage(_ context.Context, records []models.GradeRecord) (float64, error) {
	return weightedAverage(records), nil
}

// GPA linearly maps the weighted average from the grading scale onto the GPA
// scale: (avg - 1) / (max - 1) · gpaMax, clamped to [0, gpaMax].
func (b *PureBackend) GPA(_ context.Context, records []models.GradeRecord, scale models.GradeScale) (float64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	scale = scale.Normalize()
	normalized := (weightedAverage(records) - 1) / (scale.MaxGrade - 1)
	return clamp(normalized*scale.GPAMax, 0, scale.GPAMax), nil
}

func (b *PureBackend) SubjectAverage(_ context.Context, records []models.GradeRecord, subject string) (float64, error) {
	return weightedAverage(filterBySubject(records, subject)), nil
}

func (b *PureBackend) SubjectSummary(_ context.Context, records []models.GradeRecord, subject string) (models.SubjectSummary, error) {
	return subjectSummary(records, subject), nil
}

// AllSubjectSummaries returns one summary per distinct subject
// (case-insensitive), sorted by subject name.
func (b *PureBackend) AllSubjectSummaries(_ context.Context, records []models.GradeRecord) ([]models.SubjectSummary, error) {
	return allSubjectSummaries(records), nil
}

func (b *PureBackend) Statistics(_ context.Context, values []float64) (models.StatisticsSummary, error) {
	return calculateStatistics(values), nil
}

func (b *PureBackend) Trend(_ context.Context, series []models.TrendPoint) (models.TrendResult, error) {
	return calculateTrend(series), nil
}

func (b *PureBackend) Correlation(_ context.Context, first, second []float64) (float64, error) {
	return pearsonCorrelation(first, second), nil
}

func (b *PureBackend) PredictGradeNeeded(_ context.Context, currentAvg, currentWeight, targetAvg, newWeight float64) (float64, error) {
	return predictGradeNeeded(currentAvg, currentWeight, targetAvg, newWeight), nil
}

func (b *PureBackend) PredictNextGrade(_ context.Context, records []models.GradeRecord) (models.PredictionResult, error) {
	return predictNextGrade(records), nil
}

func (b *PureBackend) PredictFinalGrade(_ context.Context, records []models.GradeRecord, remaining int, typicalWeight float64) (models.PredictionResult, error) {
	return predictFinalGrade(records, remaining, typicalWeight), nil
}

func (b *PureBackend) PassProbability(_ context.Context, records []models.GradeRecord, remainingWeight float64) (float64, error) {
	return passProbability(records, remainingWeight), nil
}

func (b *PureBackend) WhatIf(_ context.Context, records, hypothetical []models.GradeRecord) (models.WhatIfResult, error) {
	return calculateWhatIf(records, hypothetical), nil
}

func (b *PureBackend) ImpactAnalysis(_ context.Context, records []models.GradeRecord, subject string, weight float64) ([]models.ImpactEntry, error) {
	return impactAnalysis(records, subject, weight), nil
}

func (b *PureBackend) GradesForTargets(_ context.Context, records []models.GradeRecord, subject string, weight float64, targets []float64) ([]models.GradeNeeded, error) {
	return gradesForTargets(records, subject, weight, targets), nil
}

func (b *PureBackend) PassFailStats(_ context.Context, records []models.GradeRecord) (models.PassFailStats, error) {
	return passFailStats(records), nil
}

// RunningAverage walks the records in timestamp order and reports the
// cumulative weighted average after each one.
func (b *PureBackend) RunningAverage(_ context.Context, records []models.GradeRecord) ([]models.RunningAveragePoint, error) {
	return runningAverage(records), nil
}

// Distribution is a histogram keyed "1".."10"; values are floored and clamped
// into the buckets. All ten buckets are always present.
func (b *PureBackend) Distribution(_ context.Context, records []models.GradeRecord) (map[string]int, error) {
	return distribution(records), nil
}

// AnalyzeAll produces the full report in one pass: aggregates, pass/fail
// split, per-subject summaries with next-grade predictions, descriptive
// statistics, the overall trend, improvement, and the grade histogram.
func (b *PureBackend) AnalyzeAll(_ context.Context, records []models.GradeRecord) (models.AnalyticsReport, error) {
	return analyzeAll(records), nil
}

func simpleAverage(records []models.GradeRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, record := range records {
		sum += record.Value
	}
	return sum / float64(len(records))
}

func weightedAverage(records []models.GradeRecord) float64 {
	avg, _ := weightedAverageAndWeightOrSimple(records)
	return avg
}

// weightedAverageAndWeight reports the weighted average and the total weight
// for a non-empty record set. It is the solver's view of "current standing".
func weightedAverageAndWeight(records []models.GradeRecord) (float64, float64) {
	var sum, totalWeight float64
	for _, record := range records {
		sum += record.Value * record.Weight
		totalWeight += record.Weight
	}
	if totalWeight == 0 {
		return simpleAverage(records), 0
	}
	return sum / totalWeight, totalWeight
}

func weightedAverageAndWeightOrSimple(records []models.GradeRecord) (float64, float64) {
	if len(records) == 0 {
		return 0, 0
	}
	return weightedAverageAndWeight(records)
}

func filterBySubject(records []models.GradeRecord, subject string) []models.GradeRecord {
	want := strings.ToLower(subject)
	filtered := make([]models.GradeRecord, 0, len(records))
	for _, record := range records {
		if strings.ToLower(record.Subject) == want {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func subjectSummary(records []models.GradeRecord, subject string) models.SubjectSummary {
	subjectGrades := filterBySubject(records, subject)
	if len(subjectGrades) == 0 {
		return models.SubjectSummary{Subject: subject}
	}

	var sum, weightedSum, totalWeight float64
	highest := subjectGrades[0].Value
	lowest := subjectGrades[0].Value
	passingCount := 0
	for _, record := range subjectGrades {
		sum += record.Value
		weightedSum += record.Value * record.Weight
		totalWeight += record.Weight
		if record.Value > highest {
			highest = record.Value
		}
		if record.Value < lowest {
			lowest = record.Value
		}
		if record.IsPassing {
			passingCount++
		}
	}

	average := sum / float64(len(subjectGrades))
	weightedAvg := average
	if totalWeight > 0 {
		weightedAvg = weightedSum / totalWeight
	}

	trend := 0.0
	if len(subjectGrades) >= 2 {
		series := make([]models.TrendPoint, len(subjectGrades))
		for i, record := range subjectGrades {
			series[i] = models.TrendPoint{Timestamp: record.Timestamp, Value: record.Value}
		}
		trend = calculateTrend(series).Slope
	}

	prediction := predictNextGrade(subjectGrades)

	return models.SubjectSummary{
		Subject:         subject,
		Average:         average,
		WeightedAverage: weightedAvg,
		GradeCount:      len(subjectGrades),
		TotalWeight:     totalWeight,
		Highest:         highest,
		Lowest:          lowest,
		PassingCount:    passingCount,
		FailingCount:    len(subjectGrades) - passingCount,
		Trend:           trend,
		PredictedNext:   prediction.PredictedValue,
	}
}

func allSubjectSummaries(records []models.GradeRecord) []models.SubjectSummary {
	seen := make(map[string]struct{})
	subjects := make([]string, 0)
	for _, record := range records {
		key := strings.ToLower(record.Subject)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			subjects = append(subjects, key)
		}
	}
	sort.Strings(subjects)

	summaries := make([]models.SubjectSummary, 0, len(subjects))
	for _, subject := range subjects {
		summaries = append(summaries, subjectSummary(records, subject))
	}
	return summaries
}

func passFailStats(records []models.GradeRecord) models.PassFailStats {
	if len(records) == 0 {
		return models.PassFailStats{}
	}

	var passingSum, failingSum float64
	passingCount, failingCount := 0, 0
	for _, record := range records {
		if record.IsPassing {
			passingSum += record.Value
			passingCount++
		} else {
			failingSum += record.Value
			failingCount++
		}
	}

	total := len(records)
	stats := models.PassFailStats{
		Total:    total,
		Passing:  passingCount,
		Failing:  failingCount,
		PassRate: float64(passingCount) / float64(total) * 100,
		FailRate: float64(failingCount) / float64(total) * 100,
	}
	if passingCount > 0 {
		stats.AveragePassing = passingSum / float64(passingCount)
	}
	if failingCount > 0 {
		stats.AverageFailing = failingSum / float64(failingCount)
	}
	return stats
}

func runningAverage(records []models.GradeRecord) []models.RunningAveragePoint {
	sorted := sortedByTimestamp(records)

	var runningSum, runningWeight float64
	points := make([]models.RunningAveragePoint, 0, len(sorted))
	for _, record := range sorted {
		runningSum += record.Value * record.Weight
		runningWeight += record.Weight
		avg := record.Value
		if runningWeight > 0 {
			avg = runningSum / runningWeight
		}
		points = append(points, models.RunningAveragePoint{Timestamp: record.Timestamp, Average: avg})
	}
	return points
}

func distribution(records []models.GradeRecord) map[string]int {
	buckets := make(map[string]int, 10)
	for i := 1; i <= 10; i++ {
		buckets[strconv.Itoa(i)] = 0
	}
	for _, record := range records {
		bucket := int(record.Value)
		if bucket < 1 {
			bucket = 1
		}
		if bucket > 10 {
			bucket = 10
		}
		buckets[strconv.Itoa(bucket)]++
	}
	return buckets
}

// improvement compares the first-quarter average against the last-quarter
// average of the timestamp-ordered records.
func improvement(records []models.GradeRecord) float64 {
	if len(records) < 2 {
		return 0
	}

	sorted := sortedByTimestamp(records)
	quarterSize := len(sorted) / 4
	if quarterSize < 1 {
		quarterSize = 1
	}

	firstAvg := mean(valuesOf(sorted[:quarterSize]))
	lastAvg := mean(valuesOf(sorted[len(sorted)-quarterSize:]))
	return lastAvg - firstAvg
}

func analyzeAll(records []models.GradeRecord) models.AnalyticsReport {
	if len(records) == 0 {
		return models.AnalyticsReport{
			Subjects:     []models.SubjectSummary{},
			Statistics:   calculateStatistics(nil),
			Trend:        calculateTrend(nil),
			Predictions:  []models.PredictionResult{},
			Distribution: distribution(nil),
		}
	}

	passFail := passFailStats(records)
	subjects := allSubjectSummaries(records)

	series := make([]models.TrendPoint, len(records))
	for i, record := range records {
		series[i] = models.TrendPoint{Timestamp: record.Timestamp, Value: record.Value}
	}

	predictions := make([]models.PredictionResult, 0, len(subjects))
	for _, subject := range subjects {
		predictions = append(predictions, predictNextGrade(filterBySubject(records, subject.Subject)))
	}

	scale := models.DefaultGradeScale()
	normalized := (weightedAverage(records) - 1) / (scale.MaxGrade - 1)

	return models.AnalyticsReport{
		OverallAverage:  simpleAverage(records),
		WeightedAverage: weightedAverage(records),
		GPA:             clamp(normalized*scale.GPAMax, 0, scale.GPAMax),
		TotalGrades:     len(records),
		PassingGrades:   passFail.Passing,
		FailingGrades:   passFail.Failing,
		PassRate:        passFail.PassRate,
		Improvement:     improvement(records),
		Subjects:        subjects,
		Statistics:      calculateStatistics(valuesOf(records)),
		Trend:           calculateTrend(series),
		Predictions:     predictions,
		Distribution:    distribution(records),
	}
}
