package engine

import (
	"context"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

// Operation names shared by cache keys and accelerator routes.
const (
	OpAverage             = "average"
	OpWeightedAverage     = "weighted_average"
	OpGPA                 = "gpa"
	OpSubjectAverage      = "subject_average"
	OpSubjectSummary      = "subject_summary"
	OpAllSubjectSummaries = "all_subject_summaries"
	OpStatistics          = "statistics"
	OpTrend               = "trend"
	OpCorrelation         = "correlation"
	OpPredictNeeded       = "predict_grade_needed"
	OpPredictNext         = "predict_next_grade"
	OpWhatIf              = "whatif"
	OpImpactAnalysis      = "impact_analysis"
	OpGradesForTargets    = "grades_for_targets"
	OpPassFail            = "pass_fail"
	OpRunningAverage      = "running_average"
	OpDistribution        = "distribution"
	OpPredictFinal        = "predict_final_grade"
	OpPassProbability     = "pass_probability"
	OpAnalyzeAll          = "analyze_all"
)

// Backend is the computation contract shared by the pure implementation and
// the accelerated one. Every method is total over degenerate input: empty
// collections and zero weights yield zero-valued results, never errors. Only
// transport-level backends return non-nil errors.
type Backend interface {
	Name() string

	Average(ctx context.Context, records []models.GradeRecord) (float64, error)
	WeightedAverage(ctx context.Context, records []models.GradeRecord) (float64, error)
	GPA(ctx context.Context, records []models.GradeRecord, scale models.GradeScale) (float64, error)
	SubjectAverage(ctx context.Context, records []models.GradeRecord, subject string) (float64, error)
	SubjectSummary(ctx context.Context, records []models.GradeRecord, subject string) (models.SubjectSummary, error)
	AllSubjectSummaries(ctx context.Context, records []models.GradeRecord) ([]models.SubjectSummary, error)

	Statistics(ctx context.Context, values []float64) (models.StatisticsSummary, error)
	Trend(ctx context.Context, series []models.TrendPoint) (models.TrendResult, error)
	Correlation(ctx context.Context, first, second []float64) (float64, error)

	PredictGradeNeeded(ctx context.Context, currentAvg, currentWeight, targetAvg, newWeight float64) (float64, error)
	PredictNextGrade(ctx context.Context, records []models.GradeRecord) (models.PredictionResult, error)
	PredictFinalGrade(ctx context.Context, records []models.GradeRecord, remaining int, typicalWeight float64) (models.PredictionResult, error)
	PassProbability(ctx context.Context, records []models.GradeRecord, remainingWeight float64) (float64, error)

	WhatIf(ctx context.Context, records, hypothetical []models.GradeRecord) (models.WhatIfResult, error)
	ImpactAnalysis(ctx context.Context, records []models.GradeRecord, subject string, weight float64) ([]models.ImpactEntry, error)
	GradesForTargets(ctx context.Context, records []models.GradeRecord, subject string, weight float64, targets []float64) ([]models.GradeNeeded, error)

	PassFailStats(ctx context.Context, records []models.GradeRecord) (models.PassFailStats, error)
	RunningAverage(ctx context.Context, records []models.GradeRecord) ([]models.RunningAveragePoint, error)
	Distribution(ctx context.Context, records []models.GradeRecord) (map[string]int, error)
	AnalyzeAll(ctx context.Context, records []models.GradeRecord) (models.AnalyticsReport, error)
}
