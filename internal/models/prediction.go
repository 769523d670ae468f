package models

// Prediction methods reported by the engine. The accelerated path may report
// its own method name; these are the ones the pure path produces.
const (
	PredictionMethodNone            = "none"
	PredictionMethodWeightedAverage = "weighted_average"
	PredictionMethodFinalProjection = "final_projection"
)

// PredictionResult is a next-grade forecast with confidence bounds.
type PredictionResult struct {
	PredictedValue float64 `json:"predicted_value"`
	Confidence     float64 `json:"confidence"`
	LowerBound     float64 `json:"lower_bound"`
	UpperBound     float64 `json:"upper_bound"`
	Method         string  `json:"method"`
}

// GradeNeeded reports the algebraic answer for one target average.
// GradeNeeded may fall outside [1,10]; Achievable flags whether it does not.
type GradeNeeded struct {
	TargetAverage float64 `json:"target_average"`
	GradeNeeded   float64 `json:"grade_needed"`
	Weight        float64 `json:"weight"`
	Achievable    bool    `json:"achievable"`
}

// ImpactEntry is one step of the hypothetical-grade sweep.
type ImpactEntry struct {
	HypotheticalGrade float64 `json:"hypothetical_grade"`
	ResultingAverage  float64 `json:"resulting_average"`
	Impact            float64 `json:"impact"`
}

// WhatIfResult captures the effect of hypothetical grades on an average.
type WhatIfResult struct {
	CurrentAverage        float64       `json:"current_average"`
	NewAverage            float64       `json:"new_average"`
	Change                float64       `json:"change"`
	ChangePercent         float64       `json:"change_percent"`
	GradesNeededForTarget []GradeNeeded `json:"grades_needed_for_target"`
	ImpactAnalysis        []ImpactEntry `json:"impact_analysis"`
}

// SubjectSummary aggregates one subject's grades.
type SubjectSummary struct {
	Subject         string  `json:"subject"`
	Average         float64 `json:"average"`
	WeightedAverage float64 `json:"weighted_average"`
	GradeCount      int     `json:"grade_count"`
	TotalWeight     float64 `json:"total_weight"`
	Highest         float64 `json:"highest"`
	Lowest          float64 `json:"lowest"`
	PassingCount    int     `json:"passing_count"`
	FailingCount    int     `json:"failing_count"`
	Trend           float64 `json:"trend"`
	PredictedNext   float64 `json:"predicted_next"`
}

// PassFailStats splits a grade collection into passing and failing cohorts.
type PassFailStats struct {
	Total          int     `json:"total"`
	Passing        int     `json:"passing"`
	Failing        int     `json:"failing"`
	PassRate       float64 `json:"pass_rate"`
	FailRate       float64 `json:"fail_rate"`
	AveragePassing float64 `json:"average_passing"`
	AverageFailing float64 `json:"average_failing"`
}

// AnalyticsReport is the full analysis of a grade collection.
type AnalyticsReport struct {
	OverallAverage  float64            `json:"overall_average"`
	WeightedAverage float64            `json:"weighted_average"`
	GPA             float64            `json:"gpa"`
	TotalGrades     int                `json:"total_grades"`
	PassingGrades   int                `json:"passing_grades"`
	FailingGrades   int                `json:"failing_grades"`
	PassRate        float64            `json:"pass_rate"`
	Improvement     float64            `json:"improvement"`
	Subjects        []SubjectSummary   `json:"subjects"`
	Statistics      StatisticsSummary  `json:"statistics"`
	Trend           TrendResult        `json:"trend"`
	Predictions     []PredictionResult `json:"predictions"`
	Distribution    map[string]int     `json:"distribution"`
}
