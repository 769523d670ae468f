package dto

import (
	"github.com/edulytics/grade-analytics-api/internal/engine"
	"github.com/edulytics/grade-analytics-api/internal/models"
)

// GradeInput is one grade as submitted by API clients. Value is textual so
// both decimal separators are accepted.
type GradeInput struct {
	Value       string  `json:"value" binding:"required"`
	Weight      float64 `json:"weight"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Timestamp   int64   `json:"timestamp"`
}

// Record parses the input into the engine's value object.
func (g GradeInput) Record() (models.GradeRecord, error) {
	value, err := engine.ParseGrade(g.Value)
	if err != nil {
		return models.GradeRecord{}, err
	}
	if err := engine.ValidateGradeValue(value); err != nil {
		return models.GradeRecord{}, err
	}
	return models.NewGradeRecord(value, g.Weight, g.Subject, g.Description, g.Timestamp), nil
}

// Records converts a batch of inputs, failing on the first invalid grade.
func Records(inputs []GradeInput) ([]models.GradeRecord, error) {
	records := make([]models.GradeRecord, len(inputs))
	for i, input := range inputs {
		record, err := input.Record()
		if err != nil {
			return nil, err
		}
		records[i] = record
	}
	return records, nil
}

// RecordsRequest is the common payload for computations over a grade set.
type RecordsRequest struct {
	Grades []GradeInput `json:"grades" binding:"required,dive"`
}

// SubjectRequest scopes a computation to one subject.
type SubjectRequest struct {
	Grades  []GradeInput `json:"grades" binding:"required,dive"`
	Subject string       `json:"subject" binding:"required"`
}

// StatisticsRequest carries a raw numeric sample.
type StatisticsRequest struct {
	Values []float64 `json:"values" binding:"required"`
}

// TrendRequest carries a time series of observations.
type TrendRequest struct {
	Series []models.TrendPoint `json:"series" binding:"required"`
}

// CorrelationRequest carries two equally sized samples.
type CorrelationRequest struct {
	First  []float64 `json:"first" binding:"required"`
	Second []float64 `json:"second" binding:"required"`
}

// PredictNeededRequest asks which grade reaches a target average.
type PredictNeededRequest struct {
	CurrentAverage float64 `json:"current_average"`
	CurrentWeight  float64 `json:"current_weight"`
	TargetAverage  float64 `json:"target_average" binding:"required"`
	NewWeight      float64 `json:"new_weight" binding:"required"`
}

// PredictFinalRequest asks for the projected final grade.
type PredictFinalRequest struct {
	Grades        []GradeInput `json:"grades" binding:"required,dive"`
	Remaining     int          `json:"remaining" binding:"min=0"`
	TypicalWeight float64      `json:"typical_weight"`
}

// PassProbabilityRequest asks for the chance of a passing final average.
type PassProbabilityRequest struct {
	Grades          []GradeInput `json:"grades" binding:"required,dive"`
	RemainingWeight float64      `json:"remaining_weight"`
}

// WhatIfRequest simulates hypothetical grades against current standing.
type WhatIfRequest struct {
	Grades       []GradeInput `json:"grades"`
	Hypothetical []GradeInput `json:"hypothetical"`
}

// ImpactRequest sweeps hypothetical grades for one subject.
type ImpactRequest struct {
	Grades  []GradeInput `json:"grades" binding:"required,dive"`
	Subject string       `json:"subject" binding:"required"`
	Weight  float64      `json:"weight"`
}

// TargetsRequest solves the grade needed for each target average.
type TargetsRequest struct {
	Grades  []GradeInput `json:"grades" binding:"required,dive"`
	Subject string       `json:"subject" binding:"required"`
	Weight  float64      `json:"weight"`
	Targets []float64    `json:"targets" binding:"required,min=1"`
}

// ScalarResponse wraps a single numeric result.
type ScalarResponse struct {
	Value float64 `json:"value"`
}
