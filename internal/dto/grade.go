package dto

import (
	"time"

	"github.com/edulytics/grade-analytics-api/internal/engine"
	"github.com/edulytics/grade-analytics-api/internal/models"
)

// AddGradeRequest captures POST /grades payload.
type AddGradeRequest struct {
	StudentID   string     `json:"student_id" binding:"required"`
	Subject     string     `json:"subject" binding:"required"`
	Description string     `json:"description"`
	Value       string     `json:"value" binding:"required"`
	Weight      float64    `json:"weight"`
	RecordedAt  *time.Time `json:"recorded_at"`
}

// Stored converts the request into the persistence shape.
func (r AddGradeRequest) Stored() (models.StoredGrade, error) {
	value, err := engine.ParseGrade(r.Value)
	if err != nil {
		return models.StoredGrade{}, err
	}
	grade := models.StoredGrade{
		StudentID:   r.StudentID,
		Subject:     r.Subject,
		Description: r.Description,
		Value:       value,
		Weight:      r.Weight,
	}
	if r.RecordedAt != nil {
		grade.RecordedAt = r.RecordedAt.UTC()
	}
	return grade, nil
}

// BulkAddGradesRequest captures POST /grades/bulk payload.
type BulkAddGradesRequest struct {
	Grades []AddGradeRequest `json:"grades" binding:"required,min=1,dive"`
}

// GradeHistoryQuery captures GET /grades query parameters.
type GradeHistoryQuery struct {
	StudentID string `form:"student_id" binding:"required"`
	Subject   string `form:"subject"`
	From      string `form:"from"`
	To        string `form:"to"`
}
