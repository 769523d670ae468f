package models

import "time"

// PassingThreshold is the fixed domain constant of the 1-10 grading scale.
// A grade at or above it counts as passing.
const PassingThreshold = 5.5

// GradeRecord is the normalized value object all engine computations consume.
// IsPassing is derived at construction time and never recomputed.
type GradeRecord struct {
	Value       float64 `json:"value"`
	Weight      float64 `json:"weight"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Timestamp   int64   `json:"timestamp"`
	IsPassing   bool    `json:"is_passing"`
}

// NewGradeRecord builds a record with the passing flag derived from the value.
// A non-positive weight defaults to 1.
func NewGradeRecord(value, weight float64, subject, description string, timestamp int64) GradeRecord {
	if weight <= 0 {
		weight = 1
	}
	return GradeRecord{
		Value:       value,
		Weight:      weight,
		Subject:     subject,
		Description: description,
		Timestamp:   timestamp,
		IsPassing:   value >= PassingThreshold,
	}
}

// StoredGrade is the persistence shape of a grade history entry.
type StoredGrade struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	Subject     string    `db:"subject" json:"subject"`
	Description string    `db:"description" json:"description"`
	Value       float64   `db:"grade_value" json:"value"`
	Weight      float64   `db:"weight" json:"weight"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Record converts a stored grade into the engine's value object.
func (g StoredGrade) Record() GradeRecord {
	return NewGradeRecord(g.Value, g.Weight, g.Subject, g.Description, g.RecordedAt.UnixMilli())
}

// GradeHistoryFilter scopes grade history queries.
type GradeHistoryFilter struct {
	StudentID string
	Subject   string
	From      *time.Time
	To        *time.Time
}

// GradeScale configures GPA normalization. Zero-valued fields fall back to
// the Dutch defaults via Normalize.
type GradeScale struct {
	MaxGrade     float64 `json:"max_grade"`
	PassingGrade float64 `json:"passing_grade"`
	GPAMax       float64 `json:"gpa_max"`
}

// DefaultGradeScale returns the Dutch 1-10 scale mapped onto a 4.0 GPA.
func DefaultGradeScale() GradeScale {
	return GradeScale{MaxGrade: 10.0, PassingGrade: PassingThreshold, GPAMax: 4.0}
}

// Normalize fills unset options with defaults.
func (s GradeScale) Normalize() GradeScale {
	def := DefaultGradeScale()
	if s.MaxGrade <= 1 {
		s.MaxGrade = def.MaxGrade
	}
	if s.PassingGrade <= 0 {
		s.PassingGrade = def.PassingGrade
	}
	if s.GPAMax <= 0 {
		s.GPAMax = def.GPAMax
	}
	return s
}
