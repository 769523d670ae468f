package engine

import (
	"strconv"
	"strings"

	"github.com/edulytics/grade-analytics-api/internal/models"
	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
)

// ParseGrade reads a grade from its textual form. Both the comma and the
// period decimal separator are accepted, since upstream sources use either.
func ParseGrade(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, appErrors.ErrUnparsableGrade
	}

	value, err := strconv.ParseFloat(strings.Replace(trimmed, ",", ".", 1), 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrUnparsableGrade.Code, appErrors.ErrUnparsableGrade.Status, appErrors.ErrUnparsableGrade.Message)
	}
	return value, nil
}

// FormatGrade renders a grade with a fixed number of decimals, using the
// comma as decimal separator.
func FormatGrade(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strings.Replace(strconv.FormatFloat(value, 'f', decimals, 64), ".", ",", 1)
}

// IsValidGrade reports whether the text parses to a grade on the 1-10 scale.
func IsValidGrade(raw string) bool {
	value, err := ParseGrade(raw)
	return err == nil && value >= 1 && value <= 10
}

// ValidateGradeValue checks a numeric grade against the 1-10 scale.
func ValidateGradeValue(value float64) error {
	if value < 1 || value > 10 {
		return appErrors.ErrGradeOutOfRange
	}
	return nil
}

// RecordsFromRows maps raw extracted rows onto grade records, skipping rows
// whose grade text does not parse. Weights default to 1 when absent.
func RecordsFromRows(rows []RawGradeRow) []models.GradeRecord {
	records := make([]models.GradeRecord, 0, len(rows))
	for _, row := range rows {
		value, err := ParseGrade(row.Grade)
		if err != nil {
			continue
		}
		weight := 1.0
		if row.Weight != "" {
			if parsed, err := ParseGrade(row.Weight); err == nil {
				weight = parsed
			}
		}
		records = append(records, models.NewGradeRecord(value, weight, row.Subject, row.Description, row.Timestamp))
	}
	return records
}

// RawGradeRow is one extracted row before normalization. Grade and Weight are
// kept textual because source markup uses locale formatting.
type RawGradeRow struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Grade       string `json:"grade"`
	Weight      string `json:"weight"`
	Timestamp   int64  `json:"timestamp"`
}
