package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edulytics/grade-analytics-api/internal/engine"
	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/pkg/export"
)

// ExportService renders analytics reports as downloadable documents.
type ExportService struct {
	analytics *AnalyticsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs an export service.
func NewExportService(analytics *AnalyticsService, logger *zap.Logger) *ExportService {
	return &ExportService{
		analytics: analytics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// ReportCSV renders the per-subject report as CSV.
func (s *ExportService) ReportCSV(ctx context.Context, records []models.GradeRecord) ([]byte, error) {
	report, _, err := s.analytics.Report(ctx, records)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(reportDataset(report))
}

// ReportPDF renders the per-subject report as a PDF document.
func (s *ExportService) ReportPDF(ctx context.Context, records []models.GradeRecord) ([]byte, error) {
	report, _, err := s.analytics.Report(ctx, records)
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(reportDataset(report), "Grade Report")
}

func reportDataset(report models.AnalyticsReport) export.Dataset {
	headers := []string{"Subject", "Average", "Weighted Average", "Grades", "Highest", "Lowest", "Passing", "Failing", "Trend", "Predicted Next"}
	rows := make([]map[string]string, 0, len(report.Subjects)+1)
	for _, subject := range report.Subjects {
		rows = append(rows, map[string]string{
			"Subject":          subject.Subject,
			"Average":          engine.FormatGrade(subject.Average, 2),
			"Weighted Average": engine.FormatGrade(subject.WeightedAverage, 2),
			"Grades":           fmt.Sprintf("%d", subject.GradeCount),
			"Highest":          engine.FormatGrade(subject.Highest, 1),
			"Lowest":           engine.FormatGrade(subject.Lowest, 1),
			"Passing":          fmt.Sprintf("%d", subject.PassingCount),
			"Failing":          fmt.Sprintf("%d", subject.FailingCount),
			"Trend":            fmt.Sprintf("%.4f", subject.Trend),
			"Predicted Next":   engine.FormatGrade(subject.PredictedNext, 1),
		})
	}
	rows = append(rows, map[string]string{
		"Subject":          "Overall",
		"Average":          engine.FormatGrade(report.OverallAverage, 2),
		"Weighted Average": engine.FormatGrade(report.WeightedAverage, 2),
		"Grades":           fmt.Sprintf("%d", report.TotalGrades),
		"Passing":          fmt.Sprintf("%d", report.PassingGrades),
		"Failing":          fmt.Sprintf("%d", report.FailingGrades),
		"Trend":            fmt.Sprintf("%.4f", report.Trend.Slope),
	})
	return export.Dataset{Headers: headers, Rows: rows}
}
