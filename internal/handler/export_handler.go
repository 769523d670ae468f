package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/internal/service"
	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
	"github.com/edulytics/grade-analytics-api/pkg/response"
)

// ExportHandler serves downloadable report documents.
type ExportHandler struct {
	exports *service.ExportService
	grades  *service.GradeService
}

// NewExportHandler constructs the export handler.
func NewExportHandler(exports *service.ExportService, grades *service.GradeService) *ExportHandler {
	return &ExportHandler{exports: exports, grades: grades}
}

// ReportCSV godoc
// @Summary Grade report as CSV
// @Tags Exports
// @Produce text/csv
// @Param student_id query string true "Student ID"
// @Success 200 {string} string "CSV document"
// @Router /export/report.csv [get]
func (h *ExportHandler) ReportCSV(c *gin.Context) {
	records, ok := h.studentRecords(c)
	if !ok {
		return
	}
	payload, err := h.exports.ReportCSV(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="grade-report.csv"`)
	c.Data(200, "text/csv", payload)
}

// ReportPDF godoc
// @Summary Grade report as PDF
// @Tags Exports
// @Produce application/pdf
// @Param student_id query string true "Student ID"
// @Success 200 {string} string "PDF document"
// @Router /export/report.pdf [get]
func (h *ExportHandler) ReportPDF(c *gin.Context) {
	records, ok := h.studentRecords(c)
	if !ok {
		return
	}
	payload, err := h.exports.ReportPDF(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="grade-report.pdf"`)
	c.Data(200, "application/pdf", payload)
}

func (h *ExportHandler) studentRecords(c *gin.Context) ([]models.GradeRecord, bool) {
	studentID := c.Query("student_id")
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id is required"))
		return nil, false
	}
	records, err := h.grades.Records(c.Request.Context(), models.GradeHistoryFilter{StudentID: studentID})
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return records, true
}
