package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulytics/grade-analytics-api/internal/dto"
	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/internal/service"
	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
	"github.com/edulytics/grade-analytics-api/pkg/response"
)

// GradeHandler exposes the grade history endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs the grade handler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// Add godoc
// @Summary Record a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body dto.AddGradeRequest true "Grade entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Add(c *gin.Context) {
	var req dto.AddGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	grade, err := req.Stored()
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.grades.Add(c.Request.Context(), &grade); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// BulkAdd godoc
// @Summary Record multiple grades
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body dto.BulkAddGradesRequest true "Grade entries"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grades/bulk [post]
func (h *GradeHandler) BulkAdd(c *gin.Context) {
	var req dto.BulkAddGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grades payload"))
		return
	}
	grades := make([]models.StoredGrade, len(req.Grades))
	for i, entry := range req.Grades {
		grade, err := entry.Stored()
		if err != nil {
			response.Error(c, err)
			return
		}
		grades[i] = grade
	}
	if err := h.grades.BulkAdd(c.Request.Context(), grades); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"inserted": len(grades)}, nil)
}

// List godoc
// @Summary Grade history for a student
// @Tags Grades
// @Produce json
// @Param student_id query string true "Student ID"
// @Param subject query string false "Subject filter"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	var query dto.GradeHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade query"))
		return
	}
	filter, err := historyFilter(query)
	if err != nil {
		response.Error(c, err)
		return
	}
	grades, err := h.grades.History(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Subjects godoc
// @Summary Distinct subjects on record
// @Tags Grades
// @Produce json
// @Param student_id query string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /grades/subjects [get]
func (h *GradeHandler) Subjects(c *gin.Context) {
	studentID := c.Query("student_id")
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id is required"))
		return
	}
	subjects, err := h.grades.Subjects(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

func historyFilter(query dto.GradeHistoryQuery) (models.GradeHistoryFilter, error) {
	filter := models.GradeHistoryFilter{
		StudentID: query.StudentID,
		Subject:   query.Subject,
	}
	if query.From != "" {
		parsed, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid from parameter")
		}
		filter.From = &parsed
	}
	if query.To != "" {
		parsed, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid to parameter")
		}
		filter.To = &parsed
	}
	return filter, nil
}
