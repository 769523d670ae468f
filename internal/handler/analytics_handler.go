package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulytics/grade-analytics-api/internal/dto"
	"github.com/edulytics/grade-analytics-api/internal/middleware"
	"github.com/edulytics/grade-analytics-api/internal/service"
	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
	"github.com/edulytics/grade-analytics-api/pkg/response"
)

// AnalyticsHandler exposes the grade analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func respond(c *gin.Context, start time.Time, cacheHit bool, data interface{}) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return false
	}
	return true
}

// Average godoc
// @Summary Simple grade average
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /analytics/average [post]
func (h *AnalyticsHandler) Average(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	value, cacheHit, err := h.analytics.Average(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, dto.ScalarResponse{Value: value})
}

// WeightedAverage godoc
// @Summary Weighted grade average
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/weighted-average [post]
func (h *AnalyticsHandler) WeightedAverage(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	value, cacheHit, err := h.analytics.WeightedAverage(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, dto.ScalarResponse{Value: value})
}

// GPA godoc
// @Summary GPA on the configured scale
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/gpa [post]
func (h *AnalyticsHandler) GPA(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	value, cacheHit, err := h.analytics.GPA(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, dto.ScalarResponse{Value: value})
}

// SubjectSummary godoc
// @Summary Aggregate for one subject
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.SubjectRequest true "Grades and subject"
// @Success 200 {object} response.Envelope
// @Router /analytics/subject [post]
func (h *AnalyticsHandler) SubjectSummary(c *gin.Context) {
	var req dto.SubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.analytics.SubjectSummary(c.Request.Context(), records, req.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, summary)
}

// Subjects godoc
// @Summary Aggregates for every subject
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/subjects [post]
func (h *AnalyticsHandler) Subjects(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	summaries, cacheHit, err := h.analytics.Subjects(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, summaries)
}

// Statistics godoc
// @Summary Descriptive statistics of a sample
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.StatisticsRequest true "Sample values"
// @Success 200 {object} response.Envelope
// @Router /analytics/statistics [post]
func (h *AnalyticsHandler) Statistics(c *gin.Context) {
	var req dto.StatisticsRequest
	if !bindJSON(c, &req) {
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.analytics.Statistics(c.Request.Context(), req.Values)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, summary)
}

// Trend godoc
// @Summary Least-squares trend over a series
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.TrendRequest true "Time series"
// @Success 200 {object} response.Envelope
// @Router /analytics/trend [post]
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	var req dto.TrendRequest
	if !bindJSON(c, &req) {
		return
	}
	start := time.Now()
	result, cacheHit, err := h.analytics.Trend(c.Request.Context(), req.Series)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, result)
}

// Correlation godoc
// @Summary Pearson correlation of two samples
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.CorrelationRequest true "Two samples"
// @Success 200 {object} response.Envelope
// @Router /analytics/correlation [post]
func (h *AnalyticsHandler) Correlation(c *gin.Context) {
	var req dto.CorrelationRequest
	if !bindJSON(c, &req) {
		return
	}
	start := time.Now()
	value, cacheHit, err := h.analytics.Correlation(c.Request.Context(), req.First, req.Second)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, dto.ScalarResponse{Value: value})
}

// PredictNext godoc
// @Summary Forecast the next grade
// @Tags Predictions
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/prediction/next [post]
func (h *AnalyticsHandler) PredictNext(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	prediction, cacheHit, err := h.analytics.PredictNextGrade(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, prediction)
}

// PredictNeeded godoc
// @Summary Grade required to reach a target average
// @Tags Predictions
// @Accept json
// @Produce json
// @Param payload body dto.PredictNeededRequest true "Current standing and target"
// @Success 200 {object} response.Envelope
// @Router /analytics/prediction/needed [post]
func (h *AnalyticsHandler) PredictNeeded(c *gin.Context) {
	var req dto.PredictNeededRequest
	if !bindJSON(c, &req) {
		return
	}
	start := time.Now()
	value, cacheHit, err := h.analytics.PredictGradeNeeded(c.Request.Context(), req.CurrentAverage, req.CurrentWeight, req.TargetAverage, req.NewWeight)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, dto.ScalarResponse{Value: value})
}

// PredictFinal godoc
// @Summary Projected final grade
// @Tags Predictions
// @Accept json
// @Produce json
// @Param payload body dto.PredictFinalRequest true "Grades and remaining assessments"
// @Success 200 {object} response.Envelope
// @Router /analytics/prediction/final [post]
func (h *AnalyticsHandler) PredictFinal(c *gin.Context) {
	var req dto.PredictFinalRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	prediction, cacheHit, err := h.analytics.PredictFinalGrade(c.Request.Context(), records, req.Remaining, req.TypicalWeight)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, prediction)
}

// PassProbability godoc
// @Summary Probability of a passing final average
// @Tags Predictions
// @Accept json
// @Produce json
// @Param payload body dto.PassProbabilityRequest true "Grades and remaining weight"
// @Success 200 {object} response.Envelope
// @Router /analytics/prediction/pass-probability [post]
func (h *AnalyticsHandler) PassProbability(c *gin.Context) {
	var req dto.PassProbabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	value, cacheHit, err := h.analytics.PassProbability(c.Request.Context(), records, req.RemainingWeight)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, dto.ScalarResponse{Value: value})
}

// WhatIf godoc
// @Summary Simulate hypothetical grades
// @Tags Predictions
// @Accept json
// @Produce json
// @Param payload body dto.WhatIfRequest true "Current and hypothetical grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/whatif [post]
func (h *AnalyticsHandler) WhatIf(c *gin.Context) {
	var req dto.WhatIfRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	hypothetical, err := dto.Records(req.Hypothetical)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.analytics.WhatIf(c.Request.Context(), records, hypothetical)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, result)
}

// Impact godoc
// @Summary Hypothetical-grade impact sweep for one subject
// @Tags Predictions
// @Accept json
// @Produce json
// @Param payload body dto.ImpactRequest true "Grades, subject and weight"
// @Success 200 {object} response.Envelope
// @Router /analytics/impact [post]
func (h *AnalyticsHandler) Impact(c *gin.Context) {
	var req dto.ImpactRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	entries, cacheHit, err := h.analytics.ImpactAnalysis(c.Request.Context(), records, req.Subject, req.Weight)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, entries)
}

// Targets godoc
// @Summary Grades needed for target averages
// @Tags Predictions
// @Accept json
// @Produce json
// @Param payload body dto.TargetsRequest true "Grades, subject and targets"
// @Success 200 {object} response.Envelope
// @Router /analytics/targets [post]
func (h *AnalyticsHandler) Targets(c *gin.Context) {
	var req dto.TargetsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	needed, cacheHit, err := h.analytics.GradesForTargets(c.Request.Context(), records, req.Subject, req.Weight, req.Targets)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, needed)
}

// PassFail godoc
// @Summary Passing and failing cohorts
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/pass-fail [post]
func (h *AnalyticsHandler) PassFail(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.analytics.PassFail(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, stats)
}

// RunningAverage godoc
// @Summary Cumulative weighted average over time
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/running-average [post]
func (h *AnalyticsHandler) RunningAverage(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	points, cacheHit, err := h.analytics.RunningAverage(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, points)
}

// Distribution godoc
// @Summary Whole-grade histogram
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/distribution [post]
func (h *AnalyticsHandler) Distribution(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	buckets, cacheHit, err := h.analytics.Distribution(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, buckets)
}

// Report godoc
// @Summary Full analysis in one call
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.RecordsRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Router /analytics/report [post]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	var req dto.RecordsRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := dto.Records(req.Grades)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.analytics.Report(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, cacheHit, report)
}

// System godoc
// @Summary Instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	start := time.Now()
	metrics := h.analytics.SystemMetrics()
	respond(c, start, false, metrics)
}
