package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edulytics/grade-analytics-api/internal/engine"
	"github.com/edulytics/grade-analytics-api/internal/models"
)

// AnalyticsService fronts the computation gateway with a short-lived result
// cache and instrumentation. Identical requests within the TTL are answered
// from cache; the boolean on every method reports whether that happened.
type AnalyticsService struct {
	gateway *engine.Gateway
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
	scale   models.GradeScale
}

// NewAnalyticsService constructs an analytics service. ttl bounds how long a
// computed result may be served from cache.
func NewAnalyticsService(gateway *engine.Gateway, cache *CacheService, metrics *MetricsService, logger *zap.Logger, ttl time.Duration, scale models.GradeScale) *AnalyticsService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &AnalyticsService{
		gateway: gateway,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		ttl:     ttl,
		scale:   scale.Normalize(),
	}
}

// Init warms up the accelerated path. Safe to call more than once.
func (s *AnalyticsService) Init(ctx context.Context) bool {
	return s.gateway.Init(ctx)
}

// Average returns the unweighted mean grade.
func (s *AnalyticsService) Average(ctx context.Context, records []models.GradeRecord) (float64, bool, error) {
	return cachedCompute(ctx, s, engine.OpAverage, args(records), func(ctx context.Context) (float64, error) {
		return s.gateway.Average(ctx, records)
	})
}

// WeightedAverage returns the weight-adjusted mean grade.
func (s *AnalyticsService) WeightedAverage(ctx context.Context, records []models.GradeRecord) (float64, bool, error) {
	return cachedCompute(ctx, s, engine.OpWeightedAverage, args(records), func(ctx context.Context) (float64, error) {
		return s.gateway.WeightedAverage(ctx, records)
	})
}

// GPA maps the weighted average onto the configured GPA scale.
func (s *AnalyticsService) GPA(ctx context.Context, records []models.GradeRecord) (float64, bool, error) {
	return cachedCompute(ctx, s, engine.OpGPA, args(records, s.scale), func(ctx context.Context) (float64, error) {
		return s.gateway.GPA(ctx, records, s.scale)
	})
}

// SubjectAverage returns the weighted average for a single subject.
func (s *AnalyticsService) SubjectAverage(ctx context.Context, records []models.GradeRecord, subject string) (float64, bool, error) {
	return cachedCompute(ctx, s, engine.OpSubjectAverage, args(records, subject), func(ctx context.Context) (float64, error) {
		return s.gateway.SubjectAverage(ctx, records, subject)
	})
}

// SubjectSummary returns the full aggregate for a single subject.
func (s *AnalyticsService) SubjectSummary(ctx context.Context, records []models.GradeRecord, subject string) (models.SubjectSummary, bool, error) {
	return cachedCompute(ctx, s, engine.OpSubjectSummary, args(records, subject), func(ctx context.Context) (models.SubjectSummary, error) {
		return s.gateway.SubjectSummary(ctx, records, subject)
	})
}

// Subjects returns one summary per distinct subject, sorted by name.
func (s *AnalyticsService) Subjects(ctx context.Context, records []models.GradeRecord) ([]models.SubjectSummary, bool, error) {
	return cachedCompute(ctx, s, engine.OpAllSubjectSummaries, args(records), func(ctx context.Context) ([]models.SubjectSummary, error) {
		return s.gateway.AllSubjectSummaries(ctx, records)
	})
}

// Statistics returns the descriptive summary of a numeric sample.
func (s *AnalyticsService) Statistics(ctx context.Context, values []float64) (models.StatisticsSummary, bool, error) {
	return cachedCompute(ctx, s, engine.OpStatistics, args(values), func(ctx context.Context) (models.StatisticsSummary, error) {
		return s.gateway.Statistics(ctx, values)
	})
}

// Trend fits a least-squares line over the time series.
func (s *AnalyticsService) Trend(ctx context.Context, series []models.TrendPoint) (models.TrendResult, bool, error) {
	return cachedCompute(ctx, s, engine.OpTrend, args(series), func(ctx context.Context) (models.TrendResult, error) {
		return s.gateway.Trend(ctx, series)
	})
}

// Correlation returns the Pearson coefficient of two samples.
func (s *AnalyticsService) Correlation(ctx context.Context, first, second []float64) (float64, bool, error) {
	return cachedCompute(ctx, s, engine.OpCorrelation, args(first, second), func(ctx context.Context) (float64, error) {
		return s.gateway.Correlation(ctx, first, second)
	})
}

// PredictGradeNeeded solves for the grade required to reach a target average.
func (s *AnalyticsService) PredictGradeNeeded(ctx context.Context, currentAvg, currentWeight, targetAvg, newWeight float64) (float64, bool, error) {
	return cachedCompute(ctx, s, engine.OpPredictNeeded, args(currentAvg, currentWeight, targetAvg, newWeight), func(ctx context.Context) (float64, error) {
		return s.gateway.PredictGradeNeeded(ctx, currentAvg, currentWeight, targetAvg, newWeight)
	})
}

// PredictNextGrade forecasts the next grade from history.
func (s *AnalyticsService) PredictNextGrade(ctx context.Context, records []models.GradeRecord) (models.PredictionResult, bool, error) {
	return cachedCompute(ctx, s, engine.OpPredictNext, args(records), func(ctx context.Context) (models.PredictionResult, error) {
		return s.gateway.PredictNextGrade(ctx, records)
	})
}

// PredictFinalGrade projects the final grade across remaining assessments.
func (s *AnalyticsService) PredictFinalGrade(ctx context.Context, records []models.GradeRecord, remaining int, typicalWeight float64) (models.PredictionResult, bool, error) {
	return cachedCompute(ctx, s, engine.OpPredictFinal, args(records, remaining, typicalWeight), func(ctx context.Context) (models.PredictionResult, error) {
		return s.gateway.PredictFinalGrade(ctx, records, remaining, typicalWeight)
	})
}

// PassProbability estimates the chance of finishing at a passing average.
func (s *AnalyticsService) PassProbability(ctx context.Context, records []models.GradeRecord, remainingWeight float64) (float64, bool, error) {
	return cachedCompute(ctx, s, engine.OpPassProbability, args(records, remainingWeight), func(ctx context.Context) (float64, error) {
		return s.gateway.PassProbability(ctx, records, remainingWeight)
	})
}

// WhatIf simulates hypothetical grades against the current standing.
func (s *AnalyticsService) WhatIf(ctx context.Context, records, hypothetical []models.GradeRecord) (models.WhatIfResult, bool, error) {
	return cachedCompute(ctx, s, engine.OpWhatIf, args(records, hypothetical), func(ctx context.Context) (models.WhatIfResult, error) {
		return s.gateway.WhatIf(ctx, records, hypothetical)
	})
}

// ImpactAnalysis sweeps hypothetical grades for one subject.
func (s *AnalyticsService) ImpactAnalysis(ctx context.Context, records []models.GradeRecord, subject string, weight float64) ([]models.ImpactEntry, bool, error) {
	return cachedCompute(ctx, s, engine.OpImpactAnalysis, args(records, subject, weight), func(ctx context.Context) ([]models.ImpactEntry, error) {
		return s.gateway.ImpactAnalysis(ctx, records, subject, weight)
	})
}

// GradesForTargets solves the target ladder for one subject.
func (s *AnalyticsService) GradesForTargets(ctx context.Context, records []models.GradeRecord, subject string, weight float64, targets []float64) ([]models.GradeNeeded, bool, error) {
	return cachedCompute(ctx, s, engine.OpGradesForTargets, args(records, subject, weight, targets), func(ctx context.Context) ([]models.GradeNeeded, error) {
		return s.gateway.GradesForTargets(ctx, records, subject, weight, targets)
	})
}

// PassFail splits the records into passing and failing cohorts.
func (s *AnalyticsService) PassFail(ctx context.Context, records []models.GradeRecord) (models.PassFailStats, bool, error) {
	return cachedCompute(ctx, s, engine.OpPassFail, args(records), func(ctx context.Context) (models.PassFailStats, error) {
		return s.gateway.PassFailStats(ctx, records)
	})
}

// RunningAverage reports the cumulative weighted average over time.
func (s *AnalyticsService) RunningAverage(ctx context.Context, records []models.GradeRecord) ([]models.RunningAveragePoint, bool, error) {
	return cachedCompute(ctx, s, engine.OpRunningAverage, args(records), func(ctx context.Context) ([]models.RunningAveragePoint, error) {
		return s.gateway.RunningAverage(ctx, records)
	})
}

// Distribution returns the whole-grade histogram.
func (s *AnalyticsService) Distribution(ctx context.Context, records []models.GradeRecord) (map[string]int, bool, error) {
	return cachedCompute(ctx, s, engine.OpDistribution, args(records), func(ctx context.Context) (map[string]int, error) {
		return s.gateway.Distribution(ctx, records)
	})
}

// Report runs the full analysis in one call.
func (s *AnalyticsService) Report(ctx context.Context, records []models.GradeRecord) (models.AnalyticsReport, bool, error) {
	return cachedCompute(ctx, s, engine.OpAnalyzeAll, args(records), func(ctx context.Context) (models.AnalyticsReport, error) {
		return s.gateway.AnalyzeAll(ctx, records)
	})
}

// SystemMetrics returns the instrumentation snapshot plus the accelerated
// path's current state.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	snapshot := s.metrics.Snapshot()
	snapshot.AcceleratorState = s.gateway.State().String()
	snapshot.AcceleratorVersion = s.gateway.Version()
	return snapshot
}

// cachedCompute is the shared cache-then-compute path. The cache key is
// derived from the operation name and a digest of the serialized arguments,
// so equal inputs always map to the same entry.
func cachedCompute[T any](ctx context.Context, s *AnalyticsService, op string, cacheArgs []interface{}, compute func(context.Context) (T, error)) (T, bool, error) {
	cacheKey := analyticsCacheKey(op, cacheArgs)

	var cached T
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			var zero T
			return zero, false, fmt.Errorf("get %s cache: %w", op, err)
		} else if hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	result, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveComputation(op, s.gateway.State().String(), time.Since(start))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.ttl); err != nil && s.logger != nil {
			s.logger.Warn("cache analytics result", zap.String("op", op), zap.Error(err))
		}
	}
	return result, false, nil
}

func args(values ...interface{}) []interface{} { return values }

func analyticsCacheKey(op string, cacheArgs []interface{}) string {
	payload, err := json.Marshal(cacheArgs)
	if err != nil {
		return "analytics:" + op
	}
	digest := sha1.Sum(payload)
	return fmt.Sprintf("analytics:%s:%s", op, hex.EncodeToString(digest[:]))
}
