package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

// GatewayState tracks the accelerated path's lifecycle.
type GatewayState int32

const (
	StateUninitialized GatewayState = iota
	StateInitializing
	StateReady
	StateUnavailable
)

func (s GatewayState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

// Accelerator is the accelerated backend plus its lifecycle handshake.
type Accelerator interface {
	Backend
	Handshake(ctx context.Context) (string, error)
	Version() string
}

// Gateway routes every computation to the accelerated backend when it is
// ready, falling back to the pure backend on any single-call failure. A
// failed handshake makes the accelerated path unavailable for the rest of the
// process; it is never retried and never surfaces to callers.
type Gateway struct {
	pure        Backend
	accelerated Accelerator
	logger      *zap.Logger
	onFallback  func(op string)

	state    atomic.Int32
	initOnce sync.Once
	version  string
}

// NewGateway wires the two backends together. accelerated may be nil when the
// accelerated path is disabled; onFallback may be nil.
func NewGateway(pure Backend, accelerated Accelerator, logger *zap.Logger, onFallback func(op string)) *Gateway {
	return &Gateway{
		pure:        pure,
		accelerated: accelerated,
		logger:      logger,
		onFallback:  onFallback,
	}
}

func (g *Gateway) Name() string { return "gateway" }

// Init performs the accelerated-path handshake exactly once per process.
// Concurrent and repeated callers share the single attempt's outcome. The
// return value reports availability, never an error: an unavailable
// accelerator just means every computation uses the pure path.
func (g *Gateway) Init(ctx context.Context) bool {
	g.initOnce.Do(func() {
		if g.accelerated == nil {
			g.state.Store(int32(StateUnavailable))
			return
		}

		g.state.Store(int32(StateInitializing))
		version, err := g.accelerated.Handshake(ctx)
		if err != nil {
			g.state.Store(int32(StateUnavailable))
			g.logger.Warn("accelerated path unavailable, using pure implementation",
				zap.Error(err))
			return
		}

		g.version = version
		g.state.Store(int32(StateReady))
		g.logger.Info("accelerated path ready",
			zap.String("version", version))
	})
	return g.State() == StateReady
}

// State returns the current lifecycle state.
func (g *Gateway) State() GatewayState {
	return GatewayState(g.state.Load())
}

// IsAvailable reports whether computations are currently served by the
// accelerated path.
func (g *Gateway) IsAvailable() bool {
	return g.State() == StateReady
}

// Version reports the accelerated backend's version, empty when unavailable.
func (g *Gateway) Version() string {
	if g.State() != StateReady {
		return ""
	}
	return g.version
}

// fallback runs op on the accelerated path when ready and recovers to the
// pure path on a per-call basis. The accelerated failure is logged and
// counted, never returned.
func fallback[T any](g *Gateway, op string, accelerated, pure func() (T, error)) (T, error) {
	if g.State() == StateReady {
		result, err := accelerated()
		if err == nil {
			return result, nil
		}
		g.logger.Warn("accelerated computation failed, falling back",
			zap.String("op", op),
			zap.Error(err))
		if g.onFallback != nil {
			g.onFallback(op)
		}
	}
	return pure()
}

func (g *Gateway) Average(ctx context.Context, records []models.GradeRecord) (float64, error) {
	return fallback(g, OpAverage,
		func() (float64, error) { return g.accelerated.Average(ctx, records) },
		func() (float64, error) { return g.pure.Average(ctx, records) })
}

func (g *Gateway) WeightedAverage(ctx context.Context, records []models.GradeRecord) (float64, error) {
	return fallback(g, OpWeightedAverage,
		func() (float64, error) { return g.accelerated.WeightedAverage(ctx, records) },
		func() (float64, error) { return g.pure.WeightedAverage(ctx, records) })
}

func (g *Gateway) GPA(ctx context.Context, records []models.GradeRecord, scale models.GradeScale) (float64, error) {
	return fallback(g, OpGPA,
		func() (float64, error) { return g.accelerated.GPA(ctx, records, scale) },
		func() (float64, error) { return g.pure.GPA(ctx, records, scale) })
}

func (g *Gateway) SubjectAverage(ctx context.Context, records []models.GradeRecord, subject string) (float64, error) {
	return fallback(g, OpSubjectAverage,
		func() (float64, error) { return g.accelerated.SubjectAverage(ctx, records, subject) },
		func() (float64, error) { return g.pure.SubjectAverage(ctx, records, subject) })
}

func (g *Gateway) SubjectSummary(ctx context.Context, records []models.GradeRecord, subject string) (models.SubjectSummary, error) {
	return fallback(g, OpSubjectSummary,
		func() (models.SubjectSummary, error) { return g.accelerated.SubjectSummary(ctx, records, subject) },
		func() (models.SubjectSummary, error) { return g.pure.SubjectSummary(ctx, records, subject) })
}

func (g *Gateway) AllSubjectSummaries(ctx context.Context, records []models.GradeRecord) ([]models.SubjectSummary, error) {
	return fallback(g, OpAllSubjectSummaries,
		func() ([]models.SubjectSummary, error) { return g.accelerated.AllSubjectSummaries(ctx, records) },
		func() ([]models.SubjectSummary, error) { return g.pure.AllSubjectSummaries(ctx, records) })
}

func (g *Gateway) Statistics(ctx context.Context, values []float64) (models.StatisticsSummary, error) {
	return fallback(g, OpStatistics,
		func() (models.StatisticsSummary, error) { return g.accelerated.Statistics(ctx, values) },
		func() (models.StatisticsSummary, error) { return g.pure.Statistics(ctx, values) })
}

func (g *Gateway) Trend(ctx context.Context, series []models.TrendPoint) (models.TrendResult, error) {
	return fallback(g, OpTrend,
		func() (models.TrendResult, error) { return g.accelerated.Trend(ctx, series) },
		func() (models.TrendResult, error) { return g.pure.Trend(ctx, series) })
}

func (g *Gateway) Correlation(ctx context.Context, first, second []float64) (float64, error) {
	return fallback(g, OpCorrelation,
		func() (float64, error) { return g.accelerated.Correlation(ctx, first, second) },
		func() (float64, error) { return g.pure.Correlation(ctx, first, second) })
}

func (g *Gateway) PredictGradeNeeded(ctx context.Context, currentAvg, currentWeight, targetAvg, newWeight float64) (float64, error) {
	return fallback(g, OpPredictNeeded,
		func() (float64, error) {
			return g.accelerated.PredictGradeNeeded(ctx, currentAvg, currentWeight, targetAvg, newWeight)
		},
		func() (float64, error) {
			return g.pure.PredictGradeNeeded(ctx, currentAvg, currentWeight, targetAvg, newWeight)
		})
}

func (g *Gateway) PredictNextGrade(ctx context.Context, records []models.GradeRecord) (models.PredictionResult, error) {
	return fallback(g, OpPredictNext,
		func() (models.PredictionResult, error) { return g.accelerated.PredictNextGrade(ctx, records) },
		func() (models.PredictionResult, error) { return g.pure.PredictNextGrade(ctx, records) })
}

func (g *Gateway) PredictFinalGrade(ctx context.Context, records []models.GradeRecord, remaining int, typicalWeight float64) (models.PredictionResult, error) {
	return fallback(g, OpPredictFinal,
		func() (models.PredictionResult, error) {
			return g.accelerated.PredictFinalGrade(ctx, records, remaining, typicalWeight)
		},
		func() (models.PredictionResult, error) {
			return g.pure.PredictFinalGrade(ctx, records, remaining, typicalWeight)
		})
}

func (g *Gateway) PassProbability(ctx context.Context, records []models.GradeRecord, remainingWeight float64) (float64, error) {
	return fallback(g, OpPassProbability,
		func() (float64, error) { return g.accelerated.PassProbability(ctx, records, remainingWeight) },
		func() (float64, error) { return g.pure.PassProbability(ctx, records, remainingWeight) })
}

func (g *Gateway) WhatIf(ctx context.Context, records, hypothetical []models.GradeRecord) (models.WhatIfResult, error) {
	return fallback(g, OpWhatIf,
		func() (models.WhatIfResult, error) { return g.accelerated.WhatIf(ctx, records, hypothetical) },
		func() (models.WhatIfResult, error) { return g.pure.WhatIf(ctx, records, hypothetical) })
}

func (g *Gateway) ImpactAnalysis(ctx context.Context, records []models.GradeRecord, subject string, weight float64) ([]models.ImpactEntry, error) {
	return fallback(g, OpImpactAnalysis,
		func() ([]models.ImpactEntry, error) {
			return g.accelerated.ImpactAnalysis(ctx, records, subject, weight)
		},
		func() ([]models.ImpactEntry, error) {
			return g.pure.ImpactAnalysis(ctx, records, subject, weight)
		})
}

func (g *Gateway) GradesForTargets(ctx context.Context, records []models.GradeRecord, subject string, weight float64, targets []float64) ([]models.GradeNeeded, error) {
	return fallback(g, OpGradesForTargets,
		func() ([]models.GradeNeeded, error) {
			return g.accelerated.GradesForTargets(ctx, records, subject, weight, targets)
		},
		func() ([]models.GradeNeeded, error) {
			return g.pure.GradesForTargets(ctx, records, subject, weight, targets)
		})
}

func (g *Gateway) PassFailStats(ctx context.Context, records []models.GradeRecord) (models.PassFailStats, error) {
	return fallback(g, OpPassFail,
		func() (models.PassFailStats, error) { return g.accelerated.PassFailStats(ctx, records) },
		func() (models.PassFailStats, error) { return g.pure.PassFailStats(ctx, records) })
}

func (g *Gateway) RunningAverage(ctx context.Context, records []models.GradeRecord) ([]models.RunningAveragePoint, error) {
	return fallback(g, OpRunningAverage,
		func() ([]models.RunningAveragePoint, error) { return g.accelerated.RunningAverage(ctx, records) },
		func() ([]models.RunningAveragePoint, error) { return g.pure.RunningAverage(ctx, records) })
}

func (g *Gateway) Distribution(ctx context.Context, records []models.GradeRecord) (map[string]int, error) {
	return fallback(g, OpDistribution,
		func() (map[string]int, error) { return g.accelerated.Distribution(ctx, records) },
		func() (map[string]int, error) { return g.pure.Distribution(ctx, records) })
}

func (g *Gateway) AnalyzeAll(ctx context.Context, records []models.GradeRecord) (models.AnalyticsReport, error) {
	return fallback(g, OpAnalyzeAll,
		func() (models.AnalyticsReport, error) { return g.accelerated.AnalyzeAll(ctx, records) },
		func() (models.AnalyticsReport, error) { return g.pure.AnalyzeAll(ctx, records) })
}
