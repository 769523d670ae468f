package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/pkg/config"
)

// AcceleratedBackend delegates computations to the native compute sidecar
// over HTTP. Every method is a thin wrapper around a single POST to
// /v1/compute/{op}; transport or decoding failures surface as errors so the
// gateway can fall back per call.
type AcceleratedBackend struct {
	baseURL       string
	client        *http.Client
	healthTimeout time.Duration
	version       string
}

// NewAcceleratedBackend builds the sidecar client. No network traffic happens
// until Handshake.
func NewAcceleratedBackend(cfg config.AcceleratorConfig) *AcceleratedBackend {
	return &AcceleratedBackend{
		baseURL:       cfg.BaseURL,
		client:        &http.Client{Timeout: cfg.RequestTimeout},
		healthTimeout: cfg.HealthTimeout,
	}
}

func (b *AcceleratedBackend) Name() string { return "accelerated" }

// Version reports the sidecar build reported during the handshake, empty
// before Handshake succeeds.
func (b *AcceleratedBackend) Version() string { return b.version }

// Handshake probes the sidecar's health endpoint and records its version.
// It must succeed exactly once before the backend is used for computation.
func (b *AcceleratedBackend) Handshake(ctx context.Context) (string, error) {
	healthCtx, cancel := context.WithTimeout(ctx, b.healthTimeout)
	defer cancel()

	if err := b.get(healthCtx, "/healthz", nil); err != nil {
		return "", fmt.Errorf("accelerator health check: %w", err)
	}

	var payload struct {
		Version string `json:"version"`
	}
	versionCtx, cancel := context.WithTimeout(ctx, b.healthTimeout)
	defer cancel()
	if err := b.get(versionCtx, "/version", &payload); err != nil {
		return "", fmt.Errorf("accelerator version: %w", err)
	}

	b.version = payload.Version
	return payload.Version, nil
}

func (b *AcceleratedBackend) Average(ctx context.Context, records []models.GradeRecord) (float64, error) {
	var out scalarResponse
	err := b.compute(ctx, OpAverage, recordsRequest{Records: recordsPayload(records)}, &out)
	return out.Value, err
}

func (b *AcceleratedBackend) WeightedAverage(ctx context.Context, records []models.GradeRecord) (float64, error) {
	var out scalarResponse
	err := b.compute(ctx, OpWeightedAverage, recordsRequest{Records: recordsPayload(records)}, &out)
	return out.Value, err
}

func (b *AcceleratedBackend) GPA(ctx context.Context, records []models.GradeRecord, scale models.GradeScale) (float64, error) {
	var out scalarResponse
	req := struct {
		Records []models.GradeRecord `json:"records"`
		Scale   models.GradeScale    `json:"scale"`
	}{recordsPayload(records), scale.Normalize()}
	err := b.compute(ctx, OpGPA, req, &out)
	return out.Value, err
}

func (b *AcceleratedBackend) SubjectAverage(ctx context.Context, records []models.GradeRecord, subject string) (float64, error) {
	var out scalarResponse
	err := b.compute(ctx, OpSubjectAverage, subjectRequest{recordsPayload(records), subject}, &out)
	return out.Value, err
}

func (b *AcceleratedBackend) SubjectSummary(ctx context.Context, records []models.GradeRecord, subject string) (models.SubjectSummary, error) {
	var out models.SubjectSummary
	err := b.compute(ctx, OpSubjectSummary, subjectRequest{recordsPayload(records), subject}, &out)
	return out, err
}

func (b *AcceleratedBackend) AllSubjectSummaries(ctx context.Context, records []models.GradeRecord) ([]models.SubjectSummary, error) {
	out := []models.SubjectSummary{}
	err := b.compute(ctx, OpAllSubjectSummaries, recordsRequest{recordsPayload(records)}, &out)
	return out, err
}

func (b *AcceleratedBackend) Statistics(ctx context.Context, values []float64) (models.StatisticsSummary, error) {
	var out models.StatisticsSummary
	req := struct {
		Values []float64 `json:"values"`
	}{floatsPayload(values)}
	err := b.compute(ctx, OpStatistics, req, &out)
	return out, err
}

func (b *AcceleratedBackend) Trend(ctx context.Context, series []models.TrendPoint) (models.TrendResult, error) {
	var out models.TrendResult
	req := struct {
		Series []models.TrendPoint `json:"series"`
	}{series}
	if req.Series == nil {
		req.Series = []models.TrendPoint{}
	}
	err := b.compute(ctx, OpTrend, req, &out)
	return out, err
}

func (b *AcceleratedBackend) Correlation(ctx context.Context, first, second []float64) (float64, error) {
	var out scalarResponse
	req := struct {
		First  []float64 `json:"first"`
		Second []float64 `json:"second"`
	}{floatsPayload(first), floatsPayload(second)}
	err := b.compute(ctx, OpCorrelation, req, &out)
	return out.Value, err
}

func (b *AcceleratedBackend) PredictGradeNeeded(ctx context.Context, currentAvg, currentWeight, targetAvg, newWeight float64) (float64, error) {
	var out scalarResponse
	req := struct {
		CurrentAverage float64 `json:"current_average"`
		CurrentWeight  float64 `json:"current_weight"`
		TargetAverage  float64 `json:"target_average"`
		NewWeight      float64 `json:"new_weight"`
	}{currentAvg, currentWeight, targetAvg, newWeight}
	err := b.compute(ctx, OpPredictNeeded, req, &out)
	return out.Value, err
}

func (b *AcceleratedBackend) PredictNextGrade(ctx context.Context, records []models.GradeRecord) (models.PredictionResult, error) {
	var out models.PredictionResult
	err := b.compute(ctx, OpPredictNext, recordsRequest{recordsPayload(records)}, &out)
	return out, err
}

func (b *AcceleratedBackend) PredictFinalGrade(ctx context.Context, records []models.GradeRecord, remaining int, typicalWeight float64) (models.PredictionResult, error) {
	var out models.PredictionResult
	req := struct {
		Records       []models.GradeRecord `json:"records"`
		Remaining     int                  `json:"remaining"`
		TypicalWeight float64              `json:"typical_weight"`
	}{recordsPayload(records), remaining, typicalWeight}
	err := b.compute(ctx, OpPredictFinal, req, &out)
	return out, err
}

func (b *AcceleratedBackend) PassProbability(ctx context.Context, records []models.GradeRecord, remainingWeight float64) (float64, error) {
	var out scalarResponse
	req := struct {
		Records         []models.GradeRecord `json:"records"`
		RemainingWeight float64              `json:"remaining_weight"`
	}{recordsPayload(records), remainingWeight}
	err := b.compute(ctx, OpPassProbability, req, &out)
	return out.Value, err
}

func (b *AcceleratedBackend) WhatIf(ctx context.Context, records, hypothetical []models.GradeRecord) (models.WhatIfResult, error) {
	var out models.WhatIfResult
	req := struct {
		Records      []models.GradeRecord `json:"records"`
		Hypothetical []models.GradeRecord `json:"hypothetical"`
	}{recordsPayload(records), recordsPayload(hypothetical)}
	err := b.compute(ctx, OpWhatIf, req, &out)
	return out, err
}

func (b *AcceleratedBackend) ImpactAnalysis(ctx context.Context, records []models.GradeRecord, subject string, weight float64) ([]models.ImpactEntry, error) {
	out := []models.ImpactEntry{}
	req := struct {
		Records []models.GradeRecord `json:"records"`
		Subject string               `json:"subject"`
		Weight  float64              `json:"weight"`
	}{recordsPayload(records), subject, weight}
	err := b.compute(ctx, OpImpactAnalysis, req, &out)
	return out, err
}

func (b *AcceleratedBackend) GradesForTargets(ctx context.Context, records []models.GradeRecord, subject string, weight float64, targets []float64) ([]models.GradeNeeded, error) {
	out := []models.GradeNeeded{}
	req := struct {
		Records []models.GradeRecord `json:"records"`
		Subject string               `json:"subject"`
		Weight  float64              `json:"weight"`
		Targets []float64            `json:"targets"`
	}{recordsPayload(records), subject, weight, floatsPayload(targets)}
	err := b.compute(ctx, OpGradesForTargets, req, &out)
	return out, err
}

func (b *AcceleratedBackend) PassFailStats(ctx context.Context, records []models.GradeRecord) (models.PassFailStats, error) {
	var out models.PassFailStats
	err := b.compute(ctx, OpPassFail, recordsRequest{recordsPayload(records)}, &out)
	return out, err
}

func (b *AcceleratedBackend) RunningAverage(ctx context.Context, records []models.GradeRecord) ([]models.RunningAveragePoint, error) {
	out := []models.RunningAveragePoint{}
	err := b.compute(ctx, OpRunningAverage, recordsRequest{recordsPayload(records)}, &out)
	return out, err
}

func (b *AcceleratedBackend) Distribution(ctx context.Context, records []models.GradeRecord) (map[string]int, error) {
	out := map[string]int{}
	err := b.compute(ctx, OpDistribution, recordsRequest{recordsPayload(records)}, &out)
	return out, err
}

func (b *AcceleratedBackend) AnalyzeAll(ctx context.Context, records []models.GradeRecord) (models.AnalyticsReport, error) {
	var out models.AnalyticsReport
	err := b.compute(ctx, OpAnalyzeAll, recordsRequest{recordsPayload(records)}, &out)
	return out, err
}

type recordsRequest struct {
	Records []models.GradeRecord `json:"records"`
}

type subjectRequest struct {
	Records []models.GradeRecord `json:"records"`
	Subject string               `json:"subject"`
}

type scalarResponse struct {
	Value float64 `json:"value"`
}

func recordsPayload(records []models.GradeRecord) []models.GradeRecord {
	if records == nil {
		return []models.GradeRecord{}
	}
	return records
}

func floatsPayload(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}

func (b *AcceleratedBackend) compute(ctx context.Context, op string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	url := fmt.Sprintf("%s/v1/compute/%s", b.baseURL, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("accelerator %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("accelerator %s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (b *AcceleratedBackend) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
