package models

import "time"

// Pagination carries list paging metadata on response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// SystemMetrics represents system level analytics captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ComputeCount             uint64    `json:"compute_count"`
	AverageComputeDurationMs float64   `json:"average_compute_duration_ms"`
	AcceleratorFallbacks     uint64    `json:"accelerator_fallbacks"`
	AcceleratorState         string    `json:"accelerator_state"`
	AcceleratorVersion       string    `json:"accelerator_version,omitempty"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
