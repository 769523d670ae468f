package models

// StatisticsSummary holds descriptive statistics for a numeric sample.
// It is a pure computation output and has no independent lifecycle.
type StatisticsSummary struct {
	Count        int       `json:"count"`
	Sum          float64   `json:"sum"`
	Mean         float64   `json:"mean"`
	Median       float64   `json:"median"`
	Mode         []float64 `json:"mode"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Range        float64   `json:"range"`
	Variance     float64   `json:"variance"`
	StdDeviation float64   `json:"std_deviation"`
	Percentile25 float64   `json:"percentile_25"`
	Percentile50 float64   `json:"percentile_50"`
	Percentile75 float64   `json:"percentile_75"`
	Percentile90 float64   `json:"percentile_90"`
	IQR          float64   `json:"iqr"`
	Skewness     float64   `json:"skewness"`
	Kurtosis     float64   `json:"kurtosis"`
}

// TrendDirection classifies the sign of a fitted slope.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// TrendStrength buckets regression quality by R².
type TrendStrength string

const (
	StrengthNone     TrendStrength = "none"
	StrengthWeak     TrendStrength = "weak"
	StrengthModerate TrendStrength = "moderate"
	StrengthStrong   TrendStrength = "strong"
)

// TrendPoint pairs a timestamp (milliseconds) with an observed value.
type TrendPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// TrendResult is the outcome of an ordinary-least-squares fit over a series.
type TrendResult struct {
	Slope           float64        `json:"slope"`
	Intercept       float64        `json:"intercept"`
	RSquared        float64        `json:"r_squared"`
	Direction       TrendDirection `json:"direction"`
	Strength        TrendStrength  `json:"strength"`
	PredictedValues []float64      `json:"predicted_values"`
}

// RunningAveragePoint is one step of the cumulative weighted average series.
type RunningAveragePoint struct {
	Timestamp int64   `json:"timestamp"`
	Average   float64 `json:"average"`
}
