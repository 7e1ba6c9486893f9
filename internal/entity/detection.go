package entity

import "time"

// DetectionLog is one immutable presence/emotion observation for a
// subject. Rows are append only: created exactly once per sampling tick,
// never mutated, never deleted. Emotion and Confidence are nil iff
// IsPresent is false.
type DetectionLog struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Timestamp  time.Time `json:"timestamp"`
	IsPresent  bool      `json:"is_present"`
	Emotion    *string   `json:"emotion"`
	Confidence *float64  `json:"confidence"`
}

// WellFormed reports whether the emotion/confidence nullability
// invariant holds.
func (d DetectionLog) WellFormed() bool {
	if d.IsPresent {
		return true
	}
	return d.Emotion == nil && d.Confidence == nil
}

// AnalyticsSummary is derived from a DetectionLog window on every
// request; it is never persisted or cached.
type AnalyticsSummary struct {
	TotalDetections     int            `json:"total_detections"`
	PresencePercentage  float64        `json:"presence_percentage"`
	WorkingHours        float64        `json:"working_hours"`
	EmotionDistribution map[string]int `json:"emotion_distribution"`
}

// MonitoringMode describes how observations are currently produced.
type MonitoringMode string

const (
	ModeLive MonitoringMode = "live"
	ModeDemo MonitoringMode = "demo"
)

// LiveStatus is the latest observation snapshot for a subject, cached
// for cheap status reads between sampling ticks.
type LiveStatus struct {
	EmployeeID string         `json:"employee_id"`
	Timestamp  time.Time      `json:"timestamp"`
	IsPresent  bool           `json:"is_present"`
	Emotion    *string        `json:"emotion"`
	Confidence *float64       `json:"confidence"`
	Mode       MonitoringMode `json:"mode"`
}
