package monitoring

// CreateDetectionRequest triggers one sampling tick for a subject.
type CreateDetectionRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

// ListDetectionsQuery filters the detection log. Bounds are RFC3339;
// start is inclusive, end exclusive.
type ListDetectionsQuery struct {
	EmployeeID string `query:"employee_id" validate:"required"`
	Limit      int    `query:"limit"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
}

// AnalyticsQuery selects the aggregation window: the last N days.
type AnalyticsQuery struct {
	EmployeeID string `query:"employee_id" validate:"required"`
	Days       int    `query:"days"`
}

type DetectionResponse struct {
	ID         string   `json:"id"`
	EmployeeID string   `json:"employee_id"`
	Timestamp  string   `json:"timestamp"`
	IsPresent  bool     `json:"is_present"`
	Emotion    *string  `json:"emotion"`
	Confidence *float64 `json:"confidence"`
}

type AnalyticsResponse struct {
	TotalDetections     int            `json:"total_detections"`
	PresencePercentage  float64        `json:"presence_percentage"`
	WorkingHours        float64        `json:"working_hours"`
	EmotionDistribution map[string]int `json:"emotion_distribution"`
}

// StreamFrame is one WebSocket push: the annotated frame plus the
// observation that produced it.
type StreamFrame struct {
	Frame      string   `json:"frame"`
	IsPresent  bool     `json:"is_present"`
	Emotion    *string  `json:"emotion"`
	Confidence *float64 `json:"confidence"`
	Timestamp  string   `json:"timestamp"`
	Mode       string   `json:"mode"`
}
