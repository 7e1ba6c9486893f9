package monitoringService

import (
	"reflect"
	"testing"
	"time"

	"ProjectMonitoring/internal/entity"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func detection(present bool, emotion string, confidence float64) entity.DetectionLog {
	d := entity.DetectionLog{
		EmployeeID: "emp-1",
		Timestamp:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		IsPresent:  present,
	}
	if present {
		d.Emotion = strPtr(emotion)
		d.Confidence = floatPtr(confidence)
	}
	return d
}

func TestBuildAnalyticsEmptyWindow(t *testing.T) {
	summary := BuildAnalytics(nil, 0.5)

	if summary.TotalDetections != 0 {
		t.Errorf("TotalDetections = %d, want 0", summary.TotalDetections)
	}
	if summary.PresencePercentage != 0 {
		t.Errorf("PresencePercentage = %v, want 0", summary.PresencePercentage)
	}
	if summary.WorkingHours != 0 {
		t.Errorf("WorkingHours = %v, want 0", summary.WorkingHours)
	}
	if summary.EmotionDistribution == nil || len(summary.EmotionDistribution) != 0 {
		t.Errorf("EmotionDistribution = %v, want empty map", summary.EmotionDistribution)
	}
}

func TestBuildAnalyticsMixedWindow(t *testing.T) {
	detections := []entity.DetectionLog{
		detection(true, "happy", 88),
		detection(true, "happy", 91),
		detection(true, "sad", 72),
		detection(false, "", 0),
	}

	summary := BuildAnalytics(detections, 0.5)

	if summary.TotalDetections != 4 {
		t.Errorf("TotalDetections = %d, want 4", summary.TotalDetections)
	}
	if summary.PresencePercentage != 75.0 {
		t.Errorf("PresencePercentage = %v, want 75.0", summary.PresencePercentage)
	}
	// 3 present detections at 0.5 minutes each.
	if summary.WorkingHours != 0.03 {
		t.Errorf("WorkingHours = %v, want 0.03", summary.WorkingHours)
	}
	wantDist := map[string]int{"happy": 2, "sad": 1}
	if !reflect.DeepEqual(summary.EmotionDistribution, wantDist) {
		t.Errorf("EmotionDistribution = %v, want %v", summary.EmotionDistribution, wantDist)
	}
}

func TestBuildAnalyticsAllAbsent(t *testing.T) {
	detections := []entity.DetectionLog{
		detection(false, "", 0),
		detection(false, "", 0),
	}

	summary := BuildAnalytics(detections, 0.5)

	if summary.TotalDetections != 2 {
		t.Errorf("TotalDetections = %d, want 2", summary.TotalDetections)
	}
	if summary.PresencePercentage != 0 {
		t.Errorf("PresencePercentage = %v, want 0", summary.PresencePercentage)
	}
	if summary.WorkingHours != 0 {
		t.Errorf("WorkingHours = %v, want 0", summary.WorkingHours)
	}
	if len(summary.EmotionDistribution) != 0 {
		t.Errorf("EmotionDistribution = %v, want empty", summary.EmotionDistribution)
	}
}

func TestBuildAnalyticsPresentWithoutEmotion(t *testing.T) {
	// A present row with no committed emotion still counts toward
	// presence and working time, but not the distribution.
	d := entity.DetectionLog{EmployeeID: "emp-1", IsPresent: true}

	summary := BuildAnalytics([]entity.DetectionLog{d}, 0.5)

	if summary.PresencePercentage != 100.0 {
		t.Errorf("PresencePercentage = %v, want 100.0", summary.PresencePercentage)
	}
	if len(summary.EmotionDistribution) != 0 {
		t.Errorf("EmotionDistribution = %v, want empty", summary.EmotionDistribution)
	}
}

func TestBuildAnalyticsDeterministic(t *testing.T) {
	detections := []entity.DetectionLog{
		detection(true, "neutral", 85),
		detection(false, "", 0),
		detection(true, "angry", 77),
	}

	first := BuildAnalytics(detections, 0.5)
	second := BuildAnalytics(detections, 0.5)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("BuildAnalytics not deterministic: %v vs %v", first, second)
	}
}

func TestParseTimeRangeBounds(t *testing.T) {
	timeRange, err := parseTimeRange("2025-06-01T00:00:00Z", "2025-06-08T00:00:00Z")
	if err != nil {
		t.Fatalf("parseTimeRange returned error: %v", err)
	}
	if timeRange.Start == nil || timeRange.End == nil {
		t.Fatal("expected both bounds set")
	}
	if !timeRange.Start.Before(*timeRange.End) {
		t.Errorf("start %v not before end %v", timeRange.Start, timeRange.End)
	}
}

func TestParseTimeRangeOpenBounds(t *testing.T) {
	timeRange, err := parseTimeRange("", "")
	if err != nil {
		t.Fatalf("parseTimeRange returned error: %v", err)
	}
	if timeRange.Start != nil || timeRange.End != nil {
		t.Errorf("expected open bounds, got %+v", timeRange)
	}
}

func TestParseTimeRangeRejectsGarbage(t *testing.T) {
	if _, err := parseTimeRange("yesterday", ""); err == nil {
		t.Error("expected error for non-RFC3339 start")
	}
}

func TestParseTimeRangeRejectsInverted(t *testing.T) {
	if _, err := parseTimeRange("2025-06-08T00:00:00Z", "2025-06-01T00:00:00Z"); err == nil {
		t.Error("expected error for end before start")
	}
}
