package exportService

import (
	"strings"
	"testing"
	"time"

	"ProjectMonitoring/internal/entity"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func testWindow() reportWindow {
	happy := strPtr("happy")
	sad := strPtr("sad")

	return reportWindow{
		detections: []entity.DetectionLog{
			{
				ID:         "01A",
				EmployeeID: "EMP001",
				Timestamp:  time.Date(2025, 6, 2, 9, 0, 30, 0, time.UTC),
				IsPresent:  true,
				Emotion:    happy,
				Confidence: floatPtr(88.5),
			},
			{
				ID:         "01B",
				EmployeeID: "EMP001",
				Timestamp:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
				IsPresent:  true,
				Emotion:    sad,
				Confidence: floatPtr(71.2),
			},
			{
				ID:         "01C",
				EmployeeID: "EMP001",
				Timestamp:  time.Date(2025, 6, 2, 8, 59, 30, 0, time.UTC),
				IsPresent:  false,
			},
		},
		summary: entity.AnalyticsSummary{
			TotalDetections:     3,
			PresencePercentage:  66.67,
			WorkingHours:        0.02,
			EmotionDistribution: map[string]int{"happy": 1, "sad": 1},
		},
	}
}

func TestRenderCSVSections(t *testing.T) {
	data, err := renderCSV(testWindow(), time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("renderCSV returned error: %v", err)
	}

	content := string(data)
	for _, want := range []string{
		"Employee Monitoring Report",
		"Generated:,2025-06-02 10:00:00",
		"Summary",
		"Total Detections:,3",
		"Presence Rate:,66.67%",
		"Working Hours:,0.02h",
		"Emotion Distribution",
		"Happy,1",
		"Sad,1",
		"Detailed Detection Log",
		"Timestamp,Employee ID,Status,Emotion,Confidence",
		"2025-06-02T09:00:30Z,EMP001,Present,happy,88.50%",
		"2025-06-02T08:59:30Z,EMP001,Not Present,N/A,N/A",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("CSV missing %q\nreport:\n%s", want, content)
		}
	}
}

func TestRenderCSVEmptyWindow(t *testing.T) {
	window := reportWindow{
		summary: entity.AnalyticsSummary{EmotionDistribution: map[string]int{}},
	}

	data, err := renderCSV(window, time.Now())
	if err != nil {
		t.Fatalf("renderCSV returned error: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "Total Detections:,0") {
		t.Errorf("empty window CSV missing zero summary:\n%s", content)
	}
	if !strings.Contains(content, "Detailed Detection Log") {
		t.Errorf("empty window CSV missing log section:\n%s", content)
	}
}

func TestRenderPDFProducesDocument(t *testing.T) {
	data, err := renderPDF(testWindow(), "EMP001", 1, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("renderPDF returned error: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("renderPDF produced empty output")
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("output does not start with PDF magic, got %q", string(data[:8]))
	}
}

func TestSortedEmotionsStableOrder(t *testing.T) {
	distribution := map[string]int{"sad": 2, "happy": 5, "angry": 2}

	emotions := sortedEmotions(distribution)

	if len(emotions) != 3 {
		t.Fatalf("len = %d, want 3", len(emotions))
	}
	if emotions[0].label != "happy" {
		t.Errorf("first = %q, want happy", emotions[0].label)
	}
	// Equal counts fall back to label order.
	if emotions[1].label != "angry" || emotions[2].label != "sad" {
		t.Errorf("tie order = %q,%q, want angry,sad", emotions[1].label, emotions[2].label)
	}
}

func TestReportFileName(t *testing.T) {
	name := reportFileName("EMP001", "csv", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	if name != "employee_report_EMP001_20250602.csv" {
		t.Errorf("reportFileName = %q", name)
	}
}
