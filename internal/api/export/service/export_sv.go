package exportService

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"ProjectMonitoring/internal/api/export"
	"ProjectMonitoring/internal/api/monitoring"
	"ProjectMonitoring/internal/entity"
	contextPkg "ProjectMonitoring/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// windowFetchLimit bounds one export window; generous enough for a month
// of continuous 30s sampling.
const windowFetchLimit = 100000

func (s *exportService) fetchWindow(ctx context.Context, employeeID string, days int) (reportWindow, error) {
	if days <= 0 {
		days = 1
	}

	start := s.now().AddDate(0, 0, -days)

	detections, err := s.monitoringService.GetDetections(ctx, monitoring.ListDetectionsQuery{
		EmployeeID: employeeID,
		Limit:      windowFetchLimit,
		StartDate:  start.Format(time.RFC3339),
	})
	if err != nil {
		return reportWindow{}, err
	}

	summary, err := s.monitoringService.GetAnalytics(ctx, monitoring.AnalyticsQuery{
		EmployeeID: employeeID,
		Days:       days,
	})
	if err != nil {
		return reportWindow{}, err
	}

	return reportWindow{detections: detections, summary: summary}, nil
}

func (s *exportService) BuildCSVReport(ctx context.Context, req export.ReportQuery) (Report, error) {
	requestID := contextPkg.GetRequestID(ctx)

	window, err := s.fetchWindow(ctx, req.EmployeeID, req.Days)
	if err != nil {
		return Report{}, err
	}

	data, err := renderCSV(window, s.now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to render CSV report")
		return Report{}, export.ErrGenerateReport
	}

	report := Report{
		FileName:    reportFileName(req.EmployeeID, "csv", s.now()),
		ContentType: "text/csv",
		Data:        data,
	}

	s.archive(ctx, report)

	return report, nil
}

func (s *exportService) BuildPDFReport(ctx context.Context, req export.ReportQuery) (Report, error) {
	requestID := contextPkg.GetRequestID(ctx)

	window, err := s.fetchWindow(ctx, req.EmployeeID, req.Days)
	if err != nil {
		return Report{}, err
	}

	if len(window.detections) == 0 {
		return Report{}, export.ErrNoDataForExport
	}

	data, err := renderPDF(window, req.EmployeeID, req.Days, s.now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to render PDF report")
		return Report{}, export.ErrGenerateReport
	}

	report := Report{
		FileName:    reportFileName(req.EmployeeID, "pdf", s.now()),
		ContentType: "application/pdf",
		Data:        data,
	}

	s.archive(ctx, report)

	return report, nil
}

func (s *exportService) EmailReport(ctx context.Context, req export.EmailReportRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	report, err := s.BuildCSVReport(ctx, export.ReportQuery{
		EmployeeID: req.EmployeeID,
		Days:       req.Days,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Employee Monitoring Report - %s", req.EmployeeID)
	body := fmt.Sprintf(
		"Attached is the monitoring report for employee %s covering the last %d day(s).",
		req.EmployeeID, normalizeDays(req.Days),
	)

	if err := s.smtp.SendReport(req.Recipient, subject, body, report.FileName, report.Data); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"recipient":  req.Recipient,
			"error":      err.Error(),
		}).Error("Failed to send report email")
		return export.ErrSendReportEmail
	}

	return nil
}

// archive pushes the report to S3 when configured. Failures only log;
// the caller still gets its report.
func (s *exportService) archive(ctx context.Context, report Report) {
	if s.s3 == nil {
		return
	}

	requestID := contextPkg.GetRequestID(ctx)

	location, err := s.s3.UploadReport(report.FileName, report.Data)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"file_name":  report.FileName,
			"error":      err.Error(),
		}).Warn("Failed to archive report to S3")
		return
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"location":   location,
	}).Debug("Report archived")
}

func normalizeDays(days int) int {
	if days <= 0 {
		return 1
	}
	return days
}

func reportFileName(employeeID, ext string, now time.Time) string {
	return fmt.Sprintf("employee_report_%s_%s.%s", employeeID, now.Format("20060102"), ext)
}

// renderCSV writes the report header, the summary, the emotion
// distribution and the full detection log.
func renderCSV(window reportWindow, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	rows := [][]string{
		{"Employee Monitoring Report"},
		{"Generated:", now.Format("2006-01-02 15:04:05")},
		{},
		{"Summary"},
		{"Total Detections:", fmt.Sprintf("%d", window.summary.TotalDetections)},
		{"Presence Rate:", fmt.Sprintf("%.2f%%", window.summary.PresencePercentage)},
		{"Working Hours:", fmt.Sprintf("%.2fh", window.summary.WorkingHours)},
		{},
		{"Emotion Distribution"},
	}

	for _, e := range sortedEmotions(window.summary.EmotionDistribution) {
		rows = append(rows, []string{capitalize(e.label), fmt.Sprintf("%d", e.count)})
	}

	rows = append(rows,
		[]string{},
		[]string{"Detailed Detection Log"},
		[]string{"Timestamp", "Employee ID", "Status", "Emotion", "Confidence"},
	)

	for _, d := range window.detections {
		status := "Not Present"
		if d.IsPresent {
			status = "Present"
		}
		rows = append(rows, []string{
			d.Timestamp.Format(time.RFC3339),
			d.EmployeeID,
			status,
			emotionOrNA(d),
			confidenceOrNA(d, "%.2f%%"),
		})
	}

	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

type emotionCount struct {
	label string
	count int
}

// sortedEmotions orders the distribution by count descending, label
// ascending for equal counts, so report output is stable.
func sortedEmotions(distribution map[string]int) []emotionCount {
	emotions := make([]emotionCount, 0, len(distribution))
	for label, count := range distribution {
		emotions = append(emotions, emotionCount{label: label, count: count})
	}

	sort.Slice(emotions, func(i, j int) bool {
		if emotions[i].count != emotions[j].count {
			return emotions[i].count > emotions[j].count
		}
		return emotions[i].label < emotions[j].label
	})

	return emotions
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func emotionOrNA(d entity.DetectionLog) string {
	if d.Emotion == nil {
		return "N/A"
	}
	return *d.Emotion
}

func confidenceOrNA(d entity.DetectionLog, format string) string {
	if d.Confidence == nil {
		return "N/A"
	}
	return fmt.Sprintf(format, *d.Confidence)
}
