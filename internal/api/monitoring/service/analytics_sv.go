package monitoringService

import (
	"math"
	"time"

	"ProjectMonitoring/internal/api/monitoring"
	monitoringRepository "ProjectMonitoring/internal/api/monitoring/repository"
	"ProjectMonitoring/internal/entity"
	contextPkg "ProjectMonitoring/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// analyticsFetchLimit bounds one aggregation window. At the default 30s
// sampling interval this covers more than a month of continuous logs.
const analyticsFetchLimit = 100000

func (s *monitoringService) GetAnalytics(ctx context.Context, req monitoring.AnalyticsQuery) (entity.AnalyticsSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)

	days := req.Days
	if days == 0 {
		days = 7
	}
	if days < 0 {
		return entity.AnalyticsSummary{}, monitoring.ErrInvalidDays
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	timeRange := monitoringRepository.TimeRange{Start: &start, End: &end}

	repo, err := s.monitoringRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.AnalyticsSummary{}, err
	}

	detections, err := repo.Detection.GetDetectionsByEmployee(ctx, req.EmployeeID, timeRange, analyticsFetchLimit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": req.EmployeeID,
			"error":       err.Error(),
		}).Error("Failed to query detection logs for analytics")
		return entity.AnalyticsSummary{}, monitoring.ErrQueryDetections
	}

	return BuildAnalytics(detections, s.interval.Minutes()), nil
}

// BuildAnalytics derives the summary from a log window. Each present
// detection contributes perDetectionMinutes of working time; the
// emotion distribution counts only present rows with a committed
// emotion. An empty window yields all zeros, never an error.
func BuildAnalytics(detections []entity.DetectionLog, perDetectionMinutes float64) entity.AnalyticsSummary {
	summary := entity.AnalyticsSummary{
		EmotionDistribution: make(map[string]int),
	}

	if len(detections) == 0 {
		return summary
	}

	present := 0
	for _, d := range detections {
		if !d.IsPresent {
			continue
		}
		present++
		if d.Emotion != nil {
			summary.EmotionDistribution[*d.Emotion]++
		}
	}

	summary.TotalDetections = len(detections)
	summary.PresencePercentage = round2(float64(present) / float64(len(detections)) * 100)
	summary.WorkingHours = round2(float64(present) * perDetectionMinutes / 60)

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
