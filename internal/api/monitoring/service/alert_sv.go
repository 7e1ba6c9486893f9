package monitoringService

import (
	"time"

	"ProjectMonitoring/internal/entity"
	contextPkg "ProjectMonitoring/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// trackAbsence counts consecutive absent ticks per subject and fires a
// WhatsApp alert once the configured limit is reached. The counter and
// the alert latch reset on the next present tick, so a continuous
// absence produces exactly one alert.
func (s *monitoringService) trackAbsence(ctx context.Context, detection entity.DetectionLog) {
	if s.whatsapp == nil || s.alertPhone == "" {
		return
	}

	s.mu.Lock()
	if detection.IsPresent {
		s.absentTicks[detection.EmployeeID] = 0
		s.alerted[detection.EmployeeID] = false
		s.mu.Unlock()
		return
	}

	s.absentTicks[detection.EmployeeID]++
	ticks := s.absentTicks[detection.EmployeeID]
	shouldAlert := ticks >= s.absentLimit && !s.alerted[detection.EmployeeID]
	if shouldAlert {
		s.alerted[detection.EmployeeID] = true
	}
	s.mu.Unlock()

	if !shouldAlert {
		return
	}

	requestID := contextPkg.GetRequestID(ctx)
	absentSince := detection.Timestamp.Add(-time.Duration(ticks) * s.interval)

	if err := s.whatsapp.SendAbsenceAlert(ctx, s.alertPhone, detection.EmployeeID, absentSince); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": detection.EmployeeID,
			"error":       err.Error(),
		}).Error("Failed to send absence alert")
		// Unlatch so the next absent tick retries the alert.
		s.mu.Lock()
		s.alerted[detection.EmployeeID] = false
		s.mu.Unlock()
	}
}
