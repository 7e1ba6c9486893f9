package monitoringService

import (
	"errors"
	"time"

	"ProjectMonitoring/internal/api/monitoring"
	monitoringRepository "ProjectMonitoring/internal/api/monitoring/repository"
	"ProjectMonitoring/internal/entity"
	contextPkg "ProjectMonitoring/pkg/context"
	redisPkg "ProjectMonitoring/pkg/redis"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Sample runs one monitoring tick for the subject: grab a frame, locate
// the face, run the stabilized classifier, persist the resulting log row
// and refresh the cached live status. When the live pipeline is not
// available it falls back to fabricated demo observations so the rest of
// the system keeps flowing.
func (s *monitoringService) Sample(ctx context.Context, employeeID string) (Observation, error) {
	requestID := contextPkg.GetRequestID(ctx)

	obs := s.Observe(ctx, employeeID)

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return Observation{}, err
	}
	obs.Log.ID = ULID

	repo, err := s.monitoringRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return Observation{}, err
	}

	if err := repo.Detection.CreateDetection(ctx, obs.Log); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
			"error":       err.Error(),
		}).Error("Failed to store detection log")
		return Observation{}, monitoring.ErrCreateDetection
	}

	s.cacheLiveStatus(ctx, obs)
	s.trackAbsence(ctx, obs.Log)

	return obs, nil
}

// Observe produces the raw observation for one tick, without any
// persistence side effects.
func (s *monitoringService) Observe(ctx context.Context, employeeID string) Observation {
	requestID := contextPkg.GetRequestID(ctx)
	now := time.Now()

	if s.Mode() == entity.ModeDemo {
		demo := s.demo.Next()
		return Observation{
			Frame: demo.Frame,
			Mode:  entity.ModeDemo,
			Log: entity.DetectionLog{
				EmployeeID: employeeID,
				Timestamp:  now,
				IsPresent:  demo.IsPresent,
				Emotion:    demo.Emotion,
				Confidence: demo.Confidence,
			},
		}
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		// A glitched grab on a working camera means nobody was captured;
		// fabricating a demo observation here would inflate presence.
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Frame grab failed, logging absence")
		return Observation{
			Mode: entity.ModeLive,
			Log: entity.DetectionLog{
				EmployeeID: employeeID,
				Timestamp:  now,
				IsPresent:  false,
			},
		}
	}

	loc, err := s.locator.Locate(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Face localization failed, logging absence")
	}

	if err != nil || !loc.Found {
		outFrame := frame
		if len(loc.FrameJPEG) > 0 {
			outFrame = loc.FrameJPEG
		}
		return Observation{
			Frame: outFrame,
			Mode:  entity.ModeLive,
			Log: entity.DetectionLog{
				EmployeeID: employeeID,
				Timestamp:  now,
				IsPresent:  false,
			},
		}
	}

	state := s.registry.For(employeeID).Observe(func() (map[string]float64, error) {
		return s.classifier.Scores(ctx, loc.FaceJPEG)
	})

	stateEmotion := state.Emotion
	stateConfidence := state.Confidence

	return Observation{
		Frame: loc.FrameJPEG,
		Mode:  entity.ModeLive,
		Log: entity.DetectionLog{
			EmployeeID: employeeID,
			Timestamp:  now,
			IsPresent:  true,
			Emotion:    &stateEmotion,
			Confidence: &stateConfidence,
		},
	}
}

func (s *monitoringService) cacheLiveStatus(ctx context.Context, obs Observation) {
	requestID := contextPkg.GetRequestID(ctx)

	status := entity.LiveStatus{
		EmployeeID: obs.Log.EmployeeID,
		Timestamp:  obs.Log.Timestamp,
		IsPresent:  obs.Log.IsPresent,
		Emotion:    obs.Log.Emotion,
		Confidence: obs.Log.Confidence,
		Mode:       obs.Mode,
	}

	if err := s.redis.SetLiveStatus(ctx, status, 2*s.interval); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": obs.Log.EmployeeID,
			"error":       err.Error(),
		}).Warn("Failed to cache live status")
	}
}

func (s *monitoringService) CreateDetection(ctx context.Context, req monitoring.CreateDetectionRequest) (entity.DetectionLog, error) {
	obs, err := s.Sample(ctx, req.EmployeeID)
	if err != nil {
		return entity.DetectionLog{}, err
	}
	return obs.Log, nil
}

func (s *monitoringService) GetDetections(ctx context.Context, req monitoring.ListDetectionsQuery) ([]entity.DetectionLog, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Limit < 0 {
		return nil, monitoring.ErrInvalidLimit
	}

	timeRange, err := parseTimeRange(req.StartDate, req.EndDate)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
		}).Warn("Invalid time range in detection query")
		return nil, monitoring.ErrInvalidTimeRange
	}

	repo, err := s.monitoringRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	detections, err := repo.Detection.GetDetectionsByEmployee(ctx, req.EmployeeID, timeRange, req.Limit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": req.EmployeeID,
			"error":       err.Error(),
		}).Error("Failed to query detection logs")
		return nil, monitoring.ErrQueryDetections
	}

	return detections, nil
}

func (s *monitoringService) GetLiveStatus(ctx context.Context, employeeID string) (entity.LiveStatus, error) {
	requestID := contextPkg.GetRequestID(ctx)

	status, err := s.redis.GetLiveStatus(ctx, employeeID)
	if err != nil {
		if errors.Is(err, redisPkg.ErrStatusNotFound) {
			return entity.LiveStatus{}, monitoring.ErrStatusNotAvailable
		}
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"employee_id": employeeID,
			"error":       err.Error(),
		}).Error("Failed to read live status from cache")
		return entity.LiveStatus{}, err
	}

	return status, nil
}

// parseTimeRange converts the RFC3339 query bounds into a repository
// range. Either bound may be empty.
func parseTimeRange(startDate, endDate string) (monitoringRepository.TimeRange, error) {
	var timeRange monitoringRepository.TimeRange

	if startDate != "" {
		start, err := time.Parse(time.RFC3339, startDate)
		if err != nil {
			return monitoringRepository.TimeRange{}, err
		}
		timeRange.Start = &start
	}

	if endDate != "" {
		end, err := time.Parse(time.RFC3339, endDate)
		if err != nil {
			return monitoringRepository.TimeRange{}, err
		}
		timeRange.End = &end
	}

	if timeRange.Start != nil && timeRange.End != nil && timeRange.End.Before(*timeRange.Start) {
		return monitoringRepository.TimeRange{}, monitoring.ErrInvalidTimeRange
	}

	return timeRange, nil
}
