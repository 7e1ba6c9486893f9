package monitoringRepository

import (
	"database/sql"
	"time"

	"ProjectMonitoring/internal/entity"
	contextPkg "ProjectMonitoring/pkg/context"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type DetectionLogDB struct {
	ID         sql.NullString  `db:"id"`
	EmployeeID sql.NullString  `db:"employee_id"`
	Timestamp  time.Time       `db:"timestamp"`
	IsPresent  bool            `db:"is_present"`
	Emotion    sql.NullString  `db:"emotion"`
	Confidence sql.NullFloat64 `db:"confidence"`
}

func (r *detectionRepository) CreateDetection(c context.Context, detection entity.DetectionLog) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id":          detection.ID,
		"employee_id": detection.EmployeeID,
		"timestamp":   detection.Timestamp.UTC(),
		"is_present":  detection.IsPresent,
		"emotion":     detection.Emotion,
		"confidence":  detection.Confidence,
	}

	query, args, err := sqlx.Named(queryCreateDetection, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateDetection")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating detection log")
		return err
	}

	return nil
}

func (r *detectionRepository) GetDetectionsByEmployee(c context.Context, employeeID string, timeRange TimeRange, limit int) ([]entity.DetectionLog, error) {
	requestID := contextPkg.GetRequestID(c)
	var rows []DetectionLogDB

	if limit <= 0 {
		limit = 100
	}

	argsKV := map[string]interface{}{
		"employee_id": employeeID,
		"limit":       limit,
	}

	queryStr := queryGetDetectionsByEmployee
	switch {
	case timeRange.Start != nil && timeRange.End != nil:
		queryStr = queryGetDetectionsByEmployeeRange
		argsKV["start"] = timeRange.Start.UTC()
		argsKV["end"] = timeRange.End.UTC()
	case timeRange.Start != nil:
		queryStr = queryGetDetectionsByEmployeeFrom
		argsKV["start"] = timeRange.Start.UTC()
	case timeRange.End != nil:
		queryStr = queryGetDetectionsByEmployeeUntil
		argsKV["end"] = timeRange.End.UTC()
	}

	query, args, err := sqlx.Named(queryStr, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionsByEmployee named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionsByEmployee execution err")
		return nil, err
	}

	detections := make([]entity.DetectionLog, 0, len(rows))
	for _, row := range rows {
		detections = append(detections, makeDetectionLog(row))
	}

	return detections, nil
}

func makeDetectionLog(row DetectionLogDB) entity.DetectionLog {
	detection := entity.DetectionLog{
		ID:         row.ID.String,
		EmployeeID: row.EmployeeID.String,
		Timestamp:  row.Timestamp,
		IsPresent:  row.IsPresent,
	}

	if row.Emotion.Valid {
		emotion := row.Emotion.String
		detection.Emotion = &emotion
	}
	if row.Confidence.Valid {
		confidence := row.Confidence.Float64
		detection.Confidence = &confidence
	}

	return detection
}
