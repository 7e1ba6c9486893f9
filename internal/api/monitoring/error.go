package monitoring

import "ProjectMonitoring/pkg/response"

var (
	ErrInvalidTimeRange   = response.NewError(400, "invalid time range format")
	ErrInvalidLimit       = response.NewError(400, "invalid limit value")
	ErrInvalidDays        = response.NewError(400, "invalid days value")
	ErrCreateDetection    = response.NewError(500, "failed to store detection")
	ErrQueryDetections    = response.NewError(500, "failed to query detections")
	ErrStatusNotAvailable = response.NewError(404, "no live status available for employee")
)
