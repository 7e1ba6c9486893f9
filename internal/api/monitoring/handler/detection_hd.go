package monitoringHandler

import (
	"strconv"
	"time"

	"ProjectMonitoring/internal/api/monitoring"
	"ProjectMonitoring/internal/entity"
	contextPkg "ProjectMonitoring/pkg/context"
	"ProjectMonitoring/pkg/handlerUtil"
	"ProjectMonitoring/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *MonitoringHandler) CreateDetection(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create detection request")

	var req monitoring.CreateDetectionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
		}
	}
	if req.EmployeeID == "" {
		req.EmployeeID = ctx.Query("employee_id")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	detection, err := h.monitoringService.CreateDetection(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_detection")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, makeDetectionResponse(detection))
	}
}

func (h *MonitoringHandler) GetDetections(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing get detections request")

	req := monitoring.ListDetectionsQuery{
		EmployeeID: ctx.Query("employee_id"),
		StartDate:  ctx.Query("start_date"),
		EndDate:    ctx.Query("end_date"),
	}

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return errHandler.Handle(ctx, requestID, monitoring.ErrInvalidLimit, ctx.Path(), "parse_limit")
		}
		req.Limit = limit
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	detections, err := h.monitoringService.GetDetections(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_detections")
	}

	responses := make([]monitoring.DetectionResponse, 0, len(detections))
	for _, d := range detections {
		responses = append(responses, makeDetectionResponse(d))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"detections": responses,
			"count":      len(responses),
		})
	}
}

func (h *MonitoringHandler) GetAnalytics(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing analytics request")

	req := monitoring.AnalyticsQuery{
		EmployeeID: ctx.Query("employee_id"),
	}

	if raw := ctx.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return errHandler.Handle(ctx, requestID, monitoring.ErrInvalidDays, ctx.Path(), "parse_days")
		}
		req.Days = days
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	summary, err := h.monitoringService.GetAnalytics(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_analytics")
	}

	response := monitoring.AnalyticsResponse{
		TotalDetections:     summary.TotalDetections,
		PresencePercentage:  summary.PresencePercentage,
		WorkingHours:        summary.WorkingHours,
		EmotionDistribution: summary.EmotionDistribution,
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

func (h *MonitoringHandler) GetLiveStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	employeeID := ctx.Query("employee_id")
	if employeeID == "" {
		return errHandler.HandleValidationError(ctx, requestID, fiber.ErrBadRequest, ctx.Path())
	}

	status, err := h.monitoringService.GetLiveStatus(c, employeeID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_live_status")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, status)
	}
}

func makeDetectionResponse(d entity.DetectionLog) monitoring.DetectionResponse {
	return monitoring.DetectionResponse{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		Timestamp:  d.Timestamp.Format(time.RFC3339),
		IsPresent:  d.IsPresent,
		Emotion:    d.Emotion,
		Confidence: d.Confidence,
	}
}
