package monitoringHandler

import (
	monitoringService "ProjectMonitoring/internal/api/monitoring/service"
	"ProjectMonitoring/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type MonitoringHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	monitoringService monitoringService.IMonitoringService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ms monitoringService.IMonitoringService,
) *MonitoringHandler {
	return &MonitoringHandler{
		log:               log,
		validator:         validator,
		middleware:        middleware,
		monitoringService: ms,
	}
}

func (h *MonitoringHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	monitoring := srv.Group("/monitoring")

	monitoring.Post("/detections", h.middleware.NewTokenMiddleware, h.CreateDetection)
	monitoring.Get("/detections", h.middleware.NewTokenMiddleware, h.GetDetections)
	monitoring.Get("/analytics", h.middleware.NewTokenMiddleware, h.GetAnalytics)
	monitoring.Get("/status", h.middleware.NewTokenMiddleware, h.GetLiveStatus)
	monitoring.Get("/video_feed", h.VideoFeed)

	monitoring.Use("/ws", wsMiddleware)
	monitoring.Get("/ws", websocket.New(h.handleStreamWebSocket))
}
