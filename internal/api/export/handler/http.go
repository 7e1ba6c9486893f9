package exportHandler

import (
	exportService "ProjectMonitoring/internal/api/export/service"
	"ProjectMonitoring/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ExportHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	exportService exportService.IExportService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	es exportService.IExportService,
) *ExportHandler {
	return &ExportHandler{
		log:           log,
		validator:     validator,
		middleware:    middleware,
		exportService: es,
	}
}

func (h *ExportHandler) Start(srv fiber.Router) {
	export := srv.Group("/export")

	export.Get("/csv", h.middleware.NewTokenMiddleware, h.ExportCSV)
	export.Get("/pdf", h.middleware.NewTokenMiddleware, h.ExportPDF)
	export.Post("/email", h.middleware.NewTokenMiddleware, h.EmailReport)
}
