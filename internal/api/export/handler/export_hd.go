package exportHandler

import (
	"fmt"
	"strconv"
	"time"

	"ProjectMonitoring/internal/api/export"
	exportService "ProjectMonitoring/internal/api/export/service"
	"ProjectMonitoring/internal/api/monitoring"
	contextPkg "ProjectMonitoring/pkg/context"
	"ProjectMonitoring/pkg/handlerUtil"
	"ProjectMonitoring/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ExportHandler) ExportCSV(ctx *fiber.Ctx) error {
	return h.serveReport(ctx, "export_csv", h.exportService.BuildCSVReport)
}

func (h *ExportHandler) ExportPDF(ctx *fiber.Ctx) error {
	return h.serveReport(ctx, "export_pdf", h.exportService.BuildPDFReport)
}

func (h *ExportHandler) serveReport(
	ctx *fiber.Ctx,
	operation string,
	build func(context.Context, export.ReportQuery) (exportService.Report, error),
) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing report export request")

	req := export.ReportQuery{
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

	report, err := build(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), operation)
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		ctx.Set(fiber.HeaderContentType, report.ContentType)
		ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", report.FileName))
		return ctx.Status(fiber.StatusOK).Send(report.Data)
	}
}

func (h *ExportHandler) EmailReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing email report request")

	var req export.EmailReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.exportService.EmailReport(c, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "email_report")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Report sent successfully",
		})
	}
}
