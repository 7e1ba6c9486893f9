package exportService

import (
	"time"

	"ProjectMonitoring/internal/api/export"
	monitoringService "ProjectMonitoring/internal/api/monitoring/service"
	"ProjectMonitoring/internal/entity"
	"ProjectMonitoring/pkg/s3"
	"ProjectMonitoring/pkg/smtp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Report is a rendered export artifact ready to be served or mailed.
type Report struct {
	FileName    string
	ContentType string
	Data        []byte
}

type IExportService interface {
	BuildCSVReport(ctx context.Context, req export.ReportQuery) (Report, error)
	BuildPDFReport(ctx context.Context, req export.ReportQuery) (Report, error)
	EmailReport(ctx context.Context, req export.EmailReportRequest) error
}

type exportService struct {
	log               *logrus.Logger
	monitoringService monitoringService.IMonitoringService
	smtp              smtp.ItfSmtp
	s3                s3.ItfS3
	now               func() time.Time
}

func NewExportService(
	log *logrus.Logger,
	ms monitoringService.IMonitoringService,
	smtp smtp.ItfSmtp,
	s3 s3.ItfS3,
) IExportService {
	return &exportService{
		log:               log,
		monitoringService: ms,
		smtp:              smtp,
		s3:                s3,
		now:               time.Now,
	}
}

// reportWindow is the fetched raw material for one report.
type reportWindow struct {
	detections []entity.DetectionLog
	summary    entity.AnalyticsSummary
}
