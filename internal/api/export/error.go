package export

import "ProjectMonitoring/pkg/response"

var (
	ErrNoDataForExport = response.NewError(404, "no data found for export")
	ErrGenerateReport  = response.NewError(500, "failed to generate report")
	ErrSendReportEmail = response.NewError(500, "failed to send report email")
)
