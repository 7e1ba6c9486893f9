package export

// ReportQuery selects the export window: the last N days for one
// subject.
type ReportQuery struct {
	EmployeeID string `query:"employee_id" validate:"required"`
	Days       int    `query:"days"`
}

// EmailReportRequest mails a generated CSV report to the recipient.
type EmailReportRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Days       int    `json:"days"`
	Recipient  string `json:"recipient" validate:"required,email"`
}
