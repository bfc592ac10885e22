package models

import "time"

// ReportKind selects the daily roster sheet or the monthly matrix.
type ReportKind string

const (
	ReportDaily   ReportKind = "daily"
	ReportMonthly ReportKind = "monthly"
)

// ReportFormat is the output document type.
type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatPDF  ReportFormat = "pdf"
	FormatXLSX ReportFormat = "xlsx"
)

func (f ReportFormat) Valid() bool {
	return f == FormatCSV || f == FormatPDF || f == FormatXLSX
}

// ExportStatus tracks an asynchronous export through the worker queue.
type ExportStatus string

const (
	ExportQueued     ExportStatus = "queued"
	ExportProcessing ExportStatus = "processing"
	ExportFinished   ExportStatus = "finished"
	ExportFailed     ExportStatus = "failed"
)

// ReportParams identifies one report: a class and either a date or a month/year.
type ReportParams struct {
	Kind    ReportKind   `json:"kind" validate:"required,oneof=daily monthly"`
	Format  ReportFormat `json:"format" validate:"required,oneof=csv pdf xlsx"`
	ClassID string       `json:"classId" validate:"required"`
	Date    string       `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Month   int          `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year    int          `json:"year,omitempty" validate:"omitempty,min=1900,max=9999"`
}

// ExportJob is the status of a queued export.
type ExportJob struct {
	ID          string       `json:"id"`
	Params      ReportParams `json:"params"`
	Status      ExportStatus `json:"status"`
	Filename    string       `json:"filename,omitempty"`
	File        string       `json:"-"`
	DownloadURL string       `json:"download_url,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	FinishedAt  *time.Time   `json:"finished_at,omitempty"`
}
