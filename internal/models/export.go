package models

import "time"

// ExportFormat names a supported output format.
type ExportFormat string

const (
	ExportPDF ExportFormat = "pdf"
	ExportCSV ExportFormat = "csv"
)

// ExportStatus tracks an export job lifecycle.
type ExportStatus string

const (
	ExportPending    ExportStatus = "pending"
	ExportProcessing ExportStatus = "processing"
	ExportDone       ExportStatus = "done"
	ExportFailed     ExportStatus = "failed"
)

// ExportJob is the cached state of one asynchronous export. The
// rendered file lives on disk; DownloadToken is a signed capability
// for fetching it without authentication.
type ExportJob struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"-"`
	ContentID     string       `json:"contentId"`
	Format        ExportFormat `json:"format"`
	Status        ExportStatus `json:"status"`
	FileName      string       `json:"fileName,omitempty"`
	DownloadToken string       `json:"downloadToken,omitempty"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
	Error         string       `json:"error,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
