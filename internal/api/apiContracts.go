package api

import "time"

type UploadExternalStatus string

const (
	UploadStatusError UploadExternalStatus = "Error"
)

// UploadReport is the per-upload result emitted by the splitter binary.
type UploadReport struct {
	Id               string        `json:"id" example:"9f1c2d4b77aa4e0f"`
	OriginalFilename string        `json:"original_filename" example:"batch_scan.pdf"`
	Status           string        `json:"status"`
	Progress         int           `json:"progress"`
	TotalPages       int           `json:"total_pages"`
	Message          string        `json:"message,omitempty"`
	Groups           []GroupReport `json:"groups"`
	Error            *ReportError  `json:"error,omitempty"`
	CreatedTime      time.Time     `json:"created_time"`
	UpdatedTime      time.Time     `json:"updated_time,omitempty"`
}

type ReportError struct {
	Message string `json:"message" example:"source file not found"`
}

type GroupReport struct {
	Name       string `json:"name"`
	Filename   string `json:"filename"`
	Code       string `json:"code"`
	PagesCount int    `json:"pages_count"`
	PdfPath    string `json:"pdf_path"`
}

// ProgressReport answers a status poll for one upload.
type ProgressReport struct {
	Id       string `json:"id"`
	Status   string `json:"status"`
	Stage    string `json:"stage,omitempty" example:"Materialize"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	Groups   int    `json:"groups"`
}
