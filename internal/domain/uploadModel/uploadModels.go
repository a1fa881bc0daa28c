package uploadModel

import (
	"context"
	"time"
)

type UploadStatus string
type InternalStatus string

const (
	UploadStatusPending    UploadStatus = "pending"
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusFailed     UploadStatus = "failed"

	StageInit        InternalStatus = "Init"
	StageSourceLoad  InternalStatus = "SourceLoad"
	StageDetect      InternalStatus = "SeparatorDetect"
	StageSegment     InternalStatus = "Segment"
	StageMaterialize InternalStatus = "Materialize"
	StageComplete    InternalStatus = "Complete"
	StageError       InternalStatus = "Error"
)

type Upload struct {
	Id               string       `json:"id"`
	UserId           string       `json:"user_id"`
	OriginalFilename string       `json:"original_filename"`
	StoredFilename   string       `json:"stored_filename"`
	SourcePath       string       `json:"source_path"`
	TotalPages       int          `json:"total_pages"`
	Status           UploadStatus `json:"status"`
	Progress         int          `json:"progress"`
	Message          string       `json:"message"`
	CreatedTime      time.Time    `json:"created_time"`
	UpdatedTime      time.Time    `json:"updated_time"`
}

type Group struct {
	Id          string    `json:"id"`
	UploadId    string    `json:"upload_id"`
	UserId      string    `json:"user_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Filename    string    `json:"filename"`
	PdfPath     string    `json:"pdf_path"`
	PagesCount  int       `json:"pages_count"`
	CreatedTime time.Time `json:"created_time"`
}

// ProgressSnapshot is the cached polling payload, one per upload.
type ProgressSnapshot struct {
	Status   UploadStatus   `json:"status"`
	Stage    InternalStatus `json:"stage,omitempty"`
	Progress int            `json:"progress"`
	Message  string         `json:"message"`
	Groups   int            `json:"groups"`
}

type UploadStore interface {
	SaveUpload(ctx context.Context, upload Upload) error
	GetUpload(ctx context.Context, uploadId string) (Upload, bool)
	DeleteUpload(ctx context.Context, uploadId string)
}

type GroupStore interface {
	SaveGroup(ctx context.Context, group Group) error
	ListGroups(ctx context.Context, uploadId string) ([]Group, error)
	DeleteGroups(ctx context.Context, uploadId string) (int64, error)
}

type ProgressStore interface {
	SetProgress(ctx context.Context, uploadId string, snap ProgressSnapshot) error
	GetProgress(ctx context.Context, uploadId string) (ProgressSnapshot, bool)
}
