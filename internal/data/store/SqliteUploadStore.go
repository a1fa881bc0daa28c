package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var uploadStoreLogger = logger_i.NewLogger("sqliteUploadStore")

type SqliteUploadStore struct {
	db *sql.DB
}

func NewSqliteUploadStore(db *sql.DB) *SqliteUploadStore {
	return &SqliteUploadStore{db: db}
}

func (s *SqliteUploadStore) SaveUpload(ctx context.Context, upload uploadModel.Upload) error {
	query := `
		INSERT INTO uploads
			(id, user_id, original_filename, stored_filename, source_path,
			 total_pages, status, progress, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_pages = excluded.total_pages,
			status      = excluded.status,
			progress    = excluded.progress,
			message     = excluded.message,
			updated_at  = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		upload.Id, upload.UserId, upload.OriginalFilename, upload.StoredFilename,
		upload.SourcePath, upload.TotalPages, string(upload.Status), upload.Progress,
		upload.Message, upload.CreatedTime.Unix(), upload.UpdatedTime.Unix())
	if err != nil {
		uploadStoreLogger.Error("failed to save upload", "traceId", ctx.Value(config.TRACE_ID_KEY), "uploadId", upload.Id, "error", err)
		return fmt.Errorf("save upload %s: %w", upload.Id, err)
	}
	return nil
}

func (s *SqliteUploadStore) GetUpload(ctx context.Context, id string) (uploadModel.Upload, bool) {
	query := `
		SELECT id, user_id, original_filename, stored_filename, source_path,
		       total_pages, status, progress, message, created_at, updated_at
		FROM uploads WHERE id = ?
	`
	var upload uploadModel.Upload
	var status string
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&upload.Id, &upload.UserId, &upload.OriginalFilename, &upload.StoredFilename,
		&upload.SourcePath, &upload.TotalPages, &status, &upload.Progress,
		&upload.Message, &createdAt, &updatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			uploadStoreLogger.Error("failed to read upload", "traceId", ctx.Value(config.TRACE_ID_KEY), "uploadId", id, "error", err)
		}
		return uploadModel.Upload{}, false
	}
	upload.Status = uploadModel.UploadStatus(status)
	upload.CreatedTime = time.Unix(createdAt, 0)
	upload.UpdatedTime = time.Unix(updatedAt, 0)
	return upload, true
}

func (s *SqliteUploadStore) DeleteUpload(ctx context.Context, id string) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id); err != nil {
		uploadStoreLogger.Error("failed to delete upload", "uploadId", id, "error", err)
	}
}
