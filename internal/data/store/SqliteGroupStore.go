package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var groupStoreLogger = logger_i.NewLogger("sqliteGroupStore")

type SqliteGroupStore struct {
	db *sql.DB
}

func NewSqliteGroupStore(db *sql.DB) *SqliteGroupStore {
	return &SqliteGroupStore{db: db}
}

func (s *SqliteGroupStore) SaveGroup(ctx context.Context, group uploadModel.Group) error {
	query := `
		INSERT INTO upload_groups
			(id, upload_id, user_id, code, name, filename, pdf_path, pages_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		group.Id, group.UploadId, group.UserId, group.Code, group.Name,
		group.Filename, group.PdfPath, group.PagesCount, group.CreatedTime.Unix())
	if err != nil {
		groupStoreLogger.Error("failed to save group", "uploadId", group.UploadId, "group", group.Name, "error", err)
		return fmt.Errorf("save group %s: %w", group.Name, err)
	}
	return nil
}

// ListGroups returns the groups of one upload in materialization order.
func (s *SqliteGroupStore) ListGroups(ctx context.Context, uploadId string) ([]uploadModel.Group, error) {
	query := `
		SELECT id, upload_id, user_id, code, name, filename, pdf_path, pages_count, created_at
		FROM upload_groups WHERE upload_id = ? ORDER BY filename
	`
	rows, err := s.db.QueryContext(ctx, query, uploadId)
	if err != nil {
		return nil, fmt.Errorf("list groups for %s: %w", uploadId, err)
	}
	defer rows.Close()

	var groups []uploadModel.Group
	for rows.Next() {
		var group uploadModel.Group
		var createdAt int64
		if err := rows.Scan(&group.Id, &group.UploadId, &group.UserId, &group.Code,
			&group.Name, &group.Filename, &group.PdfPath, &group.PagesCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		group.CreatedTime = time.Unix(createdAt, 0)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups for %s: %w", uploadId, err)
	}
	return groups, nil
}

func (s *SqliteGroupStore) DeleteGroups(ctx context.Context, uploadId string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_groups WHERE upload_id = ?`, uploadId)
	if err != nil {
		groupStoreLogger.Error("failed to delete groups", "uploadId", uploadId, "error", err)
		return 0, fmt.Errorf("delete groups for %s: %w", uploadId, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return deleted, nil
}
