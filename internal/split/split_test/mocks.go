package split_test

import (
	"context"

	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
)

// MockUploadStore implements uploadModel.UploadStore
type MockUploadStore struct {
	// Control fields to simulate different behaviors
	OnSaveUpload   func(ctx context.Context, upload uploadModel.Upload) error
	OnGetUpload    func(ctx context.Context, uploadId string) (uploadModel.Upload, bool)
	OnDeleteUpload func(ctx context.Context, uploadId string)
}

func (m *MockUploadStore) SaveUpload(ctx context.Context, upload uploadModel.Upload) error {
	if m.OnSaveUpload != nil {
		return m.OnSaveUpload(ctx, upload)
	}
	return nil
}

func (m *MockUploadStore) GetUpload(ctx context.Context, uploadId string) (uploadModel.Upload, bool) {
	if m.OnGetUpload != nil {
		return m.OnGetUpload(ctx, uploadId)
	}
	return uploadModel.Upload{}, false
}

func (m *MockUploadStore) DeleteUpload(ctx context.Context, uploadId string) {
	if m.OnDeleteUpload != nil {
		m.OnDeleteUpload(ctx, uploadId)
	}
}

// MockGroupStore implements uploadModel.GroupStore
type MockGroupStore struct {
	OnSaveGroup    func(ctx context.Context, group uploadModel.Group) error
	OnListGroups   func(ctx context.Context, uploadId string) ([]uploadModel.Group, error)
	OnDeleteGroups func(ctx context.Context, uploadId string) (int64, error)
}

func (m *MockGroupStore) SaveGroup(ctx context.Context, group uploadModel.Group) error {
	if m.OnSaveGroup != nil {
		return m.OnSaveGroup(ctx, group)
	}
	return nil
}

func (m *MockGroupStore) ListGroups(ctx context.Context, uploadId string) ([]uploadModel.Group, error) {
	if m.OnListGroups != nil {
		return m.OnListGroups(ctx, uploadId)
	}
	return nil, nil
}

func (m *MockGroupStore) DeleteGroups(ctx context.Context, uploadId string) (int64, error) {
	if m.OnDeleteGroups != nil {
		return m.OnDeleteGroups(ctx, uploadId)
	}
	return 0, nil
}

// MockProgressStore implements uploadModel.ProgressStore
type MockProgressStore struct {
	OnSetProgress func(ctx context.Context, uploadId string, snap uploadModel.ProgressSnapshot) error
	OnGetProgress func(ctx context.Context, uploadId string) (uploadModel.ProgressSnapshot, bool)
}

func (m *MockProgressStore) SetProgress(ctx context.Context, uploadId string, snap uploadModel.ProgressSnapshot) error {
	if m.OnSetProgress != nil {
		return m.OnSetProgress(ctx, uploadId, snap)
	}
	return nil
}

func (m *MockProgressStore) GetProgress(ctx context.Context, uploadId string) (uploadModel.ProgressSnapshot, bool) {
	if m.OnGetProgress != nil {
		return m.OnGetProgress(ctx, uploadId)
	}
	return uploadModel.ProgressSnapshot{}, false
}
