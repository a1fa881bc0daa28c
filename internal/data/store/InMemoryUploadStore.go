package store

import (
	"context"
	"sync"

	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
)

type InMemoryUploadStore struct {
	uploadMutex *sync.RWMutex
	uploadMap   map[string]uploadModel.Upload
}

func InitInMemoryUploadStore() *InMemoryUploadStore {
	return &InMemoryUploadStore{
		uploadMutex: new(sync.RWMutex),
		uploadMap:   make(map[string]uploadModel.Upload),
	}
}

func (store *InMemoryUploadStore) SaveUpload(ctx context.Context, upload uploadModel.Upload) error {
	store.uploadMutex.Lock()
	defer store.uploadMutex.Unlock()
	store.uploadMap[upload.Id] = upload
	return nil
}

func (store *InMemoryUploadStore) GetUpload(ctx context.Context, uploadId string) (uploadModel.Upload, bool) {
	store.uploadMutex.RLock()
	defer store.uploadMutex.RUnlock()
	result, found := store.uploadMap[uploadId]
	return result, found
}

func (store *InMemoryUploadStore) DeleteUpload(ctx context.Context, uploadId string) {
	store.uploadMutex.Lock()
	defer store.uploadMutex.Unlock()
	delete(store.uploadMap, uploadId)
}
