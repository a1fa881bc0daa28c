package store

import (
	"context"
	"sync"

	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem ProgressStore")

// InMemoryProgressStore stands in for Redis when no server is reachable.
// Snapshots never expire here, which is fine for a single-process run.
type InMemoryProgressStore struct {
	progressMutex *sync.RWMutex
	progressMap   map[string]uploadModel.ProgressSnapshot
}

func InitInMemoryProgressStore() *InMemoryProgressStore {
	return &InMemoryProgressStore{
		progressMutex: new(sync.RWMutex),
		progressMap:   make(map[string]uploadModel.ProgressSnapshot),
	}
}

func (store *InMemoryProgressStore) SetProgress(ctx context.Context, uploadId string, snapshot uploadModel.ProgressSnapshot) error {
	store.progressMutex.Lock()
	defer store.progressMutex.Unlock()
	store.progressMap[uploadId] = snapshot
	inMemLogger.Debug(uploadId, " : cached progress snapshot")
	return nil
}

func (store *InMemoryProgressStore) GetProgress(ctx context.Context, uploadId string) (uploadModel.ProgressSnapshot, bool) {
	store.progressMutex.RLock()
	defer store.progressMutex.RUnlock()
	result, found := store.progressMap[uploadId]
	return result, found
}
